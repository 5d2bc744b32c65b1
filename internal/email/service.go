package email

import (
	"context"
)

// BookedSlot is one confirmed slot listed in the confirmation email.
type BookedSlot struct {
	Date      string
	OpenTime  string
	CloseTime string
}

// ConfirmationPayload carries everything the booking confirmation
// message needs.
type ConfirmationPayload struct {
	ToEmail           string
	CustomerName      string
	EstablishmentName string
	CollaboratorName  string
	ServiceNames      []string
	Slots             []BookedSlot
}

// Service sends customer-facing mail. Sending is best-effort: callers log
// failures and never let them fail a booking.
type Service interface {
	SendBookingConfirmation(ctx context.Context, payload ConfirmationPayload) error
}
