package schedule

import (
	"github.com/saloonly/booking-api/internal/model"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

// DefaultSlotMinutes is the slot length used when the caller supplies
// neither a duration nor a service set.
const DefaultSlotMinutes = 30

// GenerateSlots tiles [openTime, closeTime] with fixed-length slots in
// chronological order. A trailing remainder shorter than one slot is
// dropped; a window shorter than one slot yields nothing.
func GenerateSlots(openTime, closeTime string, slotMinutes int) []model.TimeSlot {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}

	open := timeutil.TimeToMinutes(openTime)
	close := timeutil.TimeToMinutes(closeTime)

	var slots []model.TimeSlot
	for start := open; start+slotMinutes <= close; start += slotMinutes {
		slots = append(slots, model.TimeSlot{
			OpenTime:  timeutil.MinutesToTime(start),
			CloseTime: timeutil.MinutesToTime(start + slotMinutes),
		})
	}
	return slots
}
