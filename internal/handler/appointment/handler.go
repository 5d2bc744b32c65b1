package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saloonly/booking-api/internal/middleware"
	"github.com/saloonly/booking-api/internal/model"
	"github.com/saloonly/booking-api/internal/service/booking"
	"github.com/saloonly/booking-api/pkg/httputil"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointments)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PATCH("/:id/status", h.UpdateStatus)
		appointments.POST("/:id/cancel", h.CancelAppointment)
	}
}

// RegisterPublicRoutes exposes the guest booking flow, which carries its
// own contact bundle instead of an authenticated identity.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.POST("/public/appointments", h.CreateGuestAppointments)
}

// CreateAppointments books for an authenticated customer. The caller's
// identity comes from the bearer token, never from the request body.
func (h *Handler) CreateAppointments(c *gin.Context) {
	var req model.CreateAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithBadRequest(c, "user not authenticated")
		return
	}
	req.UserID = &userID
	// Customer bookings always start PENDING; pre-confirmed bookings are
	// reserved for trusted internal callers.
	req.InitialStatus = nil

	created, err := h.service.CreateAppointments(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

// CreateGuestAppointments books without an account; the guest contact
// triple is mandatory and validated by the booking service.
func (h *Handler) CreateGuestAppointments(c *gin.Context) {
	var req model.CreateAppointmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}
	req.UserID = nil
	req.InitialStatus = nil

	created, err := h.service.CreateAppointments(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, created)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	appointment, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	var filters model.AppointmentFilters

	if raw := c.Query("establishment_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid establishment ID")
			return
		}
		filters.EstablishmentID = &id
	}
	if raw := c.Query("collaborator_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid collaborator ID")
			return
		}
		filters.CollaboratorID = &id
	}
	if raw := c.Query("status"); raw != "" {
		filters.Status = model.AppointmentStatus(raw)
	}
	if raw := c.Query("date_from"); raw != "" {
		from, err := timeutil.ParseDate(raw)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid date_from, expected YYYY-MM-DD")
			return
		}
		filters.DateFrom = &from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := timeutil.ParseDate(raw)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid date_to, expected YYYY-MM-DD")
			return
		}
		filters.DateTo = &to
	}
	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBadRequest(c, err.Error())
		return
	}

	appointment, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid appointment ID")
		return
	}

	var userID *uuid.UUID
	if uid, ok := middleware.UserID(c); ok {
		userID = &uid
	}

	appointment, err := h.service.Cancel(c.Request.Context(), id, userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, appointment)
}
