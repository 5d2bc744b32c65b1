package availability

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/saloonly/booking-api/config"
	"github.com/saloonly/booking-api/internal/service/availability"
	"github.com/saloonly/booking-api/pkg/httputil"
	"github.com/saloonly/booking-api/pkg/metrics"
	"github.com/saloonly/booking-api/pkg/timeutil"
)

type Handler struct {
	service *availability.Service
	cfg     config.BookingConfig
	metrics *metrics.Metrics
}

func NewHandler(service *availability.Service, cfg config.BookingConfig, m *metrics.Metrics) *Handler {
	return &Handler{service: service, cfg: cfg, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/appointments/availability", h.GetAvailableSlots)
}

// GetAvailableSlots answers "which slots on this date still have a free
// collaborator". The slot length comes from slot_duration_minutes, or
// from the summed durations of service_ids, or the configured default.
func (h *Handler) GetAvailableSlots(c *gin.Context) {
	establishmentID, err := uuid.Parse(c.Query("establishment_id"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid establishment ID")
		return
	}

	date, err := timeutil.ParseDate(c.Query("date"))
	if err != nil {
		httputil.RespondWithBadRequest(c, "invalid date, expected YYYY-MM-DD")
		return
	}

	query := availability.SlotsQuery{
		EstablishmentID: establishmentID,
		Date:            date,
	}

	if raw := c.Query("collaborator_id"); raw != "" {
		collaboratorID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithBadRequest(c, "invalid collaborator ID")
			return
		}
		query.CollaboratorID = &collaboratorID
	}

	if raw := c.Query("slot_duration_minutes"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes < h.cfg.MinSlotMinutes || minutes > h.cfg.MaxSlotMinutes {
			httputil.RespondWithBadRequest(c,
				fmt.Sprintf("slot_duration_minutes must be an integer between %d and %d",
					h.cfg.MinSlotMinutes, h.cfg.MaxSlotMinutes))
			return
		}
		query.SlotMinutes = minutes
	}

	if raw := c.Query("service_ids"); raw != "" && query.SlotMinutes == 0 {
		for _, part := range strings.Split(raw, ",") {
			serviceID, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				httputil.RespondWithBadRequest(c, "invalid service ID")
				return
			}
			query.ServiceIDs = append(query.ServiceIDs, serviceID)
		}
	}

	h.metrics.AvailabilityRequests.Inc()
	start := time.Now()
	slots, err := h.service.GetAvailableSlots(c.Request.Context(), query)
	h.metrics.AvailabilityLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, slots)
}
