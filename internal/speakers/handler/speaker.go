package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"podium/internal/speakers/service"
	"podium/pkg/config"
	apperrors "podium/pkg/errors"
	httputil "podium/pkg/http"
	"podium/pkg/middleware"
	"podium/pkg/model"
)

type SpeakerHandler struct {
	service service.SpeakerService
	cfg     *config.Config
}

func NewSpeakerHandler(service service.SpeakerService, cfg *config.Config) *SpeakerHandler {
	return &SpeakerHandler{service: service, cfg: cfg}
}

func (h *SpeakerHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/speakers", h.GetAll)
	router.GET("/api/v1/speakers/id/:id", h.GetByID)
	router.GET("/api/v1/speakers/id/:id/availability", h.GetAvailability)
	router.PATCH("/api/v1/speakers/id/:id/availability", h.SetAvailability)

	router.POST("/api/v1/speakers", middleware.RequireAdmin(h.Create))
	router.PUT("/api/v1/speakers/id/:id", middleware.RequireAdmin(h.Update))
	router.DELETE("/api/v1/speakers/id/:id", middleware.RequireAdmin(h.Delete))
}

func (h *SpeakerHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var speaker model.Speaker
	if err := json.NewDecoder(r.Body).Decode(&speaker); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	if err := h.service.Create(r.Context(), &speaker); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, speaker)
}

func (h *SpeakerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	speaker, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, speaker)
}

func (h *SpeakerHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pageID := r.URL.Query().Get("page_id")

	speakers, totalCount, err := h.service.GetAll(r.Context(), pageID, limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, speakers, totalCount, limit, offset)
}

func (h *SpeakerHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.SpeakerUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	speaker, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, speaker)
}

func (h *SpeakerHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SpeakerHandler) GetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status, err := h.service.CurrentAvailability(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, status)
}

// availabilityRequest toggles the booking lock. make_available=true
// releases; false books for the given program coordinates.
type availabilityRequest struct {
	ProgramDate   string `json:"program_date"`
	ProgramTime   string `json:"program_time"`
	MakeAvailable bool   `json:"make_available"`
}

func (h *SpeakerHandler) SetAvailability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	if req.MakeAvailable {
		speaker, err := h.service.Release(r.Context(), ps.ByName("id"))
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		httputil.WriteSuccess(w, speaker)
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, apperrors.Unauthorized("Authorization required"))
		return
	}

	programDate, err := parseProgramDate(req.ProgramDate)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	speaker, err := h.service.Book(r.Context(), ps.ByName("id"), caller, programDate, req.ProgramTime)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, speaker)
}

// parseProgramDate accepts RFC 3339 or a bare calendar date. An empty
// string maps to the zero time so the booking engine reports the
// missing field.
func parseProgramDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.InvalidInput("program_date must be RFC 3339 or YYYY-MM-DD")
}
