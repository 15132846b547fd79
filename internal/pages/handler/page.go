package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"podium/internal/pages/service"
	"podium/pkg/config"
	apperrors "podium/pkg/errors"
	httputil "podium/pkg/http"
	"podium/pkg/middleware"
	"podium/pkg/model"
)

type PageHandler struct {
	service service.PageService
	cfg     *config.Config
}

func NewPageHandler(service service.PageService, cfg *config.Config) *PageHandler {
	return &PageHandler{service: service, cfg: cfg}
}

func (h *PageHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/pages", h.GetAll)
	router.GET("/api/v1/pages/id/:id", h.GetByID)

	router.POST("/api/v1/pages", middleware.RequireAdmin(h.Create))
	router.PUT("/api/v1/pages/id/:id", middleware.RequireAdmin(h.Update))
	router.DELETE("/api/v1/pages/id/:id", middleware.RequireAdmin(h.Delete))
}

func (h *PageHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var page model.Page
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	if err := h.service.Create(r.Context(), &page); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteCreated(w, page)
}

func (h *PageHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, page)
}

func (h *PageHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	pages, err := h.service.GetAll(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, pages)
}

func (h *PageHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.PageUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		httputil.WriteError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	page, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, page)
}

func (h *PageHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}
