package handler

import (
	"net/http"

	"bondvoyage/internal/faqs/service"
	"bondvoyage/pkg/config"
	httputil "bondvoyage/pkg/http"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FAQHandler struct {
	service service.FAQService
	log     *logger.Logger
}

func NewFAQHandler(service service.FAQService, cfg *config.Config) *FAQHandler {
	return &FAQHandler{
		service: service,
		log:     cfg.Log,
	}
}

func (h *FAQHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var faq model.FAQ
	if err := httputil.DecodeJSON(r, &faq); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &faq); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, faq); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *FAQHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	faq, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, faq); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FAQHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q, err := httputil.ParseListQuery(r, listview.SortNone, service.ListFilters...)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	page, err := h.service.List(r.Context(), q)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePage(w, page); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePage", "error", err)
	}
}

func (h *FAQHandler) ForPage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	faqs, err := h.service.ForPage(r.Context(), ps.ByName("page"))
	if err != nil {
		h.writeError(w, "ForPage", err)
		return
	}

	if err := httputil.WriteSuccess(w, faqs); err != nil {
		h.log.Error("failed to write success response", "handler", "ForPage", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FAQHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.FAQUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	faq, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, faq); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *FAQHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FAQHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/faqs", h.Create)
	router.GET("/api/v1/faqs", h.GetAll)
	router.GET("/api/v1/faqs/page/:page", h.ForPage)
	router.GET("/api/v1/faqs/id/:id", h.GetByID)
	router.PATCH("/api/v1/faqs/id/:id", h.Update)
	router.DELETE("/api/v1/faqs/id/:id", h.Delete)
}

func (h *FAQHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
