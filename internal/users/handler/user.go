package handler

import (
	"net/http"
	"time"

	"bondvoyage/internal/users/service"
	"bondvoyage/pkg/config"
	"bondvoyage/pkg/export"
	httputil "bondvoyage/pkg/http"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const exportResource = "users"

type UserHandler struct {
	service service.UserService
	exports httputil.ExportObserver
	brand   string
	log     *logger.Logger
}

func NewUserHandler(service service.UserService, exports httputil.ExportObserver, cfg *config.Config) *UserHandler {
	return &UserHandler{
		service: service,
		exports: exports,
		brand:   cfg.BrandName,
		log:     cfg.Log,
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var user model.User
	if err := httputil.DecodeJSON(r, &user); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &user); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, user); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *UserHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func (h *UserHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	format, err := httputil.ExportFormat(r)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	q, err := httputil.ParseListQuery(r, listview.SortNone, service.ListFilters...)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	table, err := h.service.Export(r.Context(), q)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	meta := export.Meta{Brand: h.brand, GeneratedAt: time.Now()}
	if err := httputil.WriteExport(w, format, table, meta); err != nil {
		h.log.Error("failed to write export", "handler", "Export", "operation", "WriteExport", "format", format, "error", err)
		return
	}
	h.exports.ExportRendered(exportResource, string(format))
}

func (h *UserHandler) Deactivate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.Deactivate(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Deactivate", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Deactivate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) Activate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.Activate(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Activate", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Activate", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/users", h.Create)
	router.GET("/api/v1/users", h.GetAll)
	router.GET("/api/v1/users/export", h.Export)
	router.GET("/api/v1/users/id/:id", h.GetByID)
	router.POST("/api/v1/users/id/:id/deactivate", h.Deactivate)
	router.POST("/api/v1/users/id/:id/activate", h.Activate)
}

func (h *UserHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
