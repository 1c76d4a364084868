package handler

import (
	"net/http"
	"time"

	"bondvoyage/internal/activitylogs/service"
	"bondvoyage/pkg/config"
	"bondvoyage/pkg/export"
	httputil "bondvoyage/pkg/http"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const exportResource = "activity_logs"

type ActivityLogHandler struct {
	service service.ActivityLogService
	exports httputil.ExportObserver
	brand   string
	log     *logger.Logger
}

func NewActivityLogHandler(service service.ActivityLogService, exports httputil.ExportObserver, cfg *config.Config) *ActivityLogHandler {
	return &ActivityLogHandler{
		service: service,
		exports: exports,
		brand:   cfg.BrandName,
		log:     cfg.Log,
	}
}

func (h *ActivityLogHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var entry model.ActivityLogEntry
	if err := httputil.DecodeJSON(r, &entry); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Record(r.Context(), &entry); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, entry); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ActivityLogHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q, err := httputil.ParseListQuery(r, listview.SortNewest, service.ListFilters...)
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

func (h *ActivityLogHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	format, err := httputil.ExportFormat(r)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	q, err := httputil.ParseListQuery(r, listview.SortNewest, service.ListFilters...)
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

func (h *ActivityLogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/activity-logs", h.Create)
	router.GET("/api/v1/activity-logs", h.GetAll)
	router.GET("/api/v1/activity-logs/export", h.Export)
}

func (h *ActivityLogHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
