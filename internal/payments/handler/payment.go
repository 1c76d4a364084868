package handler

import (
	"net/http"
	"time"

	"bondvoyage/internal/payments/service"
	"bondvoyage/pkg/config"
	"bondvoyage/pkg/export"
	httputil "bondvoyage/pkg/http"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const exportResource = "payments"

type PaymentHandler struct {
	service service.PaymentService
	exports httputil.ExportObserver
	brand   string
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, exports httputil.ExportObserver, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		exports: exports,
		brand:   cfg.BrandName,
		log:     cfg.Log,
	}
}

func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PaymentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	submission, err := h.service.Submit(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Submit", err)
		return
	}

	if err := httputil.WriteCreated(w, submission); err != nil {
		h.log.Error("failed to write created response", "handler", "Submit", "operation", "WriteCreated", "error", err)
	}
}

func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q, err := httputil.ParseListQuery(r, listview.SortNewest, service.FilterStatus, service.FilterMode)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	page, err := h.service.History(r.Context(), ps.ByName("id"), q)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	if err := httputil.WritePage(w, page); err != nil {
		h.log.Error("failed to write paginated response", "handler", "History", "operation", "WritePage", "error", err)
	}
}

func (h *PaymentHandler) Summary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	summary, err := h.service.Summary(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}

	if err := httputil.WriteSuccess(w, summary); err != nil {
		h.log.Error("failed to write success response", "handler", "Summary", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	payment, err := h.service.Verify(r.Context(), ps.ByName("id"), ps.ByName("paymentId"))
	if err != nil {
		h.writeError(w, "Verify", err)
		return
	}

	if err := httputil.WriteSuccess(w, payment); err != nil {
		h.log.Error("failed to write success response", "handler", "Verify", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var review model.PaymentReview
	if err := httputil.DecodeJSON(r, &review); err != nil {
		h.writeError(w, "Reject", err)
		return
	}

	payment, err := h.service.Reject(r.Context(), ps.ByName("id"), ps.ByName("paymentId"), &review)
	if err != nil {
		h.writeError(w, "Reject", err)
		return
	}

	if err := httputil.WriteSuccess(w, payment); err != nil {
		h.log.Error("failed to write success response", "handler", "Reject", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) GetSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	settings, err := h.service.GetSettings(r.Context())
	if err != nil {
		h.writeError(w, "GetSettings", err)
		return
	}

	if err := httputil.WriteSuccess(w, settings); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSettings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) UpdateSettings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var settings model.PaymentSettings
	if err := httputil.DecodeJSON(r, &settings); err != nil {
		h.writeError(w, "UpdateSettings", err)
		return
	}

	saved, err := h.service.UpdateSettings(r.Context(), &settings)
	if err != nil {
		h.writeError(w, "UpdateSettings", err)
		return
	}

	if err := httputil.WriteSuccess(w, saved); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateSettings", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/id/:id/payments", h.Submit)
	router.GET("/api/v1/bookings/id/:id/payments", h.History)
	router.GET("/api/v1/bookings/id/:id/summary", h.Summary)
	router.POST("/api/v1/bookings/id/:id/payments/:paymentId/verify", h.Verify)
	router.POST("/api/v1/bookings/id/:id/payments/:paymentId/reject", h.Reject)
	router.GET("/api/v1/payments", h.GetAll)
	router.GET("/api/v1/payments/export", h.Export)
	router.GET("/api/v1/payment-settings", h.GetSettings)
	router.PUT("/api/v1/payment-settings", h.UpdateSettings)
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
