package handler

import (
	"net/http"
	"time"

	"bondvoyage/internal/bookings/service"
	"bondvoyage/pkg/config"
	"bondvoyage/pkg/export"
	httputil "bondvoyage/pkg/http"
	"bondvoyage/pkg/listview"
	"bondvoyage/pkg/logger"
	"bondvoyage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const exportResource = "bookings"

type BookingHandler struct {
	service service.BookingService
	exports httputil.ExportObserver
	brand   string
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, exports httputil.ExportObserver, cfg *config.Config) *BookingHandler {
	return &BookingHandler{
		service: service,
		exports: exports,
		brand:   cfg.BrandName,
		log:     cfg.Log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
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

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q, err := httputil.ParseListQuery(r, listview.SortNewest, service.ListFilters...)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	page, err := h.service.History(r.Context(), q)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	if err := httputil.WritePage(w, page); err != nil {
		h.log.Error("failed to write paginated response", "handler", "History", "operation", "WritePage", "error", err)
	}
}

// Export serves the filtered list without paging. history=true exports the
// completed and cancelled bookings instead.
func (h *BookingHandler) Export(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	format, err := httputil.ExportFormat(r)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	history := r.URL.Query().Get("history") == "true"
	defaultSort := listview.SortNone
	if history {
		defaultSort = listview.SortNewest
	}

	q, err := httputil.ParseListQuery(r, defaultSort, service.ListFilters...)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	table, err := h.service.Export(r.Context(), q, history)
	if err != nil {
		h.writeError(w, "Export", err)
		return
	}

	meta := exportMeta(h.brand)
	if err := httputil.WriteExport(w, format, table, meta); err != nil {
		h.log.Error("failed to write export", "handler", "Export", "operation", "WriteExport", "format", format, "error", err)
		return
	}
	h.exports.ExportRendered(exportResource, string(format))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.BookingUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "Update", err)
		return
	}

	booking, err := h.service.Update(r.Context(), ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) GetItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	days, err := h.service.GetItinerary(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetItinerary", err)
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "GetItinerary", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) ReplaceItinerary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.ItineraryUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "ReplaceItinerary", err)
		return
	}

	days, err := h.service.ReplaceItinerary(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "ReplaceItinerary", err)
		return
	}

	if err := httputil.WriteSuccess(w, days); err != nil {
		h.log.Error("failed to write success response", "handler", "ReplaceItinerary", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetAll)
	router.GET("/api/v1/bookings/history", h.History)
	router.GET("/api/v1/bookings/export", h.Export)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Delete)
	router.GET("/api/v1/bookings/id/:id/itinerary", h.GetItinerary)
	router.PUT("/api/v1/bookings/id/:id/itinerary", h.ReplaceItinerary)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func exportMeta(brand string) export.Meta {
	return export.Meta{Brand: brand, GeneratedAt: time.Now()}
}
