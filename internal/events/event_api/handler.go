package event_api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"my-calendar/internal/chart"
	"my-calendar/internal/events/calendar"
	"my-calendar/internal/events/qr"
	events "my-calendar/internal/events/service"
	"my-calendar/internal/logger"
	"my-calendar/internal/utils"
)

const (
	msgNotFound    = "Event not found"
	msgNotExist    = "Event not exist"
	msgOverlap     = "The event overlaps with another event"
	msgInvalidBody = "Invalid Input"
	msgServerError = "Internal server error"
)

// Pinger reports whether the event store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	EventService *events.EventService
	QRGenerator  *qr.QRGenerator
	Store        Pinger
	Logger       *logger.Logger
}

func NewHandler(service *events.EventService, store Pinger, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.NewLoggerWithWriter(io.Discard)
	}
	return &Handler{
		EventService: service,
		QRGenerator:  qr.NewQRGenerator(0),
		Store:        store,
		Logger:       log,
	}
}

// RegisterRoutes registers the event routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Health)
	r.Route("/events", func(r chi.Router) {
		r.Post("/", h.CreateEvent)
		r.Get("/", h.ListEvents)
		r.Get("/statistics", h.GetStatistics)
		r.Get("/calendar.ics", h.ExportCalendar)
		r.Get("/{eventId}", h.GetEvent)
		r.Patch("/{eventId}", h.UpdateEvent)
		r.Delete("/{eventId}", h.DeleteEvent)
		r.Get("/{eventId}/qrcode", h.GetEventQR)
	})
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req events.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warn("HTTP", fmt.Sprintf("CreateEvent: failed to decode request body: %v", err))
		utils.WriteMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.EventService.CreateEvent(r.Context(), req)
	if err != nil {
		h.writeError(w, "CreateEvent", err, msgNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	page, err := h.EventService.ListEvents(r.Context(), query)
	if err != nil {
		h.writeError(w, "ListEvents", err, msgNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	detail, err := h.EventService.GetEvent(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetEvent", err, msgNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var patch map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil && !errors.Is(err, io.EOF) {
		h.Logger.Warn("HTTP", fmt.Sprintf("UpdateEvent: failed to decode request body: %v", err))
		utils.WriteMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if len(patch) == 0 {
		utils.WriteMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	id, ok := eventID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusNotFound, msgNotFound)
		return
	}

	result, err := h.EventService.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, "UpdateEvent", err, msgNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusNotFound, msgNotExist)
		return
	}

	if err := h.EventService.DeleteEvent(r.Context(), id); err != nil {
		h.writeError(w, "DeleteEvent", err, msgNotExist)
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.MessageResponse{
		Message: fmt.Sprintf("The event with id %d was removed from the database!", id),
		ID:      &id,
	})
}

// GetStatistics returns JSON unless format=image, which returns a PNG chart.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.EventService.Statistics(r.Context())
	if err != nil {
		h.writeError(w, "GetStatistics", err, msgNotFound)
		return
	}

	if r.URL.Query().Get("format") != "image" {
		utils.WriteJSON(w, http.StatusOK, stats)
		return
	}

	img, err := chart.RenderPNG(stats)
	if err != nil {
		h.writeError(w, "GetStatistics", err, msgNotFound)
		return
	}
	h.Logger.Debug("STATS", fmt.Sprintf("Rendered chart for %d day(s), %d bytes", len(stats.PerDays), len(img)))
	utils.WriteBinary(w, "image/png", img)
}

func (h *Handler) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	all, err := h.EventService.ListAllEvents(r.Context())
	if err != nil {
		h.writeError(w, "ExportCalendar", err, msgNotFound)
		return
	}

	var buf bytes.Buffer
	skipped, err := calendar.Export(&buf, all, time.Now())
	if err != nil {
		h.writeError(w, "ExportCalendar", err, msgNotFound)
		return
	}
	if len(skipped) > 0 {
		h.Logger.Warn("EVENTS", fmt.Sprintf("ExportCalendar: skipped malformed events %v", skipped))
	}
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	utils.WriteBinary(w, "text/calendar; charset=utf-8", buf.Bytes())
}

func (h *Handler) GetEventQR(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(r)
	if !ok {
		utils.WriteMessage(w, http.StatusNotFound, msgNotFound)
		return
	}
	if err := h.EventService.Exists(r.Context(), id); err != nil {
		h.writeError(w, "GetEventQR", err, msgNotFound)
		return
	}

	png, err := h.QRGenerator.GenerateEventQR(requestOrigin(r) + events.EventHref(id))
	if err != nil {
		h.writeError(w, "GetEventQR", err, msgNotFound)
		return
	}
	utils.WriteBinary(w, "image/png", png)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.Store != nil {
		if err := h.Store.Ping(r.Context()); err != nil {
			h.Logger.Error("DATABASE", fmt.Sprintf("Health check failed: %v", err))
			utils.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeError maps service errors to status codes. notFound is the 404
// message, which differs between endpoints.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error, notFound string) {
	var verr *events.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.WriteMessage(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, events.ErrOverlap):
		utils.WriteMessage(w, http.StatusBadRequest, msgOverlap)
	case errors.Is(err, events.ErrNotFound):
		utils.WriteMessage(w, http.StatusNotFound, notFound)
	default:
		h.Logger.Error("HTTP", fmt.Sprintf("%s: %v", op, err))
		utils.WriteMessage(w, http.StatusInternalServerError, msgServerError)
	}
}

func eventID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "eventId"), 10, 64)
	return id, err == nil
}

func parseListQuery(r *http.Request) (events.ListQuery, error) {
	q := events.DefaultListQuery()
	params := r.URL.Query()

	// An explicitly empty order or filter is kept and rejected by the service.
	if params.Has("order") {
		q.Order = params.Get("order")
	}
	if params.Has("filter") {
		q.Filter = params.Get("filter")
	}
	for name, dst := range map[string]*int{"page": &q.Page, "size": &q.Size} {
		v := params.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("invalid %s %q", name, v)
		}
		*dst = n
	}

	q.BaseURL = requestOrigin(r) + r.URL.Path
	q.Self = r.URL.RequestURI()
	return q, nil
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}
