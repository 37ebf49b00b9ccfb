package waiter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	service *Service
	logger  aqm.Logger
	tlm     *telemetry.HTTP
}

func NewHandler(service *Service, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		service: service,
		logger:  logger,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/waiter/calls", func(r chi.Router) {
		r.Post("/", h.CreateCall)
		r.Get("/", h.ListOpenCalls)
		r.Patch("/{id}/resolve", h.ResolveCall)
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

type CallCreateRequest struct {
	RestaurantID uuid.UUID `json:"restaurant_id"`
	TableNumber  int       `json:"table_number"`
	Type         string    `json:"type,omitempty"`
	Message      string    `json:"message,omitempty"`
}

func (h *Handler) CreateCall(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateCall")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req CallCreateRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	call, err := h.service.CreateCall(ctx, req.RestaurantID, req.TableNumber, req.Type, req.Message)
	if err != nil {
		h.respondServiceError(w, log, err, "cannot create waiter call")
		return
	}

	links := aqm.RESTfulLinksFor(call)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, call, links...)
}

func (h *Handler) ListOpenCalls(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOpenCalls")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	restaurantIDStr := r.URL.Query().Get("restaurant_id")
	restaurantID, err := uuid.Parse(restaurantIDStr)
	if err != nil {
		log.Debug("invalid restaurant_id parameter", "restaurant_id", restaurantIDStr)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid restaurant_id parameter")
		return
	}

	calls, err := h.service.ListOpen(ctx, restaurantID)
	if err != nil {
		h.respondServiceError(w, log, err, "cannot list waiter calls")
		return
	}

	aqm.RespondCollection(w, calls, "waiter-call")
}

func (h *Handler) ResolveCall(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ResolveCall")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	call, err := h.service.ResolveCall(ctx, id)
	if err != nil {
		h.respondServiceError(w, log, err, "cannot resolve waiter call")
		return
	}
	if call == nil {
		aqm.RespondError(w, http.StatusNotFound, "Waiter call not found")
		return
	}

	links := aqm.RESTfulLinksFor(call)
	aqm.RespondSuccess(w, call, links...)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, log aqm.Logger, err error, msg string) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Error(msg, "error", err)
	aqm.RespondError(w, http.StatusInternalServerError, "Internal error")
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, target interface{}, log aqm.Logger) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}

	if err := json.Unmarshal(body, target); err != nil {
		log.Debug("failed to decode request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}

	return true
}
