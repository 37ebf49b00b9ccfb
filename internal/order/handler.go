package order

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
	store  *Store
	config *aqm.Config
	logger aqm.Logger
	tlm    *telemetry.HTTP
}

func NewHandler(store *Store, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		config: config,
		logger: logger,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}/status", h.UpdateOrderStatus)
		r.Put("/{id}/items", h.ReplaceItems)

		r.Route("/{orderID}/items/{id}", func(r chi.Router) {
			r.Patch("/status", h.UpdateItemStatus)
			r.Delete("/", h.RemoveItem)
		})
	})
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

type OrderCreateRequest struct {
	RestaurantID uuid.UUID   `json:"restaurant_id"`
	TableNumber  *int        `json:"table_number,omitempty"`
	Notes        string      `json:"notes,omitempty"`
	Items        []ItemDraft `json:"items"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

type ItemsReplaceRequest struct {
	Items []ItemDraft `json:"items"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	var req OrderCreateRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	if req.RestaurantID == uuid.Nil {
		log.Debug("missing restaurant id in create order request")
		aqm.RespondError(w, http.StatusBadRequest, "restaurant_id is required")
		return
	}

	o, err := h.store.CreateOrder(ctx, req.RestaurantID, req.TableNumber, req.Items, req.Notes)
	if err != nil {
		h.respondStoreError(w, log, err, "cannot create order")
		return
	}

	links := aqm.RESTfulLinksFor(o)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, o, links...)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	o, err := h.store.GetOrder(ctx, id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if o == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := aqm.RESTfulLinksFor(o)
	aqm.RespondSuccess(w, o, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
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

	status := r.URL.Query().Get("status")

	orders, err := h.store.ListOrders(ctx, restaurantID, status)
	if err != nil {
		log.Error("error retrieving orders", "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	aqm.RespondCollection(w, orders, "order")
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	o, err := h.store.TransitionOrderStatus(ctx, id, req.Status)
	if err != nil {
		h.respondStoreError(w, log, err, "cannot update order status")
		return
	}
	if o == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := aqm.RESTfulLinksFor(o)
	aqm.RespondSuccess(w, o, links...)
}

func (h *Handler) UpdateItemStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateItemStatus")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	orderID, ok := h.parseIDParam(w, r, "orderID", log)
	if !ok {
		return
	}
	itemID, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	item, err := h.store.TransitionItemStatus(ctx, orderID, itemID, req.Status)
	if err != nil {
		h.respondStoreError(w, log, err, "cannot update item status")
		return
	}
	if item == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order item not found")
		return
	}

	aqm.Respond(w, http.StatusOK, item, nil)
}

func (h *Handler) ReplaceItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ReplaceItems")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	var req ItemsReplaceRequest
	if !h.decodePayload(w, r, &req, log) {
		return
	}

	o, err := h.store.ReplaceItems(ctx, id, req.Items)
	if err != nil {
		h.respondStoreError(w, log, err, "cannot replace order items")
		return
	}
	if o == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := aqm.RESTfulLinksFor(o)
	aqm.RespondSuccess(w, o, links...)
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.RemoveItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	orderID, ok := h.parseIDParam(w, r, "orderID", log)
	if !ok {
		return
	}
	itemID, ok := h.parseIDParam(w, r, "id", log)
	if !ok {
		return
	}

	o, err := h.store.RemoveItem(ctx, orderID, itemID)
	if err != nil {
		h.respondStoreError(w, log, err, "cannot remove order item")
		return
	}
	if o == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	links := aqm.RESTfulLinksFor(o)
	aqm.RespondSuccess(w, o, links...)
}

// respondStoreError surfaces Store errors untransformed: validation failures
// map to 400, state-machine violations to 409, anything else to 500.
func (h *Handler) respondStoreError(w http.ResponseWriter, log aqm.Logger, err error, msg string) {
	var validationErr *ValidationError
	var transitionErr *InvalidTransitionError
	var terminalErr *TerminalStateError
	var immutableErr *ImmutableOrderError

	switch {
	case errors.As(err, &validationErr):
		aqm.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &transitionErr), errors.As(err, &terminalErr), errors.As(err, &immutableErr):
		aqm.RespondError(w, http.StatusConflict, err.Error())
	default:
		log.Error(msg, "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, name string, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		log.Debug("missing id parameter", "param", name)
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "param", name, "id", idStr)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
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
