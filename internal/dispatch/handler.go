package dispatch

import (
	"context"
	"net/http"

	aqm "github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/restoqr/restoqr/internal/order"
	"github.com/restoqr/restoqr/pkg/enums/orderstatus"
)

// OrderLoader is the slice of the order store the dispatch surface needs.
type OrderLoader interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*order.Order, error)
}

// Dispatcher runs one full print dispatch for an order.
type Dispatcher interface {
	Dispatch(ctx context.Context, o *order.Order) DispatchOutcome
}

type Handler struct {
	orders     OrderLoader
	dispatcher Dispatcher
	logger     aqm.Logger
	tlm        *telemetry.HTTP
}

func NewHandler(orders OrderLoader, dispatcher Dispatcher, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		orders:     orders,
		dispatcher: dispatcher,
		logger:     logger,
		tlm:        telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/orders/{id}/print", h.PrintOrder)
}

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", aqm.RequestIDFrom(r.Context()))
}

// PrintOrder triggers a print dispatch for the order. Reprints are allowed;
// staff re-run a dispatch after fixing a printer. Only cancelled orders are
// refused, the kitchen must never see them.
func (h *Handler) PrintOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PrintOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid order id parameter", "id", idStr)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return
	}

	o, err := h.orders.GetOrder(ctx, id)
	if err != nil {
		log.Error("error loading order for print", "error", err, "id", id.String())
		aqm.RespondError(w, http.StatusInternalServerError, "Could not load order")
		return
	}
	if o == nil {
		aqm.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if o.Status == orderstatus.Statuses.Cancelled.Code() {
		aqm.RespondError(w, http.StatusConflict, "Cannot print a cancelled order")
		return
	}

	outcome := h.dispatcher.Dispatch(ctx, o)
	aqm.Respond(w, http.StatusOK, outcome, nil)
}
