package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mklnz/offer-relay/internal/core/domain"
	"github.com/mklnz/offer-relay/internal/core/service"
	"github.com/mklnz/offer-relay/internal/core/token"
)

// Dispatcher fans one order out to sellers.
type Dispatcher interface {
	Dispatch(ctx context.Context, order domain.Order, sellers []domain.SellerCandidate) service.DispatchResult
}

// Resolver processes clicks and force-closes.
type Resolver interface {
	HandleClick(ctx context.Context, ev domain.ClickEvent) error
	ForceClose(ctx context.Context, orderID, reason string) (int, error)
}

type HTTPHandler struct {
	dispatcher Dispatcher
	resolver   Resolver
	validate   *validator.Validate
	log        *zap.Logger
}

func NewHTTPHandler(dispatcher Dispatcher, resolver Resolver, log *zap.Logger) *HTTPHandler {
	return &HTTPHandler{
		dispatcher: dispatcher,
		resolver:   resolver,
		validate:   validator.New(),
		log:        log,
	}
}

// Router mounts every route.
func (h *HTTPHandler) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/api/dispatch", h.Dispatch)
	r.Post("/api/events/click", h.Click)
	r.Post("/api/orders/close", h.ForceClose)
	r.Get("/health", h.HealthCheck)
	return r
}

type orderPayload struct {
	ID           string  `json:"id" validate:"required"`
	HumanID      string  `json:"humanId"`
	SKU          string  `json:"sku"`
	Size         string  `json:"size"`
	MaxCeiling   float64 `json:"maxCeiling" validate:"gt=0"`
	TargetPrice  float64 `json:"targetPrice"`
	BuyerCountry string  `json:"buyerCountry" validate:"required"`
	BuyerVatRate float64 `json:"buyerVatRate" validate:"gte=0,lt=1"`
}

type sellerPayload struct {
	SellerID        string  `json:"sellerId" validate:"required"`
	SellerName      string  `json:"sellerName" validate:"required"`
	InventoryUnitID string  `json:"inventoryUnitId" validate:"required"`
	ProductName     string  `json:"productName"`
	AskPrice        float64 `json:"askPrice" validate:"gt=0"`
	VatRegime       string  `json:"vatRegime" validate:"required,oneof=margin zero_rated standard"`
	SellerCountry   string  `json:"sellerCountry" validate:"required"`
	Quantity        int     `json:"quantity" validate:"gte=0"`
}

type dispatchRequest struct {
	Order   orderPayload    `json:"order"`
	Sellers []sellerPayload `json:"sellers" validate:"required,min=1,dive"`
}

type dispatchResponse struct {
	OK        bool                   `json:"ok"`
	SentCount int                    `json:"sentCount"`
	Sent      []service.SentMessage  `json:"sent"`
	Failed    []service.FailedSeller `json:"failed,omitempty"`
}

func (h *HTTPHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order := domain.Order{
		ID:           req.Order.ID,
		HumanID:      req.Order.HumanID,
		SKU:          req.Order.SKU,
		Size:         req.Order.Size,
		MaxCeiling:   req.Order.MaxCeiling,
		TargetPrice:  req.Order.TargetPrice,
		BuyerCountry: req.Order.BuyerCountry,
		BuyerVatRate: req.Order.BuyerVatRate,
	}
	sellers := make([]domain.SellerCandidate, len(req.Sellers))
	for i, s := range req.Sellers {
		sellers[i] = domain.SellerCandidate{
			SellerID:        s.SellerID,
			SellerName:      s.SellerName,
			InventoryUnitID: s.InventoryUnitID,
			ProductName:     s.ProductName,
			AskPrice:        s.AskPrice,
			VatRegime:       domain.VatRegime(s.VatRegime),
			SellerCountry:   s.SellerCountry,
			Quantity:        s.Quantity,
		}
	}

	res := h.dispatcher.Dispatch(r.Context(), order, sellers)
	if res.Sent == nil {
		res.Sent = []service.SentMessage{}
	}
	writeJSON(w, http.StatusOK, dispatchResponse{
		OK:        len(res.Failed) == 0,
		SentCount: len(res.Sent),
		Sent:      res.Sent,
		Failed:    res.Failed,
	})
}

type clickRequest struct {
	Token     string `json:"token" validate:"required"`
	ChannelID string `json:"channelId" validate:"required"`
	MessageID string `json:"messageId" validate:"required"`
}

type clickResponse struct {
	OK     bool   `json:"ok"`
	Result string `json:"result"`
}

func (h *HTTPHandler) Click(w http.ResponseWriter, r *http.Request) {
	var req clickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	click, err := token.Decode(req.Token)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ev := domain.ClickEvent{
		Action:          click.Action,
		OrderID:         click.OrderID,
		SellerID:        click.SellerID,
		InventoryUnitID: click.InventoryUnitID,
		DecidedPrice:    click.DecidedPrice,
		ChannelID:       req.ChannelID,
		MessageID:       req.MessageID,
	}

	err = h.resolver.HandleClick(r.Context(), ev)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, clickResponse{OK: true, Result: "resolved"})
	case errors.Is(err, domain.ErrRaceLost):
		// A losing click is a normal outcome, not a failure.
		writeJSON(w, http.StatusOK, clickResponse{OK: true, Result: "already_matched"})
	case errors.Is(err, domain.ErrAlreadyProcessing):
		writeJSON(w, http.StatusOK, clickResponse{OK: true, Result: "already_processing"})
	default:
		h.log.Error("click failed",
			zap.String("orderId", ev.OrderID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream error")
	}
}

type forceCloseRequest struct {
	OrderID string `json:"orderId" validate:"required"`
	Reason  string `json:"reason" validate:"required"`
}

func (h *HTTPHandler) ForceClose(w http.ResponseWriter, r *http.Request) {
	var req forceCloseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	closed, err := h.resolver.ForceClose(r.Context(), req.OrderID, req.Reason)
	if err != nil {
		h.log.Error("force close failed",
			zap.String("orderId", req.OrderID), zap.Error(err))
		writeError(w, http.StatusBadGateway, "upstream error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "closed": closed})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
