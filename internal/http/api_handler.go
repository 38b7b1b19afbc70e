package http

import (
	"encoding/json"
	"net/http"

	"github.com/tuanvumaihuynh/pos-station/internal/apperr"
	"github.com/tuanvumaihuynh/pos-station/internal/model"
)

// productCardResponse is the JSON rendition of a product card.
type productCardResponse struct {
	Product          model.Product     `json:"product"`
	CartItem         *model.CartItem   `json:"cartItem,omitempty"`
	StockStatus      model.StockStatus `json:"stockStatus"`
	StockStatusLabel string            `json:"stockStatusLabel"`
	StockLabel       string            `json:"stockLabel"`
	UnitPriceLabel   string            `json:"unitPriceLabel"`
	BasePriceLabel   string            `json:"basePriceLabel"`
	CartLabel        string            `json:"cartLabel,omitempty"`
}

type cartResponse struct {
	Items []model.CartItem `json:"items"`
	Total float64          `json:"total"`
}

type apiHandler struct {
	*Service
}

func newAPIHandler(s *Service) *apiHandler {
	return &apiHandler{Service: s}
}

func (h *apiHandler) ListProductCards(w http.ResponseWriter, r *http.Request) {
	params, status, err := h.bindListProductCardsParams(r)
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	cards, err := h.stationSvc.ProductCards(r.Context(), params.StationID)
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	items := make([]productCardResponse, 0, len(cards))
	for _, card := range cards {
		if status != nil && card.StockStatus() != *status {
			continue
		}
		items = append(items, productCardResponse{
			Product:          card.Product,
			CartItem:         card.CartItem,
			StockStatus:      card.StockStatus(),
			StockStatusLabel: card.StockStatus().String(),
			StockLabel:       card.StockLabel(),
			UnitPriceLabel:   card.UnitPriceLabel(),
			BasePriceLabel:   card.BasePriceLabel(),
			CartLabel:        card.CartLabel(),
		})
	}

	h.writeJSON(w, r, http.StatusOK, items)
}

func (h *apiHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	params, err := h.bindStationParams(r)
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	items, total := h.stationSvc.Cart(r.Context(), params.StationID)
	h.writeJSON(w, r, http.StatusOK, cartResponse{Items: items, Total: total})
}

func (h *apiHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	params, err := h.bindStationParams(r)
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	var req addCartItemRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.handleResponseError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	item, err := h.stationSvc.AddToCart(r.Context(), params.StationID, req.ProductID)
	if err != nil {
		h.metrics.CartAdditions.WithLabelValues("rejected").Inc()
		h.handleResponseError(w, r, err)
		return
	}

	h.metrics.CartAdditions.WithLabelValues("added").Inc()
	h.writeJSON(w, r, http.StatusCreated, item)
}

func (h *apiHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	params, err := h.bindStationParams(r)
	if err != nil {
		h.handleResponseError(w, r, err)
		return
	}

	h.stationSvc.ClearCart(r.Context(), params.StationID)
	w.WriteHeader(http.StatusNoContent)
}
