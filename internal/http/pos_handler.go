package http

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/pos-station/internal/http/apierr"
	"github.com/tuanvumaihuynh/pos-station/internal/view"
)

const loginPath = "/login"

// posHandler serves the server-rendered POS screens.
type posHandler struct {
	*Service
}

func newPOSHandler(s *Service) *posHandler {
	return &posHandler{Service: s}
}

func stationPath(stationID int64) string {
	return fmt.Sprintf("/pos/%d", stationID)
}

func addToCartPath(stationID, productID int64) string {
	return fmt.Sprintf("/pos/%d/products/%d/add", stationID, productID)
}

func clearCartPath(stationID int64) string {
	return fmt.Sprintf("/pos/%d/cart/clear", stationID)
}

func (h *posHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderHTML(w, r, http.StatusOK, view.LoginPage{})
}

func (h *posHandler) StationPage(w http.ResponseWriter, r *http.Request) {
	params, err := h.bindStationParams(r)
	if err != nil {
		h.handleHTMLError(w, r, err)
		return
	}

	page, err := h.stationPage(r, params.StationID, "")
	if err != nil {
		h.handleHTMLError(w, r, err)
		return
	}

	h.renderHTML(w, r, http.StatusOK, page)
}

// AddToCart is the activation of a product card's name.
func (h *posHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	params, err := h.bindProductParams(r)
	if err != nil {
		h.handleHTMLError(w, r, err)
		return
	}

	if _, err := h.stationSvc.AddToCart(r.Context(), params.StationID, params.ProductID); err != nil {
		h.metrics.CartAdditions.WithLabelValues("rejected").Inc()

		res := apierr.New(err)
		if res.StatusCode >= http.StatusInternalServerError {
			h.handleHTMLError(w, r, err)
			return
		}
		h.logResponseError(r, res, err)

		page, pageErr := h.stationPage(r, params.StationID, res.Message)
		if pageErr != nil {
			h.handleHTMLError(w, r, pageErr)
			return
		}
		h.renderHTML(w, r, res.StatusCode, page)
		return
	}

	h.metrics.CartAdditions.WithLabelValues("added").Inc()
	http.Redirect(w, r, stationPath(params.StationID), http.StatusSeeOther)
}

func (h *posHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	params, err := h.bindStationParams(r)
	if err != nil {
		h.handleHTMLError(w, r, err)
		return
	}

	h.stationSvc.ClearCart(r.Context(), params.StationID)
	http.Redirect(w, r, stationPath(params.StationID), http.StatusSeeOther)
}

func (h *posHandler) stationPage(r *http.Request, stationID int64, flash string) (view.StationPage, error) {
	cards, err := h.stationSvc.ProductCards(r.Context(), stationID)
	if err != nil {
		return view.StationPage{}, fmt.Errorf("station service product cards: %w", err)
	}
	for i := range cards {
		cards[i].Action = addToCartPath(stationID, cards[i].Product.ProductID)
	}

	items, total := h.stationSvc.Cart(r.Context(), stationID)

	return view.StationPage{
		StationID:   stationID,
		Cards:       cards,
		Cart:        items,
		Total:       total,
		ClearAction: clearCartPath(stationID),
		Flash:       flash,
	}, nil
}

type renderer interface {
	Render(w io.Writer) error
}

// renderHTML renders into a buffer first so a template failure still yields a clean 500.
func (h *posHandler) renderHTML(w http.ResponseWriter, r *http.Request, status int, page renderer) {
	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		h.handleHTMLError(w, r, fmt.Errorf("render page: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "error writing page", slog.Any("error", err))
	}
}

func (h *posHandler) handleHTMLError(w http.ResponseWriter, r *http.Request, err error) {
	res := apierr.New(err)
	h.logResponseError(r, res, err)
	http.Error(w, res.Message, res.StatusCode)
}
