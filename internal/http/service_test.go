package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html/atom"

	"github.com/tuanvumaihuynh/pos-station/internal/cart"
	"github.com/tuanvumaihuynh/pos-station/internal/config"
	"github.com/tuanvumaihuynh/pos-station/internal/event"
	poshttp "github.com/tuanvumaihuynh/pos-station/internal/http"
	"github.com/tuanvumaihuynh/pos-station/internal/log"
	"github.com/tuanvumaihuynh/pos-station/internal/model"
	"github.com/tuanvumaihuynh/pos-station/internal/repository"
	"github.com/tuanvumaihuynh/pos-station/internal/service"
	"github.com/tuanvumaihuynh/pos-station/internal/storage/mq"
	"github.com/tuanvumaihuynh/pos-station/internal/view/viewtest"
	"github.com/tuanvumaihuynh/pos-station/pkg/correlationid"
)

var stationProducts = []model.Product{
	{ID: 1, OrganizationID: 1, ProductID: 101, ProductName: "Test Beer", Quantity: 50, UnitPrice: 3.5, BasePrice: 3.0, UpdatedAt: "2025-01-01T00:00:00Z"},
	{ID: 2, OrganizationID: 1, ProductID: 102, ProductName: "Cider", Quantity: 5, UnitPrice: 4.25, BasePrice: 4.0, UpdatedAt: "2025-01-01T00:00:00Z"},
	{ID: 3, OrganizationID: 1, ProductID: 103, ProductName: "Stout", Quantity: 0, UnitPrice: 5.0, BasePrice: 4.5, UpdatedAt: "2025-01-01T00:00:00Z"},
}

type fakeProductRepo struct{}

func (fakeProductRepo) ListStationProducts(_ context.Context, stationID int64) ([]model.Product, error) {
	if stationID != 7 {
		return []model.Product{}, nil
	}
	return stationProducts, nil
}

func (fakeProductRepo) GetStationProduct(_ context.Context, stationID, productID int64) (model.Product, error) {
	if stationID == 7 {
		for _, p := range stationProducts {
			if p.ProductID == productID {
				return p, nil
			}
		}
	}
	return model.Product{}, repository.ErrNotFound
}

type fakeHealth struct {
	err error
}

func (h fakeHealth) IsHealthy(context.Context) (bool, error) {
	return h.err == nil, h.err
}

func newTestHandler(t *testing.T, health fakeHealth) http.Handler {
	t.Helper()

	logger := log.Discard()
	stationSvc := service.NewStationService(logger, fakeProductRepo{}, cart.NewStore(),
		event.NewPublisher(logger, mq.NoopProducer{}, "pos.cart.item_added"))

	svc, err := poshttp.New(config.HTTP{Swagger: true, AllowedOrigins: []string{"http://localhost:3000"}}, logger, stationSvc, health)
	require.NoError(t, err)

	return svc.Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestLoginPage(t *testing.T) {
	h := newTestHandler(t, fakeHealth{})

	t.Run("Should redirect root to login", func(t *testing.T) {
		resp := do(h, http.MethodGet, "/", "")
		assert.Equal(t, http.StatusFound, resp.Code)
		assert.Equal(t, "/login", resp.Header().Get("Location"))
	})

	t.Run("Should render the OAuth2 link", func(t *testing.T) {
		resp := do(h, http.MethodGet, "/login", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Type"), "text/html")

		doc := viewtest.Parse(t, resp.Body)
		viewtest.GetByText(t, doc, "Login")
		link := viewtest.Closest(viewtest.GetByText(t, doc, "Login with Google"), atom.A)
		href, _ := viewtest.Attr(link, "href")
		assert.Equal(t, "http://localhost:8080/oauth2/authorization/google", href)
	})
}

func TestStationPage(t *testing.T) {
	t.Run("Should render every product card", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodGet, "/pos/7", "")
		require.Equal(t, http.StatusOK, resp.Code)

		doc := viewtest.Parse(t, resp.Body)
		for _, text := range []string{"Test Beer", "Cider", "Stout", "In Stock", "Low Stock", "Out of Stock", "Stock: 50", "$3.50", "Cart is empty"} {
			viewtest.GetByText(t, doc, text)
		}
		assert.Empty(t, viewtest.QueryAllByText(doc, "In cart: 1"))

		form := viewtest.Closest(viewtest.GetByText(t, doc, "Test Beer"), atom.Form)
		action, _ := viewtest.Attr(form, "action")
		assert.Equal(t, "/pos/7/products/101/add", action)
	})

	t.Run("Should reject invalid station ids", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/pos/abc", "").Code)
		assert.Equal(t, http.StatusBadRequest, do(h, http.MethodGet, "/pos/0", "").Code)
	})
}

func TestAddToCartForm(t *testing.T) {
	t.Run("Should add once and redirect back to the station", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodPost, "/pos/7/products/101/add", "")
		assert.Equal(t, http.StatusSeeOther, resp.Code)
		assert.Equal(t, "/pos/7", resp.Header().Get("Location"))

		doc := viewtest.Parse(t, do(h, http.MethodGet, "/pos/7", "").Body)
		viewtest.GetByText(t, doc, "In cart: 1")
		viewtest.GetByText(t, doc, "Total: $3.50")
	})

	t.Run("Should re-render with a notice when out of stock", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodPost, "/pos/7/products/103/add", "")
		require.Equal(t, http.StatusConflict, resp.Code)

		doc := viewtest.Parse(t, resp.Body)
		viewtest.GetByText(t, doc, "product is out of stock")
		viewtest.GetByText(t, doc, "Cart is empty")
	})

	t.Run("Should return not found for unknown product", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		assert.Equal(t, http.StatusNotFound, do(h, http.MethodPost, "/pos/7/products/999/add", "").Code)
	})

	t.Run("Should clear the cart", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})
		do(h, http.MethodPost, "/pos/7/products/101/add", "")

		resp := do(h, http.MethodPost, "/pos/7/cart/clear", "")
		assert.Equal(t, http.StatusSeeOther, resp.Code)

		doc := viewtest.Parse(t, do(h, http.MethodGet, "/pos/7", "").Body)
		viewtest.GetByText(t, doc, "Cart is empty")
	})
}

type productCard struct {
	Product          model.Product   `json:"product"`
	CartItem         *model.CartItem `json:"cartItem"`
	StockStatus      string          `json:"stockStatus"`
	StockStatusLabel string          `json:"stockStatusLabel"`
	UnitPriceLabel   string          `json:"unitPriceLabel"`
	CartLabel        string          `json:"cartLabel"`
}

func TestProductCardsAPI(t *testing.T) {
	t.Run("Should list cards with labels", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})
		do(h, http.MethodPost, "/api/stations/7/cart/items", `{"productId":101}`)

		resp := do(h, http.MethodGet, "/api/stations/7/products", "")
		require.Equal(t, http.StatusOK, resp.Code)

		var cards []productCard
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cards))
		require.Len(t, cards, 3)

		assert.Equal(t, stationProducts[0], cards[0].Product)
		assert.Equal(t, "IN_STOCK", cards[0].StockStatus)
		assert.Equal(t, "In Stock", cards[0].StockStatusLabel)
		assert.Equal(t, "$3.50", cards[0].UnitPriceLabel)
		assert.Equal(t, "In cart: 1", cards[0].CartLabel)
		require.NotNil(t, cards[0].CartItem)
		assert.Equal(t, 1, cards[0].CartItem.Quantity)
		assert.Nil(t, cards[1].CartItem)
	})

	t.Run("Should filter by stock status", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodGet, "/api/stations/7/products?stockStatus=LOW_STOCK", "")
		require.Equal(t, http.StatusOK, resp.Code)

		var cards []productCard
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cards))
		require.Len(t, cards, 1)
		assert.Equal(t, "Cider", cards[0].Product.ProductName)
	})

	t.Run("Should accept stock status in any case", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodGet, "/api/stations/7/products?stockStatus=out_of_stock", "")
		require.Equal(t, http.StatusOK, resp.Code)

		var cards []productCard
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &cards))
		require.Len(t, cards, 1)
		assert.Equal(t, "Stout", cards[0].Product.ProductName)
	})

	t.Run("Should reject unknown stock status", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodGet, "/api/stations/7/products?stockStatus=PLENTY", "")
		require.Equal(t, http.StatusBadRequest, resp.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "VALIDATION_FAILED", body["code"])
	})
}

func TestCartAPI(t *testing.T) {
	t.Run("Should add items and report the cart", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodPost, "/api/stations/7/cart/items", `{"productId":102}`)
		require.Equal(t, http.StatusCreated, resp.Code)

		var item model.CartItem
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &item))
		assert.Equal(t, model.CartItem{ProductID: 102, ProductName: "Cider", Quantity: 1, MaxQuantity: 5, UnitPrice: 4.25}, item)

		resp = do(h, http.MethodGet, "/api/stations/7/cart", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"items":[{"productId":102,"productName":"Cider","quantity":1,"maxQuantity":5,"unitPrice":4.25}],"total":4.25}`, resp.Body.String())

		assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/api/stations/7/cart", "").Code)
		assert.JSONEq(t, `{"items":[],"total":0}`, do(h, http.MethodGet, "/api/stations/7/cart", "").Body.String())
	})

	t.Run("Should map domain errors", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodPost, "/api/stations/7/cart/items", `{"productId":103}`)
		assert.Equal(t, http.StatusConflict, resp.Code)
		assert.Contains(t, resp.Body.String(), "OUT_OF_STOCK")

		resp = do(h, http.MethodPost, "/api/stations/7/cart/items", `{"productId":999}`)
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.Contains(t, resp.Body.String(), "PRODUCT_NOT_FOUND")
	})

	t.Run("Should validate the request body", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})

		resp := do(h, http.MethodPost, "/api/stations/7/cart/items", `{}`)
		require.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), `"field":"productId"`)
		assert.Contains(t, resp.Body.String(), `"code":"VALIDATION_FAILED"`)

		resp = do(h, http.MethodPost, "/api/stations/7/cart/items", `{"productId":"x"}`)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, resp.Body.String(), "VALIDATION_FAILED")
	})
}

func TestOperationalRoutes(t *testing.T) {
	t.Run("Should report healthy database", func(t *testing.T) {
		resp := do(newTestHandler(t, fakeHealth{}), http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, resp.Code)
		assert.JSONEq(t, `{"status":"ok"}`, resp.Body.String())
	})

	t.Run("Should report unavailable database", func(t *testing.T) {
		resp := do(newTestHandler(t, fakeHealth{err: errors.New("refused")}), http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
		assert.Contains(t, resp.Body.String(), "DATABASE_UNAVAILABLE")
	})

	t.Run("Should expose metrics", func(t *testing.T) {
		h := newTestHandler(t, fakeHealth{})
		do(h, http.MethodPost, "/pos/7/products/101/add", "")

		resp := do(h, http.MethodGet, "/metrics", "")
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `pos_cart_additions_total{outcome="added"} 1`)
	})

	t.Run("Should echo correlation id", func(t *testing.T) {
		resp := do(newTestHandler(t, fakeHealth{}), http.MethodGet, "/login", "")
		assert.NotEmpty(t, resp.Header().Get(correlationid.Header))
	})
}
