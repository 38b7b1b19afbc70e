package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/pos-station/internal/apperr"
	"github.com/tuanvumaihuynh/pos-station/internal/cart"
	"github.com/tuanvumaihuynh/pos-station/internal/event"
	"github.com/tuanvumaihuynh/pos-station/internal/log"
	"github.com/tuanvumaihuynh/pos-station/internal/model"
	"github.com/tuanvumaihuynh/pos-station/internal/repository"
	"github.com/tuanvumaihuynh/pos-station/internal/service"
)

const stationID = 7

var (
	beer  = model.Product{ID: 1, OrganizationID: 1, ProductID: 101, ProductName: "Test Beer", Quantity: 50, UnitPrice: 3.5, BasePrice: 3.0, UpdatedAt: "2025-01-01T00:00:00Z"}
	cider = model.Product{ID: 2, OrganizationID: 1, ProductID: 102, ProductName: "Cider", Quantity: 1, UnitPrice: 4.25, BasePrice: 4.0, UpdatedAt: "2025-01-01T00:00:00Z"}
	gone  = model.Product{ID: 3, OrganizationID: 1, ProductID: 103, ProductName: "Stout", Quantity: 0, UnitPrice: 5, BasePrice: 4.5, UpdatedAt: "2025-01-01T00:00:00Z"}
)

type fakeProductRepo struct {
	products map[int64][]model.Product
	err      error
}

func (r fakeProductRepo) ListStationProducts(_ context.Context, stationID int64) ([]model.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.products[stationID], nil
}

func (r fakeProductRepo) GetStationProduct(_ context.Context, stationID, productID int64) (model.Product, error) {
	if r.err != nil {
		return model.Product{}, r.err
	}
	for _, p := range r.products[stationID] {
		if p.ProductID == productID {
			return p, nil
		}
	}
	return model.Product{}, repository.ErrNotFound
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.CartItemAddedEvent
	err    error
}

func (p *fakePublisher) PublishCartItemAdded(_ context.Context, ev event.CartItemAddedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

// blockingPublisher never delivers; it returns once its context is done.
type blockingPublisher struct {
	ctxErr chan error
}

func (p *blockingPublisher) PublishCartItemAdded(ctx context.Context, _ event.CartItemAddedEvent) error {
	<-ctx.Done()
	p.ctxErr <- ctx.Err()
	return ctx.Err()
}

var fixedNow = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func newService(repo repository.ProductRepository, pub event.Publisher) service.StationService {
	return service.NewStationService(log.Discard(), repo, cart.NewStore(), pub,
		service.WithClock(func() time.Time { return fixedNow }))
}

func newRepo() fakeProductRepo {
	return fakeProductRepo{products: map[int64][]model.Product{stationID: {beer, cider, gone}}}
}

func TestAddToCart(t *testing.T) {
	t.Run("Should add one unit and publish an event", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := newService(newRepo(), pub)

		item, err := svc.AddToCart(context.Background(), stationID, 101)
		require.NoError(t, err)
		assert.Equal(t, model.CartItem{ProductID: 101, ProductName: "Test Beer", Quantity: 1, MaxQuantity: 50, UnitPrice: 3.5}, item)

		require.Len(t, pub.events, 1)
		assert.Equal(t, event.CartItemAddedEvent{
			StationID:      stationID,
			OrganizationID: 1,
			ProductID:      101,
			ProductName:    "Test Beer",
			Quantity:       1,
			MaxQuantity:    50,
			UnitPrice:      3.5,
			OccurredAt:     fixedNow,
		}, pub.events[0])
	})

	t.Run("Should return not found for unknown product", func(t *testing.T) {
		svc := newService(newRepo(), &fakePublisher{})

		_, err := svc.AddToCart(context.Background(), stationID, 999)
		assert.ErrorIs(t, err, apperr.ProductNotFoundErr)
	})

	t.Run("Should reject out of stock product", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := newService(newRepo(), pub)

		_, err := svc.AddToCart(context.Background(), stationID, 103)
		assert.ErrorIs(t, err, apperr.OutOfStockErr)
		assert.Empty(t, pub.events)
	})

	t.Run("Should stop at max quantity", func(t *testing.T) {
		svc := newService(newRepo(), &fakePublisher{})

		_, err := svc.AddToCart(context.Background(), stationID, 102)
		require.NoError(t, err)

		item, err := svc.AddToCart(context.Background(), stationID, 102)
		assert.ErrorIs(t, err, apperr.MaxQuantityReachedErr)
		assert.Equal(t, 1, item.Quantity)
	})

	t.Run("Should keep the item when publishing fails", func(t *testing.T) {
		svc := newService(newRepo(), &fakePublisher{err: errors.New("broker down")})

		item, err := svc.AddToCart(context.Background(), stationID, 101)
		require.NoError(t, err)
		assert.Equal(t, 1, item.Quantity)

		items, _ := svc.Cart(context.Background(), stationID)
		assert.Len(t, items, 1)
	})

	t.Run("Should not hang when the broker never answers", func(t *testing.T) {
		pub := &blockingPublisher{ctxErr: make(chan error, 1)}
		svc := service.NewStationService(log.Discard(), newRepo(), cart.NewStore(), pub,
			service.WithPublishTimeout(50*time.Millisecond))

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		done := make(chan model.CartItem, 1)
		go func() {
			item, err := svc.AddToCart(ctx, stationID, 101)
			assert.NoError(t, err)
			done <- item
		}()

		select {
		case item := <-done:
			assert.Equal(t, 1, item.Quantity)
		case <-time.After(2 * time.Second):
			t.Fatal("AddToCart did not return within the publish timeout")
		}
		assert.ErrorIs(t, <-pub.ctxErr, context.DeadlineExceeded)

		items, _ := svc.Cart(ctx, stationID)
		require.Len(t, items, 1)
	})

	t.Run("Should deliver even when the request is cancelled", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := newService(newRepo(), pub)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.AddToCart(ctx, stationID, 101)
		require.NoError(t, err)
		assert.Len(t, pub.events, 1)
	})

	t.Run("Should wrap repository failures", func(t *testing.T) {
		boom := errors.New("connection refused")
		svc := newService(fakeProductRepo{err: boom}, &fakePublisher{})

		_, err := svc.AddToCart(context.Background(), stationID, 101)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, apperr.ProductNotFoundErr)
	})
}

func TestProductCards(t *testing.T) {
	t.Run("Should attach cart lines to matching cards", func(t *testing.T) {
		svc := newService(newRepo(), &fakePublisher{})
		ctx := context.Background()

		for range 3 {
			_, err := svc.AddToCart(ctx, stationID, 101)
			require.NoError(t, err)
		}

		cards, err := svc.ProductCards(ctx, stationID)
		require.NoError(t, err)
		require.Len(t, cards, 3)

		require.NotNil(t, cards[0].CartItem)
		assert.Equal(t, "In cart: 3", cards[0].CartLabel())
		assert.Nil(t, cards[1].CartItem)
		assert.Nil(t, cards[2].CartItem)
	})

	t.Run("Should bind the card callback to the station cart", func(t *testing.T) {
		pub := &fakePublisher{}
		svc := newService(newRepo(), pub)
		ctx := context.Background()

		cards, err := svc.ProductCards(ctx, stationID)
		require.NoError(t, err)

		cards[1].Activate()
		cards[2].Activate()

		items, total := svc.Cart(ctx, stationID)
		require.Len(t, items, 1)
		assert.Equal(t, int64(102), items[0].ProductID)
		assert.InDelta(t, 4.25, total, 1e-9)
		assert.Len(t, pub.events, 1)
	})

	t.Run("Should isolate stations", func(t *testing.T) {
		repo := newRepo()
		repo.products[8] = []model.Product{beer}
		svc := newService(repo, &fakePublisher{})
		ctx := context.Background()

		_, err := svc.AddToCart(ctx, stationID, 101)
		require.NoError(t, err)

		cards, err := svc.ProductCards(ctx, 8)
		require.NoError(t, err)
		require.Len(t, cards, 1)
		assert.Nil(t, cards[0].CartItem)
	})
}

func TestClearCart(t *testing.T) {
	svc := newService(newRepo(), &fakePublisher{})
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, stationID, 101)
	require.NoError(t, err)

	svc.ClearCart(ctx, stationID)

	items, total := svc.Cart(ctx, stationID)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
