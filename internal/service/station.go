package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tuanvumaihuynh/pos-station/internal/apperr"
	"github.com/tuanvumaihuynh/pos-station/internal/cart"
	"github.com/tuanvumaihuynh/pos-station/internal/event"
	"github.com/tuanvumaihuynh/pos-station/internal/model"
	"github.com/tuanvumaihuynh/pos-station/internal/repository"
	"github.com/tuanvumaihuynh/pos-station/internal/view"
)

type StationService interface {
	ListProducts(ctx context.Context, stationID int64) ([]model.Product, error)
	GetProduct(ctx context.Context, stationID, productID int64) (model.Product, error)
	// ProductCards pairs every product of the station with its cart line.
	// Each card's OnAddToCart adds to the station cart.
	ProductCards(ctx context.Context, stationID int64) ([]view.ProductCard, error)
	AddToCart(ctx context.Context, stationID, productID int64) (model.CartItem, error)
	Cart(ctx context.Context, stationID int64) ([]model.CartItem, float64)
	ClearCart(ctx context.Context, stationID int64)
}

// DefaultPublishTimeout bounds how long an add-to-cart waits on event delivery.
const DefaultPublishTimeout = 3 * time.Second

type Option func(*stationService)

// WithClock overrides the clock used to timestamp cart events.
func WithClock(now func() time.Time) Option {
	return func(s *stationService) {
		s.now = now
	}
}

// WithPublishTimeout overrides DefaultPublishTimeout.
func WithPublishTimeout(d time.Duration) Option {
	return func(s *stationService) {
		s.publishTimeout = d
	}
}

type stationService struct {
	logger      *slog.Logger
	productRepo repository.ProductRepository
	carts       *cart.Store
	publisher   event.Publisher
	now         func() time.Time

	publishTimeout time.Duration
}

func NewStationService(
	logger *slog.Logger,
	productRepo repository.ProductRepository,
	carts *cart.Store,
	publisher event.Publisher,
	opts ...Option,
) StationService {
	s := &stationService{
		logger:      logger.With(slog.String("service", "station")),
		productRepo: productRepo,
		carts:       carts,
		publisher:   publisher,
		now:         time.Now,

		publishTimeout: DefaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *stationService) ListProducts(ctx context.Context, stationID int64) ([]model.Product, error) {
	products, err := s.productRepo.ListStationProducts(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("product repository list station products: %w", err)
	}

	return products, nil
}

func (s *stationService) GetProduct(ctx context.Context, stationID, productID int64) (model.Product, error) {
	product, err := s.productRepo.GetStationProduct(ctx, stationID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Product{}, apperr.ProductNotFoundErr.WrapParent(err)
		}
		return model.Product{}, fmt.Errorf("product repository get station product: %w", err)
	}

	return product, nil
}

func (s *stationService) ProductCards(ctx context.Context, stationID int64) ([]view.ProductCard, error) {
	products, err := s.ListProducts(ctx, stationID)
	if err != nil {
		return nil, err
	}

	c := s.carts.Get(stationID)
	onAddToCart := func(p model.Product) {
		if _, err := s.addToCart(ctx, stationID, p); err != nil {
			s.logger.WarnContext(ctx, "add to cart rejected",
				slog.Int64("station_id", stationID),
				slog.Int64("product_id", p.ProductID),
				slog.Any("error", err))
		}
	}

	cards := make([]view.ProductCard, 0, len(products))
	for _, product := range products {
		card := view.ProductCard{
			Product:     product,
			OnAddToCart: onAddToCart,
		}
		if item, ok := c.Item(product.ProductID); ok {
			card.CartItem = &item
		}
		cards = append(cards, card)
	}

	return cards, nil
}

func (s *stationService) AddToCart(ctx context.Context, stationID, productID int64) (model.CartItem, error) {
	product, err := s.GetProduct(ctx, stationID, productID)
	if err != nil {
		return model.CartItem{}, err
	}

	var (
		item   model.CartItem
		addErr error
	)
	card := view.ProductCard{
		Product: product,
		OnAddToCart: func(p model.Product) {
			item, addErr = s.addToCart(ctx, stationID, p)
		},
	}
	card.Activate()

	return item, addErr
}

func (s *stationService) addToCart(ctx context.Context, stationID int64, product model.Product) (model.CartItem, error) {
	item, err := s.carts.Get(stationID).Add(product)
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return item, apperr.OutOfStockErr.WrapParent(err)
	case errors.Is(err, cart.ErrMaxQuantity):
		return item, apperr.MaxQuantityReachedErr.WrapParent(err)
	case err != nil:
		return item, fmt.Errorf("cart add: %w", err)
	}

	s.logger.InfoContext(ctx, "product added to cart",
		slog.Int64("station_id", stationID),
		slog.Int64("product_id", item.ProductID),
		slog.Int("quantity", item.Quantity))

	// The line is already in the cart, so delivery must neither block the
	// caller past the bound nor be cut short by the request finishing.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	ev := event.NewCartItemAddedEvent(stationID, product, item, s.now())
	if err := s.publisher.PublishCartItemAdded(pubCtx, ev); err != nil {
		s.logger.ErrorContext(ctx, "error publishing cart item added event",
			slog.Int64("station_id", stationID),
			slog.Any("error", err))
	}

	return item, nil
}

func (s *stationService) Cart(_ context.Context, stationID int64) ([]model.CartItem, float64) {
	c := s.carts.Get(stationID)
	return c.Items(), c.Total()
}

func (s *stationService) ClearCart(ctx context.Context, stationID int64) {
	s.carts.Get(stationID).Clear()
	s.logger.InfoContext(ctx, "cart cleared", slog.Int64("station_id", stationID))
}
