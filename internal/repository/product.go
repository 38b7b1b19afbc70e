package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/pos-station/internal/model"
	"github.com/tuanvumaihuynh/pos-station/internal/storage/db"
)

var ErrNotFound = errors.New("not found")

type ProductRepository interface {
	ListStationProducts(ctx context.Context, stationID int64) ([]model.Product, error)
	GetStationProduct(ctx context.Context, stationID, productID int64) (model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{db: db}
}

const selectStationProducts = `
	SELECT
		id,
		organization_id,
		product_id,
		product_name,
		quantity,
		unit_price,
		base_price,
		updated_at
	FROM station_products
	WHERE station_id = @station_id`

type productRow struct {
	ID             int64          `db:"id"`
	OrganizationID int64          `db:"organization_id"`
	ProductID      int64          `db:"product_id"`
	ProductName    string         `db:"product_name"`
	Quantity       int32          `db:"quantity"`
	UnitPrice      pgtype.Numeric `db:"unit_price"`
	BasePrice      pgtype.Numeric `db:"base_price"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

func (r productRepository) ListStationProducts(ctx context.Context, stationID int64) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, selectStationProducts+` ORDER BY product_name, product_id`, pgx.NamedArgs{
		"station_id": stationID,
	})
	if err != nil {
		return nil, fmt.Errorf("query station products: %w", err)
	}

	productRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		return nil, fmt.Errorf("collect station products: %w", err)
	}

	products := make([]model.Product, 0, len(productRows))
	for _, row := range productRows {
		product, err := rowToModelProduct(row)
		if err != nil {
			return nil, fmt.Errorf("convert product %d: %w", row.ProductID, err)
		}
		products = append(products, product)
	}

	return products, nil
}

func (r productRepository) GetStationProduct(ctx context.Context, stationID, productID int64) (model.Product, error) {
	rows, err := r.db.Query(ctx, selectStationProducts+` AND product_id = @product_id`, pgx.NamedArgs{
		"station_id": stationID,
		"product_id": productID,
	})
	if err != nil {
		return model.Product{}, fmt.Errorf("query station product: %w", err)
	}

	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[productRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Product{}, ErrNotFound
		}
		return model.Product{}, fmt.Errorf("collect station product: %w", err)
	}

	return rowToModelProduct(row)
}

func rowToModelProduct(row productRow) (model.Product, error) {
	unitPrice, err := row.UnitPrice.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert unit price to float64: %w", err)
	}

	basePrice, err := row.BasePrice.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert base price to float64: %w", err)
	}

	return model.Product{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		ProductID:      row.ProductID,
		ProductName:    row.ProductName,
		Quantity:       int(row.Quantity),
		UnitPrice:      unitPrice.Float64,
		BasePrice:      basePrice.Float64,
		UpdatedAt:      row.UpdatedAt.UTC().Format(time.RFC3339),
	}, nil
}
