package model

import (
	"encoding"
	"fmt"
	"strings"
)

// LowStockThreshold is the smallest quantity still reported as in stock.
const LowStockThreshold = 10

type StockStatus uint8

const (
	StockStatusOutOfStock StockStatus = iota
	StockStatusLowStock
	StockStatusInStock
)

var stockStatusLabels = [...]string{
	StockStatusOutOfStock: "Out of Stock",
	StockStatusLowStock:   "Low Stock",
	StockStatusInStock:    "In Stock",
}

var stockStatusCodes = [...]string{
	StockStatusOutOfStock: "OUT_OF_STOCK",
	StockStatusLowStock:   "LOW_STOCK",
	StockStatusInStock:    "IN_STOCK",
}

// StockStatusOf classifies an on-hand quantity. Non-positive quantities are out of stock.
func StockStatusOf(quantity int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusOutOfStock
	case quantity < LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// String returns the human readable label.
func (s StockStatus) String() string {
	if int(s) < len(stockStatusLabels) {
		return stockStatusLabels[s]
	}
	return fmt.Sprintf("StockStatus(%d)", s)
}

// Code returns the machine readable code used by the JSON API.
func (s StockStatus) Code() string {
	if int(s) < len(stockStatusCodes) {
		return stockStatusCodes[s]
	}
	return ""
}

func (s StockStatus) Validate() error {
	if int(s) >= len(stockStatusCodes) {
		return fmt.Errorf("invalid stock status: %d", s)
	}
	return nil
}

func (s StockStatus) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.Code()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *StockStatus) UnmarshalText(text []byte) error {
	code := strings.ToUpper(string(text))
	for i, c := range stockStatusCodes {
		if c == code {
			*s = StockStatus(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stock status: %s", text)
}

var (
	_ encoding.TextMarshaler   = StockStatus(0)
	_ encoding.TextUnmarshaler = (*StockStatus)(nil)
)
