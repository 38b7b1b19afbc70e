package apperr

import "github.com/tuanvumaihuynh/pos-station/pkg/zerror"

const (
	ValidationErrorCode     = "VALIDATION_FAILED"
	InvalidParameterCode    = "INVALID_PARAMETER"
	ProductNotFoundCode     = "PRODUCT_NOT_FOUND"
	OutOfStockCode          = "OUT_OF_STOCK"
	MaxQuantityReachedCode  = "MAX_QUANTITY_REACHED"
	DatabaseUnavailableCode = "DATABASE_UNAVAILABLE"
)

var (
	ValidationErr          = zerror.NewValidationFailed(ValidationErrorCode, "validation error")
	InvalidParameterErr    = zerror.NewBadRequest(InvalidParameterCode, "invalid parameter")
	ProductNotFoundErr     = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	OutOfStockErr          = zerror.NewConflict(OutOfStockCode, "product is out of stock")
	MaxQuantityReachedErr  = zerror.NewConflict(MaxQuantityReachedCode, "cart already holds all units on hand")
	DatabaseUnavailableErr = zerror.NewServiceUnavailable(DatabaseUnavailableCode, "database unavailable")
)
