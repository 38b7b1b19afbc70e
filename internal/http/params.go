package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/tuanvumaihuynh/pos-station/internal/apperr"
	"github.com/tuanvumaihuynh/pos-station/internal/model"
)

type stationParams struct {
	StationID int64 `json:"stationId" validate:"gt=0"`
}

type productParams struct {
	StationID int64 `json:"stationId" validate:"gt=0"`
	ProductID int64 `json:"productId" validate:"gt=0"`
}

type listProductCardsParams struct {
	StationID   int64  `json:"stationId" validate:"gt=0"`
	StockStatus string `json:"stockStatus" validate:"omitempty,oneof=IN_STOCK LOW_STOCK OUT_OF_STOCK"`
}

type addCartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

// bindPathInt64 binds a simple-style path parameter the way generated
// OpenAPI servers do.
func bindPathInt64(r *http.Request, name string) (int64, error) {
	var v int64
	if err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		return 0, apperr.InvalidParameterErr.WrapParent(fmt.Errorf("invalid format for parameter %s: %w", name, err))
	}
	return v, nil
}

func (s *Service) bindStationParams(r *http.Request) (stationParams, error) {
	stationID, err := bindPathInt64(r, "stationId")
	if err != nil {
		return stationParams{}, err
	}

	params := stationParams{StationID: stationID}
	if err := s.validator.Validate(params); err != nil {
		return stationParams{}, err
	}
	return params, nil
}

func (s *Service) bindProductParams(r *http.Request) (productParams, error) {
	stationID, err := bindPathInt64(r, "stationId")
	if err != nil {
		return productParams{}, err
	}
	productID, err := bindPathInt64(r, "productId")
	if err != nil {
		return productParams{}, err
	}

	params := productParams{StationID: stationID, ProductID: productID}
	if err := s.validator.Validate(params); err != nil {
		return productParams{}, err
	}
	return params, nil
}

func (s *Service) bindListProductCardsParams(r *http.Request) (listProductCardsParams, *model.StockStatus, error) {
	stationID, err := bindPathInt64(r, "stationId")
	if err != nil {
		return listProductCardsParams{}, nil, err
	}

	params := listProductCardsParams{
		StationID:   stationID,
		StockStatus: strings.ToUpper(r.URL.Query().Get("stockStatus")),
	}
	if err := s.validator.Validate(params); err != nil {
		return listProductCardsParams{}, nil, err
	}

	if params.StockStatus == "" {
		return params, nil, nil
	}

	var status model.StockStatus
	if err := status.UnmarshalText([]byte(params.StockStatus)); err != nil {
		return listProductCardsParams{}, nil, apperr.InvalidParameterErr.WrapParent(err)
	}
	return params, &status, nil
}

func unhealthyErr(err error) error {
	return apperr.DatabaseUnavailableErr.WrapParent(err)
}
