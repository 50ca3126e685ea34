package stock

import (
	"fmt"

	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
)

// ErrInsufficientStock reports that a reservation asked for more units than remain.
func ErrInsufficientStock(tvID int64, requested, available int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, fmt.Sprintf("only %d unit(s) of television %d available", available, tvID)).WithDetails(map[string]any{
		"television_id": tvID,
		"requested":     requested,
		"available":     available,
	})
}

// ErrOutOfStock reports that a television has no sellable units.
func ErrOutOfStock(tvID int64) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("television %d is out of stock", tvID)).WithDetails(map[string]any{
		"television_id": tvID,
	})
}

// ErrStockExceeded reports that one more unit would exceed the available stock.
func ErrStockExceeded(tvID int64, requested, available int) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeStockExceeded, fmt.Sprintf("cannot hold %d unit(s) of television %d", requested, tvID)).WithDetails(map[string]any{
		"television_id": tvID,
		"requested":     requested,
		"available":     available,
	})
}
