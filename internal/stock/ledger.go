package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"gorm.io/gorm"
)

// Ledger tracks how many units of each television can still be sold.
type Ledger interface {
	// GetQuantity returns the current quantity and whether the television is stocked at all.
	GetQuantity(ctx context.Context, tvID int64) (int, bool, error)
	// Reserve removes count units inside tx, failing with INSUFFICIENT_STOCK when short.
	Reserve(ctx context.Context, tx *gorm.DB, tvID int64, count int) error
	// Release returns count units inside tx.
	Release(ctx context.Context, tx *gorm.DB, tvID int64, count int) error
	// Set writes the absolute quantity for a television. Quantity must be at least 1.
	Set(ctx context.Context, tvID int64, quantity int) (*models.StockEntry, error)
}

type ledger struct {
	repo Repository
}

// NewLedger builds the stock ledger.
func NewLedger(repo Repository) (Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &ledger{repo: repo}, nil
}

func (l *ledger) GetQuantity(ctx context.Context, tvID int64) (int, bool, error) {
	entry, err := l.repo.FindByTelevision(ctx, tvID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}
	return entry.Quantity, true, nil
}

func (l *ledger) Reserve(ctx context.Context, tx *gorm.DB, tvID int64, count int) error {
	if count < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation count must be at least 1")
	}
	repo := l.repo.WithTx(tx)

	ok, err := repo.DecrementIfAvailable(ctx, tvID, count)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve stock")
	}
	if ok {
		return nil
	}

	available := 0
	entry, err := repo.FindByTelevision(ctx, tvID)
	switch {
	case err == nil:
		available = entry.Quantity
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load stock")
	}
	return ErrInsufficientStock(tvID, count, available)
}

func (l *ledger) Release(ctx context.Context, tx *gorm.DB, tvID int64, count int) error {
	if count < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "release count must be at least 1")
	}
	if err := l.repo.WithTx(tx).Increment(ctx, tvID, count); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release stock")
	}
	return nil
}

func (l *ledger) Set(ctx context.Context, tvID int64, quantity int) (*models.StockEntry, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").WithDetails(map[string]any{
			"quantity": quantity,
		})
	}
	exists, err := l.repo.TelevisionExists(ctx, tvID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load television")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "television not found")
	}
	entry, err := l.repo.Upsert(ctx, tvID, quantity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write stock")
	}
	return entry, nil
}
