package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Television is the catalog view consumed by the cart and checkout.
type Television struct {
	ID           int64           `json:"id"`
	BrandName    string          `json:"brand_name"`
	Model        string          `json:"model"`
	Price        decimal.Decimal `json:"price"`
	ReleasedYear int             `json:"released_year"`
	ScreenSize   int             `json:"screen_size"`
	RefreshRate  int             `json:"refresh_rate"`
	Smart        bool            `json:"smart"`
	Description  string          `json:"description,omitempty"`
}

// Reader resolves televisions by id.
type Reader interface {
	GetTelevision(ctx context.Context, id int64) (*Television, error)
}

type service struct {
	repo   Repository
	flight singleflight.Group
}

// NewService builds the catalog reader.
func NewService(repo Repository) (Reader, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// GetTelevision collapses concurrent lookups of the same id into one query.
func (s *service) GetTelevision(ctx context.Context, id int64) (*Television, error) {
	if id <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "television not found")
	}
	// The shared lookup outlives any single caller; each caller still stops
	// waiting when its own context ends.
	flightCtx := context.WithoutCancel(ctx)
	ch := s.flight.DoChan(strconv.FormatInt(id, 10), func() (any, error) {
		return Lookup(flightCtx, s.repo, id)
	})
	select {
	case <-ctx.Done():
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, ctx.Err(), "load television")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		tv := *res.Val.(*Television)
		return &tv, nil
	}
}

// Lookup reads a television through repo, which may be bound to a transaction.
func Lookup(ctx context.Context, repo Repository, id int64) (*Television, error) {
	row, err := repo.FindTelevision(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "television not found").WithDetails(map[string]any{
				"television_id": id,
			})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load television")
	}
	return &Television{
		ID:           row.ID,
		BrandName:    row.Brand.Name,
		Model:        row.Model,
		Price:        row.Price,
		ReleasedYear: row.ReleasedYear,
		ScreenSize:   row.ScreenSize,
		RefreshRate:  row.RefreshRate,
		Smart:        row.Smart,
		Description:  row.Description,
	}, nil
}
