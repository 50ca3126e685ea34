package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/tvshop-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/metrics"
)

type sessionStore interface {
	Load(ctx context.Context, sessionID string, dest any) (bool, error)
	Save(ctx context.Context, sessionID string, value any) error
	Delete(ctx context.Context, sessionID string) error
}

type stockReader interface {
	GetQuantity(ctx context.Context, tvID int64) (int, bool, error)
}

// Service runs cart operations against the caller's session document.
type Service interface {
	Load(ctx context.Context, sessionID string) (Cart, error)
	View(ctx context.Context, sessionID string) (View, error)
	AddOne(ctx context.Context, sessionID string, tvID int64) (View, error)
	RemoveOne(ctx context.Context, sessionID string, tvID int64) (View, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   sessionStore
	catalog catalog.Reader
	stock   stockReader
	metrics *metrics.CartMetrics
	logg    *logger.Logger
}

// NewService builds the cart service with the required dependencies.
func NewService(store sessionStore, reader catalog.Reader, stock stockReader, m *metrics.CartMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if reader == nil {
		return nil, fmt.Errorf("catalog reader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		store:   store,
		catalog: reader,
		stock:   stock,
		metrics: m,
		logg:    logg,
	}, nil
}

func (s *service) Load(ctx context.Context, sessionID string) (Cart, error) {
	if strings.TrimSpace(sessionID) == "" {
		return Cart{}, errSessionRequired()
	}
	var c Cart
	found, err := s.store.Load(ctx, sessionID, &c)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if !found || c.Lines == nil {
		return Cart{}.Clear(), nil
	}
	return c, nil
}

func (s *service) View(ctx context.Context, sessionID string) (View, error) {
	c, err := s.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	return c.View(), nil
}

func (s *service) AddOne(ctx context.Context, sessionID string, tvID int64) (View, error) {
	tv, err := s.catalog.GetTelevision(ctx, tvID)
	if err != nil {
		s.metrics.IncMutation("add", resultLabel(err))
		return View{}, err
	}
	qty, stocked, err := s.stock.GetQuantity(ctx, tvID)
	if err != nil {
		s.metrics.IncMutation("add", resultLabel(err))
		return View{}, err
	}

	current, err := s.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	next, err := current.Add(Snapshot{
		TelevisionID: tv.ID,
		Name:         tv.BrandName,
		Model:        tv.Model,
		Price:        tv.Price,
	}, qty, stocked)
	if err != nil {
		s.metrics.IncMutation("add", resultLabel(err))
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"television_id": tvID,
			"stock":         qty,
			"in_cart":       current.Quantity(tvID),
		})
		s.logg.Info(logCtx, "cart.add.rejected")
		return current.View(), err
	}

	if err := s.save(ctx, sessionID, next); err != nil {
		return View{}, err
	}
	s.metrics.IncMutation("add", "ok")
	return next.View(), nil
}

func (s *service) RemoveOne(ctx context.Context, sessionID string, tvID int64) (View, error) {
	current, err := s.Load(ctx, sessionID)
	if err != nil {
		return View{}, err
	}
	next := current.Remove(tvID)
	if current.Quantity(tvID) == 0 {
		s.metrics.IncMutation("remove", "noop")
		return next.View(), nil
	}
	if err := s.save(ctx, sessionID, next); err != nil {
		return View{}, err
	}
	s.metrics.IncMutation("remove", "ok")
	return next.View(), nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errSessionRequired()
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	s.metrics.IncMutation("clear", "ok")
	return nil
}

func (s *service) save(ctx context.Context, sessionID string, c Cart) error {
	if err := s.store.Save(ctx, sessionID, c); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func resultLabel(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return string(typed.Code())
	}
	return "error"
}

func errSessionRequired() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session required")
}
