package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/tvshop-backend/internal/access"
	"github.com/angelmondragon/tvshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the order ledger queries and administrative writes.
type Service interface {
	ListOrders(ctx context.Context, actor access.Actor, params pagination.Params) (*OrderList, error)
	GetOrder(ctx context.Context, orderID uuid.UUID, actor access.Actor) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, orderID uuid.UUID, actor access.Actor) error
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor access.Actor) (*OrderDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	checker access.Checker
	logg    *logger.Logger
}

// NewService builds the order ledger service with the required dependencies.
func NewService(repo Repository, tx txRunner, checker access.Checker, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if checker == nil {
		return nil, fmt.Errorf("access checker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		checker: checker,
		logg:    logg,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, actor access.Actor, params pagination.Params) (*OrderList, error) {
	if actor.IsAnonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	var owner *uuid.UUID
	if !s.checker.IsAdministrator(actor) {
		owner = &actor.UserID
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListOrders(ctx, owner, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	dtos := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *FromModel(&rows[i]))
	}
	page := pagination.Trim(dtos, params.Limit, func(o OrderDTO) pagination.Cursor {
		return pagination.Cursor{At: o.PlacedAt, ID: o.ID}
	})
	return &page, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, actor access.Actor) (*OrderDTO, error) {
	order, err := s.repo.FindOrder(ctx, orderID)
	if err != nil {
		return nil, mapLookupError(err)
	}
	if err := access.EnsureVisible(s.checker, order.OwnerID, actor, "order"); err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

func (s *service) DeleteOrder(ctx context.Context, orderID uuid.UUID, actor access.Actor) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			return mapLookupError(err)
		}
		if err := access.EnsureVisible(s.checker, order.OwnerID, actor, "order"); err != nil {
			return err
		}
		if _, err := repo.DeleteOrder(ctx, orderID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
		}

		logCtx := s.logg.WithOrderID(ctx, orderID.String())
		logCtx = s.logg.WithFields(logCtx, map[string]any{
			"owner_id": order.OwnerID.String(),
			"status":   order.Status.String(),
			"items":    len(order.Items),
		})
		s.logg.Info(logCtx, "order.deleted")
		return nil
	})
}

func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus, actor access.Actor) (*OrderDTO, error) {
	if err := access.RequireAdministrator(s.checker, actor); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", status))
	}

	var updated *OrderDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		found, err := repo.UpdateOrderStatus(ctx, orderID, status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !found {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		order, err := repo.FindOrder(ctx, orderID)
		if err != nil {
			return mapLookupError(err)
		}
		updated = FromModel(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.logg.WithOrderID(ctx, orderID.String())
	logCtx = s.logg.WithField(logCtx, "status", status.String())
	s.logg.Info(logCtx, "order.status.updated")
	return updated, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}
