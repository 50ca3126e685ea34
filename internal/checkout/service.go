package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/tvshop-backend/internal/access"
	"github.com/angelmondragon/tvshop-backend/internal/cart"
	"github.com/angelmondragon/tvshop-backend/internal/catalog"
	"github.com/angelmondragon/tvshop-backend/internal/orders"
	"github.com/angelmondragon/tvshop-backend/internal/users"
	dbpkg "github.com/angelmondragon/tvshop-backend/pkg/db"
	"github.com/angelmondragon/tvshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"
	"github.com/angelmondragon/tvshop-backend/pkg/logger"
	"github.com/angelmondragon/tvshop-backend/pkg/metrics"
	"github.com/angelmondragon/tvshop-backend/pkg/shipping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSession interface {
	Load(ctx context.Context, sessionID string) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type stockReserver interface {
	Reserve(ctx context.Context, tx *gorm.DB, tvID int64, count int) error
}

type profileLoader interface {
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// Input carries the shipping choice of a checkout submission.
type Input struct {
	Shipping       *shipping.Details
	UseProfileData bool
}

// Service turns a session cart into a persisted order.
type Service interface {
	Submit(ctx context.Context, actor access.Actor, input Input) (*orders.OrderDTO, error)
}

// Deps groups the collaborators of the checkout service.
type Deps struct {
	Tx       txRunner
	Carts    cartSession
	Orders   orders.Repository
	Catalog  catalog.Repository
	Stock    stockReserver
	Profiles profileLoader
	Metrics  *metrics.CheckoutMetrics
	Logger   *logger.Logger
}

type service struct {
	tx       txRunner
	carts    cartSession
	orders   orders.Repository
	catalog  catalog.Repository
	stock    stockReserver
	profiles profileLoader
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(deps Deps) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if deps.Stock == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if deps.Profiles == nil {
		return nil, fmt.Errorf("profile loader required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       deps.Tx,
		carts:    deps.Carts,
		orders:   deps.Orders,
		catalog:  deps.Catalog,
		stock:    deps.Stock,
		profiles: deps.Profiles,
		metrics:  deps.Metrics,
		logg:     deps.Logger,
		now:      time.Now,
	}, nil
}

// Submit places the actor's session cart as one order. Stock is reserved and
// items are written inside a single transaction; the cart is cleared only
// after that transaction commits.
func (s *service) Submit(ctx context.Context, actor access.Actor, input Input) (*orders.OrderDTO, error) {
	started := s.now()
	if actor.IsAnonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(actor.SessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "cart session required")
	}

	ctx = s.logg.WithUserID(ctx, actor.UserID.String())
	ctx = s.logg.WithSessionID(ctx, actor.SessionID)

	current, err := s.carts.Load(ctx, actor.SessionID)
	if err != nil {
		return nil, s.reject(ctx, started, metrics.OutcomeFailed, err)
	}
	if current.IsEmpty() {
		return nil, s.reject(ctx, started, metrics.OutcomeEmptyCart, ErrEmptyCart())
	}

	details, err := s.resolveShipping(ctx, actor, input)
	if err != nil {
		return nil, s.reject(ctx, started, metrics.OutcomeInvalid, err)
	}

	var (
		placed *models.Order
		units  int
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		units = 0
		ordersRepo := s.orders.WithTx(tx)
		catalogRepo := s.catalog.WithTx(tx)

		order, err := ordersRepo.CreateOrder(ctx, &models.Order{
			OwnerID:     actor.UserID,
			TotalPrice:  decimal.Zero,
			FirstName:   details.FirstName,
			LastName:    details.LastName,
			Address:     details.Address,
			City:        details.City,
			Zipcode:     details.Zipcode,
			PhoneNumber: details.PhoneNumber,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "create order")
		}

		total := decimal.Zero
		items := make([]models.OrderItem, 0, len(current.Lines))
		for position, line := range current.Lines {
			if err := s.stock.Reserve(ctx, tx, line.TelevisionID, line.Quantity); err != nil {
				if pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) {
					return err
				}
				return errLineFailed(line.TelevisionID, position, err)
			}
			tv, err := catalog.Lookup(ctx, catalogRepo, line.TelevisionID)
			if err != nil {
				return errLineFailed(line.TelevisionID, position, err)
			}
			item := models.OrderItem{
				OrderID:      order.ID,
				TelevisionID: tv.ID,
				Position:     position,
				Quantity:     line.Quantity,
				Name:         tv.BrandName,
				Model:        tv.Model,
				UnitPrice:    tv.Price,
			}
			total = total.Add(item.LineTotal())
			units += line.Quantity
			items = append(items, item)
		}

		if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
			if dbpkg.IsUniqueViolation(err, orderPositionConstraint) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "duplicate order line position").WithDetails(map[string]any{
					"order_id": order.ID.String(),
				})
			}
			return pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "create order items")
		}
		if err := ordersRepo.UpdateOrderTotal(ctx, order.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "set order total")
		}

		order.TotalPrice = total
		order.Items = items
		placed = order
		return nil
	})
	if err != nil {
		outcome := metrics.OutcomeFailed
		if pkgerrors.Is(err, pkgerrors.CodeInsufficientStock) {
			outcome = metrics.OutcomeInsufficientStock
		}
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "checkout transaction failed")
		}
		return nil, s.reject(ctx, started, outcome, err)
	}

	logCtx := s.logg.WithOrderID(ctx, placed.ID.String())
	if err := s.carts.Clear(ctx, actor.SessionID); err != nil {
		s.logg.Error(logCtx, "checkout.cart_clear_failed", err)
	}

	s.metrics.Observe(metrics.OutcomeCompleted, s.now().Sub(started))
	s.metrics.AddUnitsSold(units)
	logCtx = s.logg.WithFields(logCtx, map[string]any{
		"lines":       len(placed.Items),
		"units":       units,
		"total_price": placed.TotalPrice.StringFixed(2),
	})
	s.logg.Info(logCtx, "checkout.completed")

	return orders.FromModel(placed), nil
}

func (s *service) resolveShipping(ctx context.Context, actor access.Actor, input Input) (shipping.Details, error) {
	if input.UseProfileData {
		profile, err := s.profiles.FindProfileByUserID(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shipping.Details{}, pkgerrors.New(pkgerrors.CodeValidation, "no stored profile to copy shipping details from").WithDetails(map[string]any{
					"violations": []shipping.FieldViolation{{Field: "use_profile_data", Reason: "profile not found"}},
				})
			}
			return shipping.Details{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
		}
		details := users.FromModel(profile).ShippingDetails()
		if err := shipping.Validate(details); err != nil {
			return shipping.Details{}, err
		}
		return details, nil
	}

	if input.Shipping == nil {
		return shipping.Details{}, pkgerrors.New(pkgerrors.CodeValidation, "shipping details required")
	}
	details := input.Shipping.Normalize()
	if err := shipping.Validate(details); err != nil {
		return shipping.Details{}, err
	}
	return details, nil
}

func (s *service) reject(ctx context.Context, started time.Time, outcome string, err error) error {
	s.metrics.Observe(outcome, s.now().Sub(started))
	logCtx := s.logg.WithField(ctx, "outcome", outcome)
	if typed := pkgerrors.As(err); typed != nil {
		logCtx = s.logg.WithField(logCtx, "code", string(typed.Code()))
	}
	s.logg.Warn(logCtx, "checkout.rejected")
	return err
}
