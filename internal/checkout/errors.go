package checkout

import pkgerrors "github.com/angelmondragon/tvshop-backend/pkg/errors"

// CartPath is where clients are sent back to when checkout finds nothing to buy.
const CartPath = "/api/v1/cart"

const orderPositionConstraint = "uq_order_items_order_position"

// ErrEmptyCart reports a submission against a cart without lines.
func ErrEmptyCart() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "cart is empty").WithDetails(map[string]any{
		"redirect": CartPath,
	})
}

func errLineFailed(tvID int64, position int, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeCheckoutFailed, err, "checkout line failed").WithDetails(map[string]any{
		"television_id": tvID,
		"position":      position,
	})
}
