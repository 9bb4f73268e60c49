package service

import (
	"errors"
	"fmt"

	"go-pos-ws/pkg/validator"
)

// Sentinel errors for the stock and sale workflows. Handlers match them with
// errors.Is to pick an HTTP status; none of them is retryable with the same
// inputs (transient DB failures surface as different, wrapped errors).
var (
	ErrValidation                 = errors.New("validation failed")
	ErrInvalidQuantity            = errors.New("quantity must be a positive number")
	ErrInvalidReason              = errors.New("return reason must be LEFTOVER, DEFECTIVE, or EXPIRED")
	ErrInsufficientWarehouseStock = errors.New("insufficient warehouse stock")
	ErrInsufficientCashierStock   = errors.New("insufficient cashier stock")
	ErrInsufficientStock          = errors.New("insufficient stock")
	ErrEmptyCart                  = errors.New("cart is empty")
	ErrInsufficientPayment        = errors.New("cash received is less than the total")
	ErrProductNotFound            = errors.New("product not found")
	ErrCashierNotFound            = errors.New("cashier not found")
	ErrSaleNotFound               = errors.New("sale not found")
	ErrTaxTypeNotFound            = errors.New("tax type not found")
	ErrPaymentNotFound            = errors.New("payment not found")
	ErrPaymentExpired             = errors.New("payment window expired")
	ErrInvalidTransition          = errors.New("invalid status transition")
	ErrSKUExists                  = errors.New("SKU already exists")
	ErrTaxCodeExists              = errors.New("tax code already exists")
)

// validationErr wraps ErrValidation with the first failed field so handlers
// can report what was wrong while still matching the sentinel.
func validationErr(errs []*validator.ErrorResponse) error {
	first := errs[0]
	return fmt.Errorf("%w: field '%s' failed on rule '%s'", ErrValidation, first.FailedField, first.Tag)
}

// Actor identifies the authenticated user performing an operation, taken
// from the JWT claims by the handlers.
type Actor struct {
	ID    string
	Name  string
	Email string
}

// StockMutationResult is the one stable response shape for every stock
// mutation (adjust, distribute, return).
type StockMutationResult struct {
	Success       bool `json:"success"`
	PreviousStock int  `json:"previous_stock"`
	NewStock      int  `json:"new_stock"`
}
