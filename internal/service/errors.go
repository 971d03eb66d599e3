package service

import (
	"errors"
	"fmt"
)

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrClientNotFound is returned when a client is not found
	ErrClientNotFound = errors.New("client not found")

	// ErrEmployeeNotFound is returned when an employee is not found
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrProductNotFound is returned when a product is not found
	ErrProductNotFound = errors.New("product not found")

	// ErrQuoteNotFound is returned when a quote is not found
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrOrderNotFound is returned when an order is not found
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvoiceNotFound is returned when an invoice is not found
	ErrInvoiceNotFound = errors.New("invoice not found")

	// ErrQuoteConverted is returned when editing or deleting a quote that has
	// already been converted to an order
	ErrQuoteConverted = errors.New("quote has been converted to an order and is immutable")

	// ErrQuoteAlreadyConverted is returned when converting a quote twice
	ErrQuoteAlreadyConverted = errors.New("quote is already converted to an order")

	// ErrQuoteRejected is returned when converting a rejected quote
	ErrQuoteRejected = errors.New("rejected quote cannot be converted to an order")

	// ErrQuoteAlreadyOrdered is returned when an order already references the quote
	ErrQuoteAlreadyOrdered = errors.New("an order already exists for this quote")

	// ErrOrderNotEditable is returned when editing an invoiced or completed order
	ErrOrderNotEditable = errors.New("order is invoiced or completed and cannot be edited")

	// ErrOrderInvoiced is returned when deleting an invoiced order
	ErrOrderInvoiced = errors.New("order has an invoice and cannot be deleted")

	// ErrOrderAlreadyInvoiced is returned when invoicing an order twice
	ErrOrderAlreadyInvoiced = errors.New("an invoice already exists for this order")

	// ErrOrderCancelled is returned when invoicing a cancelled order
	ErrOrderCancelled = errors.New("cancelled order cannot be invoiced")

	// ErrIllegalTransition is returned for a status change the state machine
	// forbids; the wrapped message names the from/to pair
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrStatusReserved is returned when a status that is only reachable
	// through a lifecycle operation is requested directly
	ErrStatusReserved = errors.New("status can only be set by its lifecycle operation")

	// ErrInvalidStatus is returned when a status value is not a known state
	ErrInvalidStatus = errors.New("invalid status value")
)

// illegalTransition wraps ErrIllegalTransition naming the offending pair.
func illegalTransition(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}
