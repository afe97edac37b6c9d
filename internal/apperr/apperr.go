package apperr

import "fmt"

// Kind classifies a business failure so handlers can map it to an HTTP status.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindDuplicate
	KindInsufficientStock
	KindInvalidTransition
	KindValidation
	KindInternal
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Message: resource + " not found"}
}

func Duplicate(resource, value string) *Error {
	return &Error{Kind: KindDuplicate, Message: fmt.Sprintf("%s '%s' already exists", resource, value)}
}

func InsufficientStock(productName string, requested, available int) *Error {
	return &Error{
		Kind:    KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock for product '%s': requested %d, available %d", productName, requested, available),
	}
}

func InvalidTransition(current, requested string) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("invalid status transition from %s to %s", current, requested),
	}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Err: err}
}
