package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyReturned = errors.New("this borrowing is already returned")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrForbidden       = errors.New("forbidden")
	ErrOutOfStock      = errors.New("out of stock")
	ErrProvider        = errors.New("payment provider unavailable")
)

// OutOfStock names the unavailable book so the handler can surface its title.
func OutOfStock(title string) error {
	return errors.Wrap(ErrOutOfStock, fmt.Sprintf("the book %q temporarily unavailable", title))
}
