package services

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrUserNotFound    = errors.New("user not found")
	ErrBadPassword     = errors.New("invalid password")
	ErrNoCurrentUser   = errors.New("no user signed in")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrProductNotFound = errors.New("product not found")
	ErrForbidden       = errors.New("not allowed for this role")
	ErrInvalidInput    = errors.New("invalid input")

	// ErrPersistence wraps any failure to write a slot. The in-memory state is
	// left as it was before the call.
	ErrPersistence = errors.New("could not save marketplace data")
)

// Message returns the text shown to the user for a store error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmailTaken):
		return "Email already registered."
	case errors.Is(err, ErrUserNotFound):
		return "User not found."
	case errors.Is(err, ErrBadPassword):
		return "Invalid password."
	case errors.Is(err, ErrNoCurrentUser):
		return "Please sign in to continue."
	case errors.Is(err, ErrEmptyCart):
		return "Checkout failed. Your cart is empty."
	case errors.Is(err, ErrProductNotFound):
		return "Product not found."
	case errors.Is(err, ErrForbidden):
		return "You are not allowed to do that."
	case errors.Is(err, ErrInvalidInput):
		var ie *InputError
		if errors.As(err, &ie) {
			return ie.Reason
		}
		return "Please check your input."
	case errors.Is(err, ErrPersistence):
		return "Could not save your changes. Storage may be full."
	default:
		return "Something went wrong."
	}
}

// InputError is a rejected field with the reason shown to the user.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Field)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// inputError reports the first failed field of a validator error.
func inputError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	fe := verrs[0]
	return &InputError{Field: fe.Field(), Reason: fieldReason(fe.Field(), fe.Tag())}
}

func fieldReason(field, tag string) string {
	switch {
	case field == "Email":
		return "A valid email is required."
	case field == "Role":
		return "Please choose a valid role."
	case tag == "gte":
		return field + " cannot be negative."
	case tag == "required":
		return field + " is required."
	default:
		return field + " is invalid."
	}
}
