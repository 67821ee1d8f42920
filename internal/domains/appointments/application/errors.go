package application

import (
	"errors"
	"fmt"

	"github.com/petopia/petopia-server/internal/domains/appointments/domain"
)

var (
	// ErrInvalidInput signals a malformed booking request.
	ErrInvalidInput = errors.New("invalid appointment input")
	// ErrConflict signals the appointment kept changing underneath the request.
	ErrConflict = errors.New("appointment was modified by another request")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrValidation) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
