package application

import (
	"errors"
	"fmt"

	"github.com/petopia/petopia-server/internal/domains/pets/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid pet input")
	// ErrInvalidState covers adoption requests that do not fit the pet or request status.
	ErrInvalidState = errors.New("invalid adoption state")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrEmptyName) ||
		errors.Is(err, domain.ErrEmptySpecies) ||
		errors.Is(err, domain.ErrInvalidAge) ||
		errors.Is(err, domain.ErrMissingUser) ||
		errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if errors.Is(err, domain.ErrNotAdoptable) || errors.Is(err, domain.ErrAlreadyDecided) {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	return err
}
