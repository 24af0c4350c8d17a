package planning

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gauravv-jainn/oneup-sub000/internal/store"
	"github.com/gauravv-jainn/oneup-sub000/internal/validation"
)

// Error kinds returned by the planner. Match them with errors.Is.
var (
	ErrNotFound          = store.ErrNotFound
	ErrTransaction       = store.ErrTransaction
	ErrConflict          = store.ErrConstraint
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyCompleted  = errors.New("order already completed")
	ErrOrderLocked       = errors.New("order is locked")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Shortfall is one component that cannot cover its requirement.
type Shortfall struct {
	ComponentID int64  `json:"component_id"`
	Name        string `json:"name"`
	PartNumber  string `json:"part_number"`
	Required    int    `json:"required"`
	Available   int    `json:"available"`
	Shortfall   int    `json:"shortfall"`
}

// InsufficientStockError lists every component short at execution time.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortfalls))
	for i, s := range e.Shortfalls {
		parts[i] = fmt.Sprintf("%s (%s): need %d, have %d", s.Name, s.PartNumber, s.Required, s.Available)
	}
	return "insufficient stock: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrInsufficientStock) true.
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func invalid(ve *validation.ValidationErrors) error {
	if ve == nil || !ve.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidInput, ve)
}
