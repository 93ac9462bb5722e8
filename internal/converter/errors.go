package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a caller mistake: a missing input directory,
	// an empty upload batch or an unsupported file extension.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConversionFailed wraps directory creation, file I/O and encoder failures.
	ErrConversionFailed = errors.New("conversion failed")
)

func invalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// conversionFailed keeps both the sentinel and the original cause reachable
// through errors.Is / errors.As.
func conversionFailed(step string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrConversionFailed, step, err)
}
