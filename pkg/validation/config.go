package validation

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// Sentinel causes wrapped by FieldError
var (
	ErrEmpty      = errors.New("required value is empty")
	ErrOutOfRange = errors.New("value out of range")
	ErrNotAllowed = errors.New("value not allowed")
	ErrBadAddr    = errors.New("invalid listen address")
	ErrNotDir     = errors.New("not a directory")
)

// FieldError locates a configuration problem as section.field
type FieldError struct {
	Section string
	Field   string
	Err     error
}

func (e *FieldError) Error() string {
	return e.Section + "." + e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ConfigValidator chains field checks over one configuration section and
// keeps every failure, so a bad file is reported in one pass.
type ConfigValidator struct {
	section string
	errs    []error
}

// NewConfigValidator starts a chain whose errors are prefixed with section
func NewConfigValidator(section string) *ConfigValidator {
	return &ConfigValidator{section: section}
}

func (cv *ConfigValidator) fail(field string, cause error, format string, args ...any) *ConfigValidator {
	err := cause
	if format != "" {
		err = fmt.Errorf("%w: "+format, append([]any{cause}, args...)...)
	}
	cv.errs = append(cv.errs, &FieldError{Section: cv.section, Field: field, Err: err})
	return cv
}

// Required rejects the empty string
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		return cv.fail(field, ErrEmpty, "")
	}
	return cv
}

// RangeDuration requires lo <= value <= hi
func (cv *ConfigValidator) RangeDuration(field string, value, lo, hi time.Duration) *ConfigValidator {
	if value < lo || value > hi {
		return cv.fail(field, ErrOutOfRange, "%v not in [%v, %v]", value, lo, hi)
	}
	return cv
}

// NonNegativeDuration rejects negative durations; zero usually means "off"
func (cv *ConfigValidator) NonNegativeDuration(field string, value time.Duration) *ConfigValidator {
	if value < 0 {
		return cv.fail(field, ErrOutOfRange, "%v is negative", value)
	}
	return cv
}

// Positive requires value > 0
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		return cv.fail(field, ErrOutOfRange, "%d must be positive", value)
	}
	return cv
}

// NonNegative requires value >= 0
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		return cv.fail(field, ErrOutOfRange, "%d is negative", value)
	}
	return cv
}

// OneOf requires value to be in allowed
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	return cv.fail(field, ErrNotAllowed, "%q, want one of %v", value, allowed)
}

// Custom records the error fn returns, if any
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		return cv.fail(field, err, "")
	}
	return cv
}

// ExistingDir requires path to be a directory. An empty path is skipped;
// pair it with Required when the field is mandatory.
func (cv *ConfigValidator) ExistingDir(field, path string) *ConfigValidator {
	if path == "" {
		return cv
	}
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return cv.fail(field, err, "")
	case !info.IsDir():
		return cv.fail(field, ErrNotDir, "%q", path)
	}
	return cv
}

// ListenAddr requires a host:port pair; the host may be empty
func (cv *ConfigValidator) ListenAddr(field, addr string) *ConfigValidator {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return cv.fail(field, ErrBadAddr, "%q: %v", addr, err)
	}
	return cv
}

// HasErrors reports whether any check failed
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errs) > 0
}

// Errors returns each failure as a *FieldError
func (cv *ConfigValidator) Errors() []error {
	return cv.errs
}

// Validate returns nil, the single failure, or all failures joined
func (cv *ConfigValidator) Validate() error {
	switch len(cv.errs) {
	case 0:
		return nil
	case 1:
		return cv.errs[0]
	}
	return fmt.Errorf("%s: %d invalid fields: %w", cv.section, len(cv.errs), errors.Join(cv.errs...))
}

// DefaultOr substitutes fallback for the zero value
func DefaultOr[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// DefaultOrDuration substitutes fallback for zero or negative durations
func DefaultOrDuration(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
