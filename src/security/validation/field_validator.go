package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var ErrValidationFailed = errors.New("validation failed")

const (
	DefaultMaxStringLength = 255
	MaxSymbolLength        = 50
	MaxDescriptionLength   = 4096
	MinPasswordLength      = 8

	// Column limits of the money fields: 10 digits for prices, 12 for totals.
	MaxPriceDigits = 10
	MaxTotalDigits = 12

	// MaxQuantity is the largest quantity the integer columns accept.
	MaxQuantity = math.MaxInt32
)

var (
	symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.&_-]*$`)
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// FieldErrors collects per-field validation messages. It matches
// ErrValidationFailed with errors.Is.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(parts, "; "))
}

func (fe FieldErrors) Is(target error) bool { return target == ErrValidationFailed }

// Add records msg for field, keeping the first message per field.
func (fe FieldErrors) Add(field, msg string) {
	if _, exists := fe[field]; !exists {
		fe[field] = msg
	}
}

// Err returns fe as an error, or nil when it is empty.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}

// NumericConversionError reports a number field whose value could not be
// converted. It is a validation failure.
type NumericConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *NumericConversionError) Error() string {
	return fmt.Sprintf("%s: %s ('%s') is not a valid number", ErrValidationFailed, e.Field, e.Value)
}

func (e *NumericConversionError) Unwrap() error { return e.Err }

func (e *NumericConversionError) Is(target error) bool { return target == ErrValidationFailed }

// AsFieldErrors flattens any validation error into per-field messages.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	var nce *NumericConversionError
	if errors.As(err, &nce) {
		return FieldErrors{nce.Field: "A valid number is required."}, true
	}
	return nil, false
}

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateSymbol checks an already upper-cased ticker symbol.
func ValidateSymbol(s string) error {
	if err := ValidateStringNotEmpty(s, "symbol"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(s, MaxSymbolLength, "symbol"); err != nil {
		return err
	}
	if !symbolRegex.MatchString(s) {
		return fmt.Errorf("%w: symbol ('%s') may only contain letters, digits and . & _ -", ErrValidationFailed, s)
	}
	return nil
}

// ValidateEmail checks the format of an e-mail address.
func ValidateEmail(s string) error {
	if err := ValidateStringNotEmpty(s, "email"); err != nil {
		return err
	}
	if !emailRegex.MatchString(s) {
		return fmt.Errorf("%w: Enter a valid email address.", ErrValidationFailed)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateNonNegativeInt rejects negative quantities.
func ValidateNonNegativeInt(v int64, fieldName string) error {
	if v < 0 {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateQuantity rejects quantities outside 0..MaxQuantity.
func ValidateQuantity(v int64, fieldName string) error {
	if err := ValidateNonNegativeInt(v, fieldName); err != nil {
		return err
	}
	if v > MaxQuantity {
		return fmt.Errorf("%w: %s cannot exceed %d", ErrValidationFailed, fieldName, MaxQuantity)
	}
	return nil
}

// ValidateMoney rejects negative prices and prices wider than the column.
func ValidateMoney(d decimal.Decimal, fieldName string) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s cannot be negative", ErrValidationFailed, fieldName)
	}
	return ValidateMoneyDigits(d, MaxPriceDigits, fieldName)
}

// ValidateMoneyDigits checks that d, stored with two decimals, fits in
// maxDigits digits.
func ValidateMoneyDigits(d decimal.Decimal, maxDigits int, fieldName string) error {
	if len(d.Abs().Truncate(0).String())+2 > maxDigits {
		return fmt.Errorf("%w: %s must have no more than %d digits in total", ErrValidationFailed, fieldName, maxDigits)
	}
	return nil
}

// ParseDecimalField converts a JSON number or numeric string into a decimal.
// A nil or null raw value reports provided=false. Strings are trimmed but
// otherwise parsed strictly; "1,000" is rejected on the write path.
func ParseDecimalField(raw json.RawMessage, field string) (value decimal.Decimal, provided bool, err error) {
	text, provided, err := rawNumberText(raw, field)
	if err != nil || !provided {
		return decimal.Zero, provided, err
	}
	d, convErr := decimal.NewFromString(text)
	if convErr != nil {
		return decimal.Zero, true, &NumericConversionError{Field: field, Value: text, Err: convErr}
	}
	return d, true, nil
}

// ParseIntField converts a JSON number or numeric string into an integer.
func ParseIntField(raw json.RawMessage, field string) (value int64, provided bool, err error) {
	text, provided, err := rawNumberText(raw, field)
	if err != nil || !provided {
		return 0, provided, err
	}
	n, convErr := strconv.ParseInt(text, 10, 64)
	if convErr != nil {
		// Accept integral decimals such as 10.0, but nothing int64 cannot hold.
		d, decErr := decimal.NewFromString(text)
		if decErr != nil || !d.Equal(d.Truncate(0)) || !d.BigInt().IsInt64() {
			return 0, true, &NumericConversionError{Field: field, Value: text, Err: convErr}
		}
		n = d.IntPart()
	}
	return n, true, nil
}

func rawNumberText(raw json.RawMessage, field string) (string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", true, &NumericConversionError{Field: field, Value: string(trimmed), Err: err}
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", true, &NumericConversionError{Field: field, Value: s, Err: errors.New("empty value")}
		}
		return s, true, nil
	}
	return string(trimmed), true, nil
}
