package kernel

import (
	"strconv"

	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

const (
	// ZipCodeMin is the smallest accepted postal code.
	ZipCodeMin = 1
	// ZipCodeMax is the largest accepted postal code (eight digits).
	ZipCodeMax = 99_999_999
)

// ErrZipCodeIsNotConstructed is returned when a zero-value ZipCode is used.
var ErrZipCodeIsNotConstructed = errs.NewValueIsRequiredError("zip code must be created via NewZipCode")

// ZipCode is a numeric postal code. It identifies a shipment destination, the location
// where a scan occurred, a seller's address and the areas a delivery partner serves.
//
// ZipCode is immutable and comparable, so it can be used as a map key.
type ZipCode struct { //nolint:recvcheck //using for validation
	value int
	guard guard.ConstructorGuard
}

// NewZipCode validates that value lies within [ZipCodeMin, ZipCodeMax].
//
// Example:
//
//	zip, err := kernel.NewZipCode(10001)
//	_, err = kernel.NewZipCode(0) // errs.ErrValueIsOutOfRange
//
// Returns:
//   - A constructed ZipCode
//   - errs.ErrValueIsOutOfRange when value is out of bounds
func NewZipCode(value int) (ZipCode, error) {
	if value < ZipCodeMin || value > ZipCodeMax {
		return ZipCode{}, errs.NewValueIsOutOfRangeError("zip code", value, ZipCodeMin, ZipCodeMax)
	}

	return ZipCode{
		value: value,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// MustZipCode is NewZipCode for constants known to be valid. It panics otherwise.
func MustZipCode(value int) ZipCode {
	zip, err := NewZipCode(value)
	if err != nil {
		panic(err)
	}
	return zip
}

// NewZipCodes converts a list of raw codes, failing on the first invalid one.
func NewZipCodes(values []int) ([]ZipCode, error) {
	zips := make([]ZipCode, 0, len(values))
	for _, v := range values {
		zip, err := NewZipCode(v)
		if err != nil {
			return nil, err
		}
		zips = append(zips, zip)
	}
	return zips, nil
}

// Int returns the raw numeric value.
func (z ZipCode) Int() int {
	return z.value
}

// String returns the decimal representation, e.g. "10001".
func (z ZipCode) String() string {
	return strconv.Itoa(z.value)
}

// IsEqual compares two zip codes by value.
func (z ZipCode) IsEqual(other ZipCode) bool {
	return z.value == other.value
}

// Validate ensures the zip code was created through NewZipCode.
func (z ZipCode) Validate() error {
	return z.guard.Validate(ErrZipCodeIsNotConstructed)
}
