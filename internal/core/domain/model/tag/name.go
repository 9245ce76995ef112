package tag

import (
	"fmt"
	"strings"

	"fastship/internal/pkg/errs"
)

// Name is a tag from the fixed handling vocabulary.
type Name string

const (
	Express               Name = "express"
	Standard              Name = "standard"
	Fragile               Name = "fragile"
	Heavy                 Name = "heavy"
	International         Name = "international"
	Domestic              Name = "domestic"
	TemperatureControlled Name = "temperature_controlled"
	Gift                  Name = "gift"
	Return                Name = "return"
	Documents             Name = "documents"
)

// Names lists the vocabulary in a fixed order.
func Names() []Name {
	return []Name{
		Express, Standard, Fragile, Heavy, International,
		Domestic, TemperatureControlled, Gift, Return, Documents,
	}
}

// ParseName accepts a vocabulary name, ignoring case and surrounding spaces.
func ParseName(raw string) (Name, error) {
	candidate := Name(strings.ToLower(strings.TrimSpace(raw)))
	if err := candidate.Validate(); err != nil {
		return "", err
	}
	return candidate, nil
}

// Validate checks that the name belongs to the vocabulary.
func (n Name) Validate() error {
	for _, known := range Names() {
		if n == known {
			return nil
		}
	}
	return errs.NewValueIsInvalidErrorWithCause("tag name", fmt.Errorf("%q is not a known tag", string(n)))
}

func (n Name) String() string {
	return string(n)
}
