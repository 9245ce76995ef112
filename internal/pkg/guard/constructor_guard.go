// Package guard provides ConstructorGuard, which lets value objects, entities, commands
// and queries detect that they were built as zero values instead of through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by ConstructorGuard.Validate when the caller
// passes a nil error, so a zero-value object never validates silently.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks an object as created through its constructor.
//
// Domain types keep their fields private and expose NewX (and RestoreX for rehydration)
// constructors that check every invariant. A struct literal or a zero value skips those
// checks; the guard is the flag that tells the two apart. Every exported method that
// relies on the invariants starts by calling Validate.
//
// The guard is a plain bool, so copies of a constructed value stay constructed.
//
// Example:
//
//	var ErrWeightIsNotConstructed = errors.New("Weight must be created via NewWeight")
//
//	type Weight struct {
//	    kilograms decimal.Decimal
//	    guard     guard.ConstructorGuard
//	}
//
//	func NewWeight(kilograms decimal.Decimal) (Weight, error) {
//	    if kilograms.IsNegative() {
//	        return Weight{}, errs.NewValueIsOutOfRangeError("weight", kilograms, 0, 25)
//	    }
//	    return Weight{kilograms: kilograms, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (w Weight) Validate() error {
//	    return w.guard.Validate(ErrWeightIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state. Call it only after the
// constructor has checked its arguments.
//
// Example:
//
//	t := &Tag{guard: guard.NewConstructorGuard()}
//	if err := errors.Join(t.setID(id), t.setName(name)); err != nil {
//	    return nil, err
//	}
//
// Returns:
//   - A ConstructorGuard whose Validate reports nil
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate reports whether the guarded object went through its constructor.
//
// Parameters:
//   - validationError: the error returned for a zero value, usually the package's
//     ErrXIsNotConstructed sentinel so callers can match it with errors.Is
//
// Example:
//
//	func (c CancelShipmentCommand) Validate() error {
//	    return c.guard.Validate(ErrCancelShipmentCommandIsNotConstructed)
//	}
//
// Returns:
//   - nil if the guard was created by NewConstructorGuard
//   - validationError for a zero-value guard
//   - ErrDefaultConstructorGuard for a zero-value guard when validationError is nil
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
