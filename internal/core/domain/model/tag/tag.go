package tag

import (
	"errors"
	"strings"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

// ErrTagIsNotConstructed is returned when a Tag was not created through NewTag or RestoreTag.
var ErrTagIsNotConstructed = errors.New("Tag must be created via NewTag constructor")

// Tag is a handling label with a free-text instruction for the delivery partner.
// Tags are shared between shipments (many-to-many).
type Tag struct {
	id          kernel.UUID
	name        Name
	instruction string
	guard       guard.ConstructorGuard
}

// NewTag creates a tag from the vocabulary. The name must be one of the vocabulary names
// (errs.ErrValueIsInvalid otherwise) and the instruction must not be blank.
//
// Example:
//
//	t, err := tag.NewTag(kernel.NewUUID(), tag.Fragile, "handle with care")
func NewTag(id kernel.UUID, name Name, instruction string) (*Tag, error) {
	t := &Tag{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		t.setID(id),
		t.setName(name),
		t.setInstruction(instruction),
	); err != nil {
		return nil, err
	}

	return t, nil
}

// RestoreTag rehydrates a persisted tag.
func RestoreTag(id kernel.UUID, name Name, instruction string) (*Tag, error) {
	return NewTag(id, name, instruction)
}

// DefaultVocabulary returns one tag per vocabulary name with a default instruction.
func DefaultVocabulary() []*Tag {
	tags := make([]*Tag, 0, len(Names()))
	for _, name := range Names() {
		t, _ := NewTag(kernel.NewUUID(), name, defaultInstructions[name])
		tags = append(tags, t)
	}
	return tags
}

var defaultInstructions = map[Name]string{
	Express:               "Prioritize over standard shipments",
	Standard:              "Handle with regular care",
	Fragile:               "Handle with care, do not stack",
	Heavy:                 "Use lifting equipment or two handlers",
	International:         "Attach customs declaration",
	Domestic:              "No customs paperwork required",
	TemperatureControlled: "Keep within the labelled temperature range",
	Gift:                  "Do not include invoice in the package",
	Return:                "Deliver back to the seller address",
	Documents:             "Keep flat and dry",
}

// Validate ensures the tag was created through its constructor.
func (t *Tag) Validate() error {
	if t == nil {
		return ErrTagIsNotConstructed
	}
	return t.guard.Validate(ErrTagIsNotConstructed)
}

func (t *Tag) ID() kernel.UUID {
	return t.id
}

func (t *Tag) Name() Name {
	return t.name
}

func (t *Tag) Instruction() string {
	return t.instruction
}

func (t *Tag) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

func (t *Tag) setName(name Name) error {
	if err := name.Validate(); err != nil {
		return err
	}
	t.name = name
	return nil
}

func (t *Tag) setInstruction(instruction string) error {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return errs.NewValueIsRequiredError("instruction")
	}
	t.instruction = instruction
	return nil
}
