// Package tagrepo persists the tag vocabulary.
package tagrepo

import (
	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/domain/model/tag"

	"github.com/google/uuid"
)

// TagDTO is a row of the vocabulary table. Names are unique.
type TagDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:32;not null;uniqueIndex"`
	Instruction string    `gorm:"size:255;not null"`
}

func (TagDTO) TableName() string {
	return "tags"
}

func fromDomain(t *tag.Tag) TagDTO {
	return TagDTO{
		ID:          t.ID().Bytes(),
		Name:        string(t.Name()),
		Instruction: t.Instruction(),
	}
}

// ToDomain restores a tag row. It is shared with the shipment repository, which loads
// a shipment's tags through the link table.
func ToDomain(dto TagDTO) (*tag.Tag, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	return tag.RestoreTag(id, tag.Name(dto.Name), dto.Instruction)
}
