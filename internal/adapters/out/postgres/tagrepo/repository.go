package tagrepo

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/tag"
	"fastship/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormTagRepository implements TagRepository using GORM.
type GormTagRepository struct {
	db *gorm.DB
}

func NewGormTagRepository(db *gorm.DB) *GormTagRepository {
	return &GormTagRepository{db: db}
}

// GetByName retrieves the vocabulary row for name.
func (r *GormTagRepository) GetByName(ctx context.Context, name tag.Name) (*tag.Tag, error) {
	var dto TagDTO
	if err := r.db.WithContext(ctx).First(&dto, "name = ?", string(name)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("tag", string(name))
		}
		return nil, err
	}

	return ToDomain(dto)
}

// List returns the vocabulary ordered by name.
func (r *GormTagRepository) List(ctx context.Context) ([]*tag.Tag, error) {
	var dtos []TagDTO
	if err := r.db.WithContext(ctx).Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	tags := make([]*tag.Tag, 0, len(dtos))
	for _, dto := range dtos {
		t, err := ToDomain(dto)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// Add inserts a vocabulary row.
func (r *GormTagRepository) Add(ctx context.Context, t *tag.Tag) error {
	if err := t.Validate(); err != nil {
		return err
	}

	dto := fromDomain(t)
	return r.db.WithContext(ctx).Create(&dto).Error
}
