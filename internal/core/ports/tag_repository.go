package ports

import (
	"context"

	"fastship/internal/core/domain/model/tag"
)

// TagRepository reads and seeds the tag vocabulary table.
type TagRepository interface {
	// GetByName returns errs.ErrObjectNotFound when the vocabulary row is missing.
	GetByName(ctx context.Context, name tag.Name) (*tag.Tag, error)
	List(ctx context.Context) ([]*tag.Tag, error)
	Add(ctx context.Context, t *tag.Tag) error
}
