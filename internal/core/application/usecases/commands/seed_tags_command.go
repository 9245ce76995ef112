package commands

import (
	"context"
	"errors"

	"fastship/internal/core/domain/model/tag"
	"fastship/internal/pkg/guard"
)

var ErrSeedTagsCommandIsNotConstructed = errors.New(
	"SeedTagsCommand must be created via NewSeedTagsCommand constructor",
)

// SeedTagsCommand fills the tag vocabulary table.
type SeedTagsCommand struct {
	guard guard.ConstructorGuard
}

func NewSeedTagsCommand() SeedTagsCommand {
	return SeedTagsCommand{guard: guard.NewConstructorGuard()}
}

func (c SeedTagsCommand) Validate() error {
	return c.guard.Validate(ErrSeedTagsCommandIsNotConstructed)
}

// SeedTagsCommandHandler inserts the vocabulary tags missing from the table and reports
// how many were inserted. Existing rows keep their instructions.
type SeedTagsCommandHandler struct {
	uowFactory TagUoWFactory
}

func NewSeedTagsCommandHandler(uowFactory TagUoWFactory) SeedTagsCommandHandler {
	return SeedTagsCommandHandler{uowFactory: uowFactory}
}

func (h SeedTagsCommandHandler) Handle(ctx context.Context, cmd SeedTagsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.TagRepository()
	existing, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}

	present := make(map[tag.Name]struct{}, len(existing))
	for _, t := range existing {
		present[t.Name()] = struct{}{}
	}

	inserted := 0
	for _, t := range tag.DefaultVocabulary() {
		if _, ok := present[t.Name()]; ok {
			continue
		}
		if err = repo.Add(ctx, t); err != nil {
			return 0, err
		}
		inserted++
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return inserted, nil
}
