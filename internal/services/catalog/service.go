// Package catalog generates, stores and organises worlds, creatures and stories.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/services/generation"
	"github.com/beantunes235/fantasyforge/internal/storage"
	"github.com/beantunes235/fantasyforge/internal/validation"
)

// Generator produces drafts from requests
type Generator interface {
	GenerateWorld(ctx context.Context, req model.WorldRequest) (model.WorldDraft, error)
	GenerateCreature(ctx context.Context, req model.CreatureRequest) (model.CreatureDraft, error)
	GenerateStory(ctx context.Context, req model.StoryRequest) (model.StoryDraft, error)
	Status() generation.BreakerStatus
}

// OwnerSource supplies the account saves are attributed to
type OwnerSource interface {
	EnsureDemoOwner(ctx context.Context) (*model.User, error)
}

// Service coordinates generation and storage
type Service struct {
	store     storage.ContentStore
	generator Generator
	owners    OwnerSource
	validator *validation.Validator
	logger    *slog.Logger
}

// New creates a catalog service
func New(store storage.ContentStore, generator Generator, owners OwnerSource, logger *slog.Logger) *Service {
	return &Service{
		store:     store,
		generator: generator,
		owners:    owners,
		validator: validation.New(),
		logger:    logger,
	}
}

// Status reports whether generation still uses the external model
func (s *Service) Status() generation.BreakerStatus {
	return s.generator.Status()
}

// GenerateWorld validates req, generates a world and stores it
func (s *Service) GenerateWorld(ctx context.Context, req model.WorldRequest) (*model.World, error) {
	if err := s.validator.Request("world", req); err != nil {
		return nil, err
	}
	draft, err := s.generator.GenerateWorld(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Draft("world", draft); err != nil {
		return nil, err
	}

	world, err := s.store.CreateWorld(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("store world: %w", err)
	}
	s.logger.Info("world generated", "world_id", world.ID, "name", world.Name)
	return world, nil
}

// GetWorld returns a world by id
func (s *Service) GetWorld(ctx context.Context, id model.WorldID) (*model.World, error) {
	return s.store.GetWorld(ctx, id)
}

// ListWorlds returns every world, or only those whose featured flag matches
func (s *Service) ListWorlds(ctx context.Context, featured *bool) ([]*model.World, error) {
	return s.store.ListWorlds(ctx, model.WorldFilter{Featured: featured})
}

// ListMyWorlds returns the caller's worlds. Ownership is not enforced so
// every world is returned.
func (s *Service) ListMyWorlds(ctx context.Context) ([]*model.World, error) {
	return s.store.ListWorlds(ctx, model.WorldFilter{})
}

// SaveWorld attributes a world to the demo owner
func (s *Service) SaveWorld(ctx context.Context, id model.WorldID) (*model.World, error) {
	if _, err := s.store.GetWorld(ctx, id); err != nil {
		return nil, err
	}
	owner, err := s.owners.EnsureDemoOwner(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.UpdateWorld(ctx, id, model.WorldPatch{OwnerUserID: &owner.ID})
}

// FeatureWorld sets or clears a world's featured flag
func (s *Service) FeatureWorld(ctx context.Context, id model.WorldID, featured bool) (*model.World, error) {
	return s.store.UpdateWorld(ctx, id, model.WorldPatch{Featured: &featured})
}

// DeleteWorld removes a world and detaches its creatures and stories
func (s *Service) DeleteWorld(ctx context.Context, id model.WorldID) error {
	found, err := s.store.DeleteWorld(ctx, id)
	return deleteResult(found, err, model.ErrWorldNotFound)
}

// GenerateCreature validates req, generates a creature and stores it
func (s *Service) GenerateCreature(ctx context.Context, req model.CreatureRequest) (*model.Creature, error) {
	if err := s.validator.Request("creature", req); err != nil {
		return nil, err
	}
	draft, err := s.generator.GenerateCreature(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Draft("creature", draft); err != nil {
		return nil, err
	}

	creature, err := s.store.CreateCreature(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("store creature: %w", err)
	}
	s.logger.Info("creature generated", "creature_id", creature.ID, "name", creature.Name)
	return creature, nil
}

// GetCreature returns a creature by id
func (s *Service) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	return s.store.GetCreature(ctx, id)
}

// ListCreatures returns the creatures attached to a world
func (s *Service) ListCreatures(ctx context.Context, worldID model.WorldID) ([]*model.Creature, error) {
	return s.store.ListCreatures(ctx, model.ChildFilter{WorldID: &worldID})
}

// SaveCreature attaches a creature to a world, moving it from any previous one
func (s *Service) SaveCreature(ctx context.Context, id model.CreatureID, worldID *model.WorldID) (*model.Creature, error) {
	if err := s.checkSaveTarget(ctx, worldID, func() error {
		_, err := s.store.GetCreature(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	return s.store.UpdateCreature(ctx, id, model.CreaturePatch{WorldID: worldID})
}

// DeleteCreature removes a creature
func (s *Service) DeleteCreature(ctx context.Context, id model.CreatureID) error {
	found, err := s.store.DeleteCreature(ctx, id)
	return deleteResult(found, err, model.ErrCreatureNotFound)
}

// GenerateStory validates req, generates a story and stores it
func (s *Service) GenerateStory(ctx context.Context, req model.StoryRequest) (*model.Story, error) {
	if err := s.validator.Request("story", req); err != nil {
		return nil, err
	}
	draft, err := s.generator.GenerateStory(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Draft("story", draft); err != nil {
		return nil, err
	}

	story, err := s.store.CreateStory(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("store story: %w", err)
	}
	s.logger.Info("story generated", "story_id", story.ID, "title", story.Title)
	return story, nil
}

// GetStory returns a story by id
func (s *Service) GetStory(ctx context.Context, id model.StoryID) (*model.Story, error) {
	return s.store.GetStory(ctx, id)
}

// ListStories returns the stories attached to a world
func (s *Service) ListStories(ctx context.Context, worldID model.WorldID) ([]*model.Story, error) {
	return s.store.ListStories(ctx, model.ChildFilter{WorldID: &worldID})
}

// SaveStory attaches a story to a world, moving it from any previous one
func (s *Service) SaveStory(ctx context.Context, id model.StoryID, worldID *model.WorldID) (*model.Story, error) {
	if err := s.checkSaveTarget(ctx, worldID, func() error {
		_, err := s.store.GetStory(ctx, id)
		return err
	}); err != nil {
		return nil, err
	}
	return s.store.UpdateStory(ctx, id, model.StoryPatch{WorldID: worldID})
}

// DeleteStory removes a story
func (s *Service) DeleteStory(ctx context.Context, id model.StoryID) error {
	found, err := s.store.DeleteStory(ctx, id)
	return deleteResult(found, err, model.ErrStoryNotFound)
}

// checkSaveTarget requires a world id, then the record, then the world.
// A missing record is reported before a missing world. The store re-checks
// the world inside the update, so a world deleted after this check still
// fails the save with ErrWorldNotFound.
func (s *Service) checkSaveTarget(ctx context.Context, worldID *model.WorldID, record func() error) error {
	if worldID == nil || *worldID == 0 {
		return model.ErrWorldIDRequired
	}
	if err := record(); err != nil {
		return err
	}
	_, err := s.store.GetWorld(ctx, *worldID)
	return err
}

func deleteResult(found bool, err error, notFound error) error {
	if err != nil {
		return err
	}
	if !found {
		return notFound
	}
	return nil
}
