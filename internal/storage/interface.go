package storage

import (
	"context"

	"github.com/beantunes235/fantasyforge/internal/model"
)

// ContentStore defines the interface for content persistence.
//
// Implementations own every entity instance and hand out copies. Creating,
// deleting or re-associating a creature or story updates the referenced
// world's counter in the same atomic unit as the child write.
type ContentStore interface {
	// RandomStockImage returns a stock image URL for the category
	RandomStockImage(category model.ImageCategory) string

	// User operations
	CreateUser(ctx context.Context, user model.NewUser) (*model.User, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)

	// World operations
	GetWorld(ctx context.Context, id model.WorldID) (*model.World, error)
	ListWorlds(ctx context.Context, filter model.WorldFilter) ([]*model.World, error)
	CreateWorld(ctx context.Context, draft model.WorldDraft) (*model.World, error)
	UpdateWorld(ctx context.Context, id model.WorldID, patch model.WorldPatch) (*model.World, error)
	// DeleteWorld removes the world and detaches its creatures and stories
	DeleteWorld(ctx context.Context, id model.WorldID) (bool, error)

	// Creature operations
	GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error)
	ListCreatures(ctx context.Context, filter model.ChildFilter) ([]*model.Creature, error)
	CreateCreature(ctx context.Context, draft model.CreatureDraft) (*model.Creature, error)
	// UpdateCreature fails with ErrWorldNotFound, changing nothing, when
	// patch.WorldID names an absent world
	UpdateCreature(ctx context.Context, id model.CreatureID, patch model.CreaturePatch) (*model.Creature, error)
	DeleteCreature(ctx context.Context, id model.CreatureID) (bool, error)

	// Story operations
	GetStory(ctx context.Context, id model.StoryID) (*model.Story, error)
	ListStories(ctx context.Context, filter model.ChildFilter) ([]*model.Story, error)
	CreateStory(ctx context.Context, draft model.StoryDraft) (*model.Story, error)
	// UpdateStory fails with ErrWorldNotFound like UpdateCreature
	UpdateStory(ctx context.Context, id model.StoryID, patch model.StoryPatch) (*model.Story, error)
	DeleteStory(ctx context.Context, id model.StoryID) (bool, error)

	// Close releases any underlying connections
	Close() error
}
