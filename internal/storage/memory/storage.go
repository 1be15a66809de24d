package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/beantunes235/fantasyforge/internal/dependencies/clock"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/storage"
	"github.com/beantunes235/fantasyforge/internal/storage/stock"
)

// Storage is an in-memory implementation of the content store
type Storage struct {
	mu sync.RWMutex

	clock  clock.Clock
	images *stock.Images

	users         map[model.UserID]*model.User
	usernameIndex map[string]model.UserID
	emailIndex    map[string]model.UserID
	worlds        map[model.WorldID]*model.World
	creatures     map[model.CreatureID]*model.Creature
	stories       map[model.StoryID]*model.Story

	nextUserID     model.UserID
	nextWorldID    model.WorldID
	nextCreatureID model.CreatureID
	nextStoryID    model.StoryID
}

// New creates a new in-memory storage instance
func New(clk clock.Clock, rnd random.Random) *Storage {
	return &Storage{
		clock:          clk,
		images:         stock.New(rnd),
		users:          make(map[model.UserID]*model.User),
		usernameIndex:  make(map[string]model.UserID),
		emailIndex:     make(map[string]model.UserID),
		worlds:         make(map[model.WorldID]*model.World),
		creatures:      make(map[model.CreatureID]*model.Creature),
		stories:        make(map[model.StoryID]*model.Story),
		nextUserID:     1,
		nextWorldID:    1,
		nextCreatureID: 1,
		nextStoryID:    1,
	}
}

// Ensure Storage implements the interface
var _ storage.ContentStore = (*Storage)(nil)

func (s *Storage) RandomStockImage(category model.ImageCategory) string {
	return s.images.RandomStockImage(category)
}

// Close is a no-op for in-memory storage
func (s *Storage) Close() error {
	return nil
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, nu model.NewUser) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernameIndex[nu.Username]; ok {
		return nil, model.ErrUsernameExists
	}
	if nu.Email != "" {
		if _, ok := s.emailIndex[nu.Email]; ok {
			return nil, model.ErrEmailExists
		}
	}

	user := &model.User{
		ID:           s.nextUserID,
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Email:        nu.Email,
		CreatedAt:    s.clock.Now(),
	}
	s.nextUserID++

	s.users[user.ID] = user
	s.usernameIndex[user.Username] = user.ID
	if user.Email != "" {
		s.emailIndex[user.Email] = user.ID
	}
	out := *user
	return &out, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	out := *s.users[id]
	return &out, nil
}

// World operations

func (s *Storage) GetWorld(ctx context.Context, id model.WorldID) (*model.World, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	world, ok := s.worlds[id]
	if !ok {
		return nil, model.ErrWorldNotFound
	}
	return world.Clone(), nil
}

func (s *Storage) ListWorlds(ctx context.Context, filter model.WorldFilter) ([]*model.World, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.World, 0, len(s.worlds))
	for _, id := range sortedKeys(s.worlds) {
		if w := s.worlds[id]; filter.Matches(w) {
			result = append(result, w.Clone())
		}
	}
	return result, nil
}

func (s *Storage) CreateWorld(ctx context.Context, draft model.WorldDraft) (*model.World, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	world := &model.World{
		ID:         s.nextWorldID,
		WorldDraft: draft,
		CreatedAt:  s.clock.Now(),
	}
	world.Regions = append([]string(nil), draft.Regions...)
	s.nextWorldID++

	s.worlds[world.ID] = world
	return world.Clone(), nil
}

func (s *Storage) UpdateWorld(ctx context.Context, id model.WorldID, patch model.WorldPatch) (*model.World, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	world, ok := s.worlds[id]
	if !ok {
		return nil, model.ErrWorldNotFound
	}
	patch.Apply(world)
	return world.Clone(), nil
}

func (s *Storage) DeleteWorld(ctx context.Context, id model.WorldID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.worlds[id]; !ok {
		return false, nil
	}
	delete(s.worlds, id)

	// Detach children so no reference dangles
	for _, c := range s.creatures {
		if c.WorldID != nil && *c.WorldID == id {
			c.WorldID = nil
		}
	}
	for _, st := range s.stories {
		if st.WorldID != nil && *st.WorldID == id {
			st.WorldID = nil
		}
	}
	return true, nil
}

// Creature operations

func (s *Storage) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	creature, ok := s.creatures[id]
	if !ok {
		return nil, model.ErrCreatureNotFound
	}
	return creature.Clone(), nil
}

func (s *Storage) ListCreatures(ctx context.Context, filter model.ChildFilter) ([]*model.Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Creature, 0)
	for _, id := range sortedKeys(s.creatures) {
		if c := s.creatures[id]; filter.MatchesWorld(c.WorldID) {
			result = append(result, c.Clone())
		}
	}
	return result, nil
}

func (s *Storage) CreateCreature(ctx context.Context, draft model.CreatureDraft) (*model.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creature := (&model.Creature{
		ID:            s.nextCreatureID,
		CreatureDraft: draft,
		CreatedAt:     s.clock.Now(),
	}).Clone()
	s.nextCreatureID++

	s.creatures[creature.ID] = creature
	s.adjustCreatureCount(creature.WorldID, 1)
	return creature.Clone(), nil
}

func (s *Storage) UpdateCreature(ctx context.Context, id model.CreatureID, patch model.CreaturePatch) (*model.Creature, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creature, ok := s.creatures[id]
	if !ok {
		return nil, model.ErrCreatureNotFound
	}
	if patch.WorldID != nil && s.lookupWorld(patch.WorldID) == nil {
		return nil, model.ErrWorldNotFound
	}

	before := creature.WorldID
	patch.Apply(creature)
	if !model.SameWorld(before, creature.WorldID) {
		s.adjustCreatureCount(before, -1)
		s.adjustCreatureCount(creature.WorldID, 1)
	}
	return creature.Clone(), nil
}

func (s *Storage) DeleteCreature(ctx context.Context, id model.CreatureID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creature, ok := s.creatures[id]
	if !ok {
		return false, nil
	}
	delete(s.creatures, id)
	s.adjustCreatureCount(creature.WorldID, -1)
	return true, nil
}

// Story operations

func (s *Storage) GetStory(ctx context.Context, id model.StoryID) (*model.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	story, ok := s.stories[id]
	if !ok {
		return nil, model.ErrStoryNotFound
	}
	return story.Clone(), nil
}

func (s *Storage) ListStories(ctx context.Context, filter model.ChildFilter) ([]*model.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Story, 0)
	for _, id := range sortedKeys(s.stories) {
		if st := s.stories[id]; filter.MatchesWorld(st.WorldID) {
			result = append(result, st.Clone())
		}
	}
	return result, nil
}

func (s *Storage) CreateStory(ctx context.Context, draft model.StoryDraft) (*model.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	story := (&model.Story{
		ID:         s.nextStoryID,
		StoryDraft: draft,
		CreatedAt:  s.clock.Now(),
	}).Clone()
	s.nextStoryID++

	s.stories[story.ID] = story
	s.adjustStoryCount(story.WorldID, 1)
	return story.Clone(), nil
}

func (s *Storage) UpdateStory(ctx context.Context, id model.StoryID, patch model.StoryPatch) (*model.Story, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, ok := s.stories[id]
	if !ok {
		return nil, model.ErrStoryNotFound
	}
	if patch.WorldID != nil && s.lookupWorld(patch.WorldID) == nil {
		return nil, model.ErrWorldNotFound
	}

	before := story.WorldID
	patch.Apply(story)
	if !model.SameWorld(before, story.WorldID) {
		s.adjustStoryCount(before, -1)
		s.adjustStoryCount(story.WorldID, 1)
	}
	return story.Clone(), nil
}

func (s *Storage) DeleteStory(ctx context.Context, id model.StoryID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	story, ok := s.stories[id]
	if !ok {
		return false, nil
	}
	delete(s.stories, id)
	s.adjustStoryCount(story.WorldID, -1)
	return true, nil
}

// Counter helpers; callers must hold the write lock.

func (s *Storage) adjustCreatureCount(id *model.WorldID, delta int) {
	if w := s.lookupWorld(id); w != nil {
		w.CreatureCount = max(w.CreatureCount+delta, 0)
	}
}

func (s *Storage) adjustStoryCount(id *model.WorldID, delta int) {
	if w := s.lookupWorld(id); w != nil {
		w.StoryCount = max(w.StoryCount+delta, 0)
	}
}

func (s *Storage) lookupWorld(id *model.WorldID) *model.World {
	if id == nil {
		return nil
	}
	return s.worlds[*id]
}

func sortedKeys[K ~int64, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
