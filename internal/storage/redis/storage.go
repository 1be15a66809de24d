package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/beantunes235/fantasyforge/internal/dependencies/clock"
	"github.com/beantunes235/fantasyforge/internal/dependencies/random"
	"github.com/beantunes235/fantasyforge/internal/model"
	"github.com/beantunes235/fantasyforge/internal/storage"
	"github.com/beantunes235/fantasyforge/internal/storage/stock"
)

// ErrTxContention is returned when an optimistic transaction keeps losing
// the race on its watched keys
var ErrTxContention = errors.New("redis transaction retries exhausted")

// Storage is a Redis-backed implementation of the content store
type Storage struct {
	client *redis.Client
	cfg    Config
	clock  clock.Clock
	images *stock.Images
}

// New creates a new Redis storage instance
func New(cfg Config, clk clock.Clock, rnd random.Random) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg, clk, rnd), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, clk clock.Clock, rnd random.Random) *Storage {
	if cfg.MaxTxRetries <= 0 {
		cfg.MaxTxRetries = DefaultConfig().MaxTxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		clock:  clk,
		images: stock.New(rnd),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.ContentStore = (*Storage)(nil)

func (s *Storage) RandomStockImage(category model.ImageCategory) string {
	return s.images.RandomStockImage(category)
}

// User operations

func (s *Storage) CreateUser(ctx context.Context, nu model.NewUser) (*model.User, error) {
	id, err := s.client.Incr(ctx, sequenceKey("user")).Result()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           model.UserID(id),
		Username:     nu.Username,
		PasswordHash: nu.PasswordHash,
		Email:        nu.Email,
		CreatedAt:    s.clock.Now(),
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, err
	}

	watched := []string{usernameIndexKey(nu.Username)}
	if nu.Email != "" {
		watched = append(watched, emailIndexKey(nu.Email))
	}

	err = s.watch(ctx, func(tx *redis.Tx) error {
		if taken, err := exists(ctx, tx, usernameIndexKey(nu.Username)); err != nil {
			return err
		} else if taken {
			return model.ErrUsernameExists
		}
		if nu.Email != "" {
			if taken, err := exists(ctx, tx, emailIndexKey(nu.Email)); err != nil {
				return err
			} else if taken {
				return model.ErrEmailExists
			}
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(user.ID), data, 0)
			pipe.Set(ctx, usernameIndexKey(user.Username), id, 0)
			if user.Email != "" {
				pipe.Set(ctx, emailIndexKey(user.Email), id, 0)
			}
			return nil
		})
		return err
	}, watched...)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	user, err := readJSON[model.User](ctx, s.client, userKey(id))
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrUserNotFound
	}
	return user, err
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	id, err := s.client.Get(ctx, usernameIndexKey(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(id))
}

// World operations

func (s *Storage) GetWorld(ctx context.Context, id model.WorldID) (*model.World, error) {
	world, err := readJSON[model.World](ctx, s.client, worldKey(id))
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrWorldNotFound
	}
	return world, err
}

func (s *Storage) ListWorlds(ctx context.Context, filter model.WorldFilter) ([]*model.World, error) {
	ids, err := s.client.ZRange(ctx, worldsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt world index entry %q: %w", raw, err)
		}
		keys[i] = worldKey(model.WorldID(id))
	}

	worlds, err := readAllJSON[model.World](ctx, s.client, keys)
	if err != nil {
		return nil, err
	}

	result := make([]*model.World, 0, len(worlds))
	for _, w := range worlds {
		if filter.Matches(w) {
			result = append(result, w)
		}
	}
	return result, nil
}

func (s *Storage) CreateWorld(ctx context.Context, draft model.WorldDraft) (*model.World, error) {
	id, err := s.client.Incr(ctx, sequenceKey("world")).Result()
	if err != nil {
		return nil, err
	}

	world := &model.World{
		ID:         model.WorldID(id),
		WorldDraft: draft,
		CreatedAt:  s.clock.Now(),
	}
	data, err := json.Marshal(world)
	if err != nil {
		return nil, err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, worldKey(world.ID), data, 0)
		pipe.ZAdd(ctx, worldsIndexKey(), redis.Z{Score: float64(id), Member: id})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return world.Clone(), nil
}

func (s *Storage) UpdateWorld(ctx context.Context, id model.WorldID, patch model.WorldPatch) (*model.World, error) {
	var updated *model.World
	key := worldKey(id)

	err := s.watch(ctx, func(tx *redis.Tx) error {
		world, err := readJSON[model.World](ctx, tx, key)
		if errors.Is(err, redis.Nil) {
			return model.ErrWorldNotFound
		}
		if err != nil {
			return err
		}

		patch.Apply(world)
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			return setJSON(ctx, pipe, key, world)
		})
		updated = world
		return err
	}, key)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Storage) DeleteWorld(ctx context.Context, id model.WorldID) (bool, error) {
	var deleted bool
	key := worldKey(id)

	err := s.watch(ctx, func(tx *redis.Tx) error {
		deleted = false
		found, err := exists(ctx, tx, key)
		if err != nil || !found {
			return err
		}

		// Children are detached rather than removed
		detached := make(map[string][]byte)
		for _, kind := range childKinds {
			index := worldChildIndexKey(kind, id)
			if err := tx.Watch(ctx, index).Err(); err != nil {
				return err
			}
			ids, err := tx.ZRange(ctx, index, 0, -1).Result()
			if err != nil {
				return err
			}
			for _, raw := range ids {
				childID, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return fmt.Errorf("corrupt %s index entry %q: %w", kind, raw, err)
				}
				ck := childKey(kind, childID)
				if err := tx.Watch(ctx, ck).Err(); err != nil {
					return err
				}
				data, err := tx.Get(ctx, ck).Bytes()
				if errors.Is(err, redis.Nil) {
					continue
				}
				if err != nil {
					return err
				}
				if detached[ck], err = clearWorldRef(data); err != nil {
					return err
				}
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, worldsIndexKey(), int64(id))
			for _, kind := range childKinds {
				pipe.Del(ctx, worldChildIndexKey(kind, id))
			}
			for ck, data := range detached {
				pipe.Set(ctx, ck, data, 0)
			}
			return nil
		})
		deleted = err == nil
		return err
	}, key)
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// Creature operations

func (s *Storage) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	creature, err := readJSON[model.Creature](ctx, s.client, childKey(kindCreature, int64(id)))
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrCreatureNotFound
	}
	return creature, err
}

func (s *Storage) ListCreatures(ctx context.Context, filter model.ChildFilter) ([]*model.Creature, error) {
	return listChildren[model.Creature](ctx, s, kindCreature, filter)
}

func (s *Storage) CreateCreature(ctx context.Context, draft model.CreatureDraft) (*model.Creature, error) {
	id, err := s.client.Incr(ctx, sequenceKey(kindCreature)).Result()
	if err != nil {
		return nil, err
	}

	creature := (&model.Creature{
		ID:            model.CreatureID(id),
		CreatureDraft: draft,
		CreatedAt:     s.clock.Now(),
	}).Clone()
	data, err := json.Marshal(creature)
	if err != nil {
		return nil, err
	}

	if err := s.createChild(ctx, kindCreature, id, creature.WorldID, data); err != nil {
		return nil, err
	}
	return creature, nil
}

func (s *Storage) UpdateCreature(ctx context.Context, id model.CreatureID, patch model.CreaturePatch) (*model.Creature, error) {
	var updated model.Creature
	err := s.updateChild(ctx, kindCreature, int64(id), patch.WorldID, func(data []byte) ([]byte, error) {
		if err := json.Unmarshal(data, &updated); err != nil {
			return nil, err
		}
		patch.Apply(&updated)
		return json.Marshal(&updated)
	})
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrCreatureNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) DeleteCreature(ctx context.Context, id model.CreatureID) (bool, error) {
	return s.deleteChild(ctx, kindCreature, int64(id))
}

// Story operations

func (s *Storage) GetStory(ctx context.Context, id model.StoryID) (*model.Story, error) {
	story, err := readJSON[model.Story](ctx, s.client, childKey(kindStory, int64(id)))
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrStoryNotFound
	}
	return story, err
}

func (s *Storage) ListStories(ctx context.Context, filter model.ChildFilter) ([]*model.Story, error) {
	return listChildren[model.Story](ctx, s, kindStory, filter)
}

func (s *Storage) CreateStory(ctx context.Context, draft model.StoryDraft) (*model.Story, error) {
	id, err := s.client.Incr(ctx, sequenceKey(kindStory)).Result()
	if err != nil {
		return nil, err
	}

	story := (&model.Story{
		ID:         model.StoryID(id),
		StoryDraft: draft,
		CreatedAt:  s.clock.Now(),
	}).Clone()
	data, err := json.Marshal(story)
	if err != nil {
		return nil, err
	}

	if err := s.createChild(ctx, kindStory, id, story.WorldID, data); err != nil {
		return nil, err
	}
	return story, nil
}

func (s *Storage) UpdateStory(ctx context.Context, id model.StoryID, patch model.StoryPatch) (*model.Story, error) {
	var updated model.Story
	err := s.updateChild(ctx, kindStory, int64(id), patch.WorldID, func(data []byte) ([]byte, error) {
		if err := json.Unmarshal(data, &updated); err != nil {
			return nil, err
		}
		patch.Apply(&updated)
		return json.Marshal(&updated)
	})
	if errors.Is(err, redis.Nil) {
		return nil, model.ErrStoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *Storage) DeleteStory(ctx context.Context, id model.StoryID) (bool, error) {
	return s.deleteChild(ctx, kindStory, int64(id))
}

// watch runs fn inside WATCH/MULTI on keys, retrying when a watched key changes
func (s *Storage) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < s.cfg.MaxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrTxContention
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// readJSON loads and decodes key; a missing key surfaces as redis.Nil
func readJSON[T any](ctx context.Context, g getter, key string) (*T, error) {
	data, err := g.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// readAllJSON loads keys in one MGET, skipping keys that no longer exist
func readAllJSON[T any](ctx context.Context, client *redis.Client, keys []string) ([]*T, error) {
	if len(keys) == 0 {
		return []*T{}, nil
	}

	values, err := client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*T, 0, len(values))
	for _, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		var v T
		if err := json.Unmarshal([]byte(str), &v); err != nil {
			return nil, err
		}
		result = append(result, &v)
	}
	return result, nil
}

func setJSON(ctx context.Context, pipe redis.Pipeliner, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pipe.Set(ctx, key, data, 0)
	return nil
}

func exists(ctx context.Context, tx *redis.Tx, key string) (bool, error) {
	n, err := tx.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
