package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/beantunes235/fantasyforge/internal/model"
)

// Creatures and stories share a layout: a JSON value per child, a global id
// index and a per-world id index. The owning world's counter moves in the
// same MULTI as the child write.
const (
	kindCreature = "creature"
	kindStory    = "story"
)

var childKinds = []string{kindCreature, kindStory}

// childRef is the part of a stored creature or story needed for bookkeeping
type childRef struct {
	WorldID *model.WorldID
}

func worldRef(data []byte) (*model.WorldID, error) {
	var ref childRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return ref.WorldID, nil
}

// clearWorldRef rewrites a stored child with its world reference removed
func clearWorldRef(data []byte) ([]byte, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["WorldID"] = json.RawMessage("null")
	return json.Marshal(fields)
}

func adjustCount(kind string, w *model.World, delta int) {
	switch kind {
	case kindCreature:
		w.CreatureCount = max(w.CreatureCount+delta, 0)
	case kindStory:
		w.StoryCount = max(w.StoryCount+delta, 0)
	}
}

// loadWorld watches and reads the referenced world; nil when absent
func loadWorld(ctx context.Context, tx *redis.Tx, id *model.WorldID) (*model.World, error) {
	if id == nil {
		return nil, nil
	}
	key := worldKey(*id)
	if err := tx.Watch(ctx, key).Err(); err != nil {
		return nil, err
	}
	world, err := readJSON[model.World](ctx, tx, key)
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return world, err
}

func (s *Storage) createChild(ctx context.Context, kind string, id int64, worldID *model.WorldID, data []byte) error {
	return s.watch(ctx, func(tx *redis.Tx) error {
		world, err := loadWorld(ctx, tx, worldID)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			member := redis.Z{Score: float64(id), Member: id}
			pipe.Set(ctx, childKey(kind, id), data, 0)
			pipe.ZAdd(ctx, childIndexKey(kind), member)
			if worldID != nil {
				pipe.ZAdd(ctx, worldChildIndexKey(kind, *worldID), member)
			}
			if world != nil {
				adjustCount(kind, world, 1)
				return setJSON(ctx, pipe, worldKey(world.ID), world)
			}
			return nil
		})
		return err
	})
}

// updateChild rewrites a child through mutate and moves counters when its
// world reference changes. A missing child surfaces as redis.Nil. A non-nil
// target must name an existing world; it stays watched until EXEC so a
// concurrent world delete forces a retry.
func (s *Storage) updateChild(ctx context.Context, kind string, id int64, target *model.WorldID, mutate func(data []byte) ([]byte, error)) error {
	key := childKey(kind, id)

	return s.watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return err
		}
		if target != nil {
			world, err := loadWorld(ctx, tx, target)
			if err != nil {
				return err
			}
			if world == nil {
				return model.ErrWorldNotFound
			}
		}
		before, err := worldRef(data)
		if err != nil {
			return err
		}

		updated, err := mutate(data)
		if err != nil {
			return err
		}
		after, err := worldRef(updated)
		if err != nil {
			return err
		}

		moved := !model.SameWorld(before, after)
		var oldWorld, newWorld *model.World
		if moved {
			if oldWorld, err = loadWorld(ctx, tx, before); err != nil {
				return err
			}
			if newWorld, err = loadWorld(ctx, tx, after); err != nil {
				return err
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			if !moved {
				return nil
			}
			if before != nil {
				pipe.ZRem(ctx, worldChildIndexKey(kind, *before), id)
			}
			if after != nil {
				pipe.ZAdd(ctx, worldChildIndexKey(kind, *after), redis.Z{Score: float64(id), Member: id})
			}
			if oldWorld != nil {
				adjustCount(kind, oldWorld, -1)
				if err := setJSON(ctx, pipe, worldKey(oldWorld.ID), oldWorld); err != nil {
					return err
				}
			}
			if newWorld != nil {
				adjustCount(kind, newWorld, 1)
				return setJSON(ctx, pipe, worldKey(newWorld.ID), newWorld)
			}
			return nil
		})
		return err
	}, key)
}

func (s *Storage) deleteChild(ctx context.Context, kind string, id int64) (bool, error) {
	var deleted bool
	key := childKey(kind, id)

	err := s.watch(ctx, func(tx *redis.Tx) error {
		deleted = false
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		ref, err := worldRef(data)
		if err != nil {
			return err
		}
		world, err := loadWorld(ctx, tx, ref)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.ZRem(ctx, childIndexKey(kind), id)
			if ref != nil {
				pipe.ZRem(ctx, worldChildIndexKey(kind, *ref), id)
			}
			if world != nil {
				adjustCount(kind, world, -1)
				return setJSON(ctx, pipe, worldKey(world.ID), world)
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

func listChildren[T any](ctx context.Context, s *Storage, kind string, filter model.ChildFilter) ([]*T, error) {
	index := childIndexKey(kind)
	if filter.WorldID != nil {
		index = worldChildIndexKey(kind, *filter.WorldID)
	}

	ids, err := s.client.ZRange(ctx, index, 0, -1).Result()
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt %s index entry %q: %w", kind, raw, err)
		}
		keys[i] = childKey(kind, id)
	}
	return readAllJSON[T](ctx, s.client, keys)
}
