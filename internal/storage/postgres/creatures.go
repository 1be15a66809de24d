package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const creatureColumns = `id, name, description, type, power_level, intelligence, speed, magic,
	abilities, image_url, world_id, created_at`

func (s *Store) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	return scanCreature(s.pool.QueryRow(ctx, `SELECT `+creatureColumns+` FROM creatures WHERE id = $1`, int64(id)))
}

func (s *Store) ListCreatures(ctx context.Context, filter model.ChildFilter) ([]*model.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures`
	var args []any
	if filter.WorldID != nil {
		query += ` WHERE world_id = $1`
		args = append(args, int64(*filter.WorldID))
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list creatures: %w", err)
	}
	return collect(rows, scanCreature)
}

func (s *Store) CreateCreature(ctx context.Context, draft model.CreatureDraft) (*model.Creature, error) {
	var creature *model.Creature
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		creature, err = scanCreature(tx.QueryRow(ctx,
			`INSERT INTO creatures (name, description, type, power_level, intelligence, speed, magic,
			   abilities, image_url, world_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 RETURNING `+creatureColumns,
			draft.Name, draft.Description, draft.Type, draft.PowerLevel, draft.Intelligence,
			draft.Speed, draft.Magic, nonNil(draft.Abilities), draft.ImageURL, nullableID(draft.WorldID),
			s.clock.Now(),
		))
		if err != nil {
			return fmt.Errorf("create creature: %w", err)
		}
		return adjustWorldCount(ctx, tx, "creature_count", creature.WorldID, 1)
	})
	if err != nil {
		return nil, err
	}
	return creature, nil
}

func (s *Store) UpdateCreature(ctx context.Context, id model.CreatureID, patch model.CreaturePatch) (*model.Creature, error) {
	var creature *model.Creature
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		creature, err = scanCreature(tx.QueryRow(ctx, `SELECT `+creatureColumns+` FROM creatures WHERE id = $1 FOR UPDATE`, int64(id)))
		if err != nil {
			return err
		}

		if err := requireWorld(ctx, tx, patch.WorldID); err != nil {
			return err
		}

		before := creature.WorldID
		patch.Apply(creature)

		_, err = tx.Exec(ctx,
			`UPDATE creatures SET name = $1, description = $2, type = $3, power_level = $4, intelligence = $5,
			   speed = $6, magic = $7, abilities = $8, image_url = $9, world_id = $10
			 WHERE id = $11`,
			creature.Name, creature.Description, creature.Type, creature.PowerLevel, creature.Intelligence,
			creature.Speed, creature.Magic, nonNil(creature.Abilities), creature.ImageURL,
			nullableID(creature.WorldID), int64(id),
		)
		if err != nil {
			return fmt.Errorf("update creature: %w", err)
		}

		if model.SameWorld(before, creature.WorldID) {
			return nil
		}
		if err := adjustWorldCount(ctx, tx, "creature_count", before, -1); err != nil {
			return err
		}
		return adjustWorldCount(ctx, tx, "creature_count", creature.WorldID, 1)
	})
	if err != nil {
		return nil, err
	}
	return creature, nil
}

func (s *Store) DeleteCreature(ctx context.Context, id model.CreatureID) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var worldID *int64
		err := tx.QueryRow(ctx, `DELETE FROM creatures WHERE id = $1 RETURNING world_id`, int64(id)).Scan(&worldID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("delete creature: %w", err)
		}
		deleted = true
		return adjustWorldCount(ctx, tx, "creature_count", fromNullable[model.WorldID](worldID), -1)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func scanCreature(row pgx.Row) (*model.Creature, error) {
	var (
		id        int64
		creature  model.Creature
		worldID   *int64
		createdAt time.Time
	)
	err := row.Scan(
		&id, &creature.Name, &creature.Description, &creature.Type, &creature.PowerLevel,
		&creature.Intelligence, &creature.Speed, &creature.Magic, &creature.Abilities, &creature.ImageURL,
		&worldID, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCreatureNotFound
		}
		return nil, err
	}
	creature.ID = model.CreatureID(id)
	creature.WorldID = fromNullable[model.WorldID](worldID)
	creature.CreatedAt = createdAt
	return &creature, nil
}
