package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const creatureColumns = `id, name, description, type, power_level, intelligence, speed, magic,
	abilities, image_url, world_id, created_at`

func (s *Store) GetCreature(ctx context.Context, id model.CreatureID) (*model.Creature, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+creatureColumns+` FROM creatures WHERE id = ?`, int64(id))
	return scanCreature(row)
}

func (s *Store) ListCreatures(ctx context.Context, filter model.ChildFilter) ([]*model.Creature, error) {
	query := `SELECT ` + creatureColumns + ` FROM creatures`
	var args []any
	if filter.WorldID != nil {
		query += ` WHERE world_id = ?`
		args = append(args, int64(*filter.WorldID))
	}
	query += ` ORDER BY id`

	return listRows(ctx, s.sqlDB, query, args, scanCreature)
}

func (s *Store) CreateCreature(ctx context.Context, draft model.CreatureDraft) (*model.Creature, error) {
	creature := (&model.Creature{CreatureDraft: draft, CreatedAt: fromMillis(toMillis(s.clock.Now()))}).Clone()
	abilities, err := encodeList(creature.Abilities)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO creatures (name, description, type, power_level, intelligence, speed, magic,
			   abilities, image_url, world_id, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			creature.Name, creature.Description, creature.Type, creature.PowerLevel, creature.Intelligence,
			creature.Speed, creature.Magic, abilities, creature.ImageURL, nullableID(creature.WorldID),
			toMillis(creature.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("create creature: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create creature: %w", err)
		}
		creature.ID = model.CreatureID(id)
		return adjustWorldCount(ctx, tx, "creature_count", creature.WorldID, 1)
	})
	if err != nil {
		return nil, err
	}
	return creature, nil
}

func (s *Store) UpdateCreature(ctx context.Context, id model.CreatureID, patch model.CreaturePatch) (*model.Creature, error) {
	var creature *model.Creature
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		creature, err = scanCreature(tx.QueryRowContext(ctx, `SELECT `+creatureColumns+` FROM creatures WHERE id = ?`, int64(id)))
		if err != nil {
			return err
		}

		if err := requireWorld(ctx, tx, patch.WorldID); err != nil {
			return err
		}

		before := creature.WorldID
		patch.Apply(creature)

		abilities, err := encodeList(creature.Abilities)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE creatures SET name = ?, description = ?, type = ?, power_level = ?, intelligence = ?,
			   speed = ?, magic = ?, abilities = ?, image_url = ?, world_id = ?
			 WHERE id = ?`,
			creature.Name, creature.Description, creature.Type, creature.PowerLevel, creature.Intelligence,
			creature.Speed, creature.Magic, abilities, creature.ImageURL, nullableID(creature.WorldID), int64(id),
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
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var worldID sql.NullInt64
		err := tx.QueryRowContext(ctx, `DELETE FROM creatures WHERE id = ? RETURNING world_id`, int64(id)).Scan(&worldID)
		if errors.Is(err, sql.ErrNoRows) {
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

func scanCreature(row rowScanner) (*model.Creature, error) {
	var (
		creature  model.Creature
		abilities string
		worldID   sql.NullInt64
		createdAt int64
	)
	err := row.Scan(
		&creature.ID, &creature.Name, &creature.Description, &creature.Type, &creature.PowerLevel,
		&creature.Intelligence, &creature.Speed, &creature.Magic, &abilities, &creature.ImageURL,
		&worldID, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrCreatureNotFound
		}
		return nil, fmt.Errorf("scan creature: %w", err)
	}

	if creature.Abilities, err = decodeList[string](abilities); err != nil {
		return nil, err
	}
	creature.WorldID = fromNullable[model.WorldID](worldID)
	creature.CreatedAt = fromMillis(createdAt)
	return &creature, nil
}

func listRows[T any](ctx context.Context, q queryer, query string, args []any, scan func(rowScanner) (*T, error)) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	defer rows.Close()

	result := make([]*T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return result, nil
}
