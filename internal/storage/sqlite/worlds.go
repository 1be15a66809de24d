package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const worldColumns = `id, name, description, type, magic_system, geography, magic, inhabitants,
	history, region, regions, image_url, creature_count, story_count, featured, owner_user_id, created_at`

func (s *Store) GetWorld(ctx context.Context, id model.WorldID) (*model.World, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+worldColumns+` FROM worlds WHERE id = ?`, int64(id))
	return scanWorld(row)
}

func (s *Store) ListWorlds(ctx context.Context, filter model.WorldFilter) ([]*model.World, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Featured != nil {
		clauses = append(clauses, "featured = ?")
		args = append(args, *filter.Featured)
	}
	if filter.OwnerUserID != nil {
		clauses = append(clauses, "owner_user_id = ?")
		args = append(args, int64(*filter.OwnerUserID))
	}

	query := `SELECT ` + worldColumns + ` FROM worlds`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	defer rows.Close()

	worlds := make([]*model.World, 0)
	for rows.Next() {
		world, err := scanWorld(rows)
		if err != nil {
			return nil, err
		}
		worlds = append(worlds, world)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	return worlds, nil
}

func (s *Store) CreateWorld(ctx context.Context, draft model.WorldDraft) (*model.World, error) {
	world := &model.World{WorldDraft: draft, CreatedAt: fromMillis(toMillis(s.clock.Now()))}
	world.Regions = append([]string(nil), draft.Regions...)

	regions, err := encodeList(world.Regions)
	if err != nil {
		return nil, err
	}

	res, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO worlds (name, description, type, magic_system, geography, magic, inhabitants,
		   history, region, regions, image_url, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.Name, draft.Description, draft.Type, draft.MagicSystem, draft.Geography, draft.Magic,
		draft.Inhabitants, draft.History, draft.Region, regions, draft.ImageURL, toMillis(world.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	world.ID = model.WorldID(id)
	return world, nil
}

func (s *Store) UpdateWorld(ctx context.Context, id model.WorldID, patch model.WorldPatch) (*model.World, error) {
	var world *model.World
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		world, err = scanWorld(tx.QueryRowContext(ctx, `SELECT `+worldColumns+` FROM worlds WHERE id = ?`, int64(id)))
		if err != nil {
			return err
		}
		patch.Apply(world)

		regions, err := encodeList(world.Regions)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE worlds SET name = ?, description = ?, type = ?, magic_system = ?, geography = ?,
			   magic = ?, inhabitants = ?, history = ?, region = ?, regions = ?, image_url = ?,
			   featured = ?, owner_user_id = ?
			 WHERE id = ?`,
			world.Name, world.Description, world.Type, world.MagicSystem, world.Geography,
			world.Magic, world.Inhabitants, world.History, world.Region, regions, world.ImageURL,
			world.Featured, nullableID(world.OwnerUserID), int64(id),
		)
		if err != nil {
			return fmt.Errorf("update world: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return world, nil
}

// DeleteWorld removes the world and detaches its creatures and stories.
func (s *Store) DeleteWorld(ctx context.Context, id model.WorldID) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM worlds WHERE id = ?`, int64(id))
		if err != nil {
			return fmt.Errorf("delete world: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil || n == 0 {
			return err
		}
		deleted = true

		if _, err := tx.ExecContext(ctx, `UPDATE creatures SET world_id = NULL WHERE world_id = ?`, int64(id)); err != nil {
			return fmt.Errorf("detach creatures: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE stories SET world_id = NULL WHERE world_id = ?`, int64(id)); err != nil {
			return fmt.Errorf("detach stories: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func scanWorld(row rowScanner) (*model.World, error) {
	var (
		world     model.World
		regions   string
		owner     sql.NullInt64
		createdAt int64
	)
	err := row.Scan(
		&world.ID, &world.Name, &world.Description, &world.Type, &world.MagicSystem, &world.Geography,
		&world.Magic, &world.Inhabitants, &world.History, &world.Region, &regions, &world.ImageURL,
		&world.CreatureCount, &world.StoryCount, &world.Featured, &owner, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrWorldNotFound
		}
		return nil, fmt.Errorf("scan world: %w", err)
	}

	if world.Regions, err = decodeList[string](regions); err != nil {
		return nil, err
	}
	world.OwnerUserID = fromNullable[model.UserID](owner)
	world.CreatedAt = fromMillis(createdAt)
	return &world, nil
}

// requireWorld fails with ErrWorldNotFound when id names no world. A nil id passes.
func requireWorld(ctx context.Context, tx *sql.Tx, id *model.WorldID) error {
	if id == nil {
		return nil
	}
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM worlds WHERE id = ?`, int64(*id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrWorldNotFound
	}
	if err != nil {
		return fmt.Errorf("check world: %w", err)
	}
	return nil
}

// adjustWorldCount moves a counter column on the referenced world, flooring at zero.
// A missing world is skipped.
func adjustWorldCount(ctx context.Context, tx *sql.Tx, column string, id *model.WorldID, delta int) error {
	if id == nil || delta == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE worlds SET `+column+` = MAX(`+column+` + ?, 0) WHERE id = ?`,
		delta, int64(*id),
	)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", column, err)
	}
	return nil
}
