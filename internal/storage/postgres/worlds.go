package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const worldColumns = `id, name, description, type, magic_system, geography, magic, inhabitants,
	history, region, regions, image_url, creature_count, story_count, featured, owner_user_id, created_at`

func (s *Store) GetWorld(ctx context.Context, id model.WorldID) (*model.World, error) {
	return scanWorld(s.pool.QueryRow(ctx, `SELECT `+worldColumns+` FROM worlds WHERE id = $1`, int64(id)))
}

func (s *Store) ListWorlds(ctx context.Context, filter model.WorldFilter) ([]*model.World, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Featured != nil {
		args = append(args, *filter.Featured)
		clauses = append(clauses, fmt.Sprintf("featured = $%d", len(args)))
	}
	if filter.OwnerUserID != nil {
		args = append(args, int64(*filter.OwnerUserID))
		clauses = append(clauses, fmt.Sprintf("owner_user_id = $%d", len(args)))
	}

	query := `SELECT ` + worldColumns + ` FROM worlds`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list worlds: %w", err)
	}
	return collect(rows, scanWorld)
}

func (s *Store) CreateWorld(ctx context.Context, draft model.WorldDraft) (*model.World, error) {
	row := s.pool.QueryRow(ctx,
		`INSERT INTO worlds (name, description, type, magic_system, geography, magic, inhabitants,
		   history, region, regions, image_url, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+worldColumns,
		draft.Name, draft.Description, draft.Type, draft.MagicSystem, draft.Geography, draft.Magic,
		draft.Inhabitants, draft.History, draft.Region, nonNil(draft.Regions), draft.ImageURL, s.clock.Now(),
	)
	world, err := scanWorld(row)
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}
	return world, nil
}

func (s *Store) UpdateWorld(ctx context.Context, id model.WorldID, patch model.WorldPatch) (*model.World, error) {
	var world *model.World
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		world, err = scanWorld(tx.QueryRow(ctx, `SELECT `+worldColumns+` FROM worlds WHERE id = $1 FOR UPDATE`, int64(id)))
		if err != nil {
			return err
		}
		patch.Apply(world)

		_, err = tx.Exec(ctx,
			`UPDATE worlds SET name = $1, description = $2, type = $3, magic_system = $4, geography = $5,
			   magic = $6, inhabitants = $7, history = $8, region = $9, regions = $10, image_url = $11,
			   featured = $12, owner_user_id = $13
			 WHERE id = $14`,
			world.Name, world.Description, world.Type, world.MagicSystem, world.Geography,
			world.Magic, world.Inhabitants, world.History, world.Region, nonNil(world.Regions), world.ImageURL,
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
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM worlds WHERE id = $1`, int64(id))
		if err != nil {
			return fmt.Errorf("delete world: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}
		deleted = true

		if _, err := tx.Exec(ctx, `UPDATE creatures SET world_id = NULL WHERE world_id = $1`, int64(id)); err != nil {
			return fmt.Errorf("detach creatures: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE stories SET world_id = NULL WHERE world_id = $1`, int64(id)); err != nil {
			return fmt.Errorf("detach stories: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func scanWorld(row pgx.Row) (*model.World, error) {
	var (
		id        int64
		world     model.World
		owner     *int64
		createdAt time.Time
	)
	err := row.Scan(
		&id, &world.Name, &world.Description, &world.Type, &world.MagicSystem, &world.Geography,
		&world.Magic, &world.Inhabitants, &world.History, &world.Region, &world.Regions, &world.ImageURL,
		&world.CreatureCount, &world.StoryCount, &world.Featured, &owner, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWorldNotFound
		}
		return nil, err
	}
	world.ID = model.WorldID(id)
	world.OwnerUserID = fromNullable[model.UserID](owner)
	world.CreatedAt = createdAt
	return &world, nil
}
