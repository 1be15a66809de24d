package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const storyColumns = `id, title, content, theme, protagonist, setting, plot_elements, world_id, creature_ids, created_at`

func (s *Store) GetStory(ctx context.Context, id model.StoryID) (*model.Story, error) {
	return scanStory(s.pool.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1`, int64(id)))
}

func (s *Store) ListStories(ctx context.Context, filter model.ChildFilter) ([]*model.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories`
	var args []any
	if filter.WorldID != nil {
		query += ` WHERE world_id = $1`
		args = append(args, int64(*filter.WorldID))
	}
	query += ` ORDER BY id`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return collect(rows, scanStory)
}

func (s *Store) CreateStory(ctx context.Context, draft model.StoryDraft) (*model.Story, error) {
	var story *model.Story
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		story, err = scanStory(tx.QueryRow(ctx,
			`INSERT INTO stories (title, content, theme, protagonist, setting, plot_elements, world_id,
			   creature_ids, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING `+storyColumns,
			draft.Title, draft.Content, draft.Theme, draft.Protagonist, draft.Setting,
			nonNil(draft.PlotElements), nullableID(draft.WorldID), creatureIDs(draft.CreatureIDs), s.clock.Now(),
		))
		if err != nil {
			return fmt.Errorf("create story: %w", err)
		}
		return adjustWorldCount(ctx, tx, "story_count", story.WorldID, 1)
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

func (s *Store) UpdateStory(ctx context.Context, id model.StoryID, patch model.StoryPatch) (*model.Story, error) {
	var story *model.Story
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		story, err = scanStory(tx.QueryRow(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = $1 FOR UPDATE`, int64(id)))
		if err != nil {
			return err
		}

		if err := requireWorld(ctx, tx, patch.WorldID); err != nil {
			return err
		}

		before := story.WorldID
		patch.Apply(story)

		_, err = tx.Exec(ctx,
			`UPDATE stories SET title = $1, content = $2, theme = $3, protagonist = $4, setting = $5,
			   plot_elements = $6, world_id = $7, creature_ids = $8
			 WHERE id = $9`,
			story.Title, story.Content, story.Theme, story.Protagonist, story.Setting,
			nonNil(story.PlotElements), nullableID(story.WorldID), creatureIDs(story.CreatureIDs), int64(id),
		)
		if err != nil {
			return fmt.Errorf("update story: %w", err)
		}

		if model.SameWorld(before, story.WorldID) {
			return nil
		}
		if err := adjustWorldCount(ctx, tx, "story_count", before, -1); err != nil {
			return err
		}
		return adjustWorldCount(ctx, tx, "story_count", story.WorldID, 1)
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

func (s *Store) DeleteStory(ctx context.Context, id model.StoryID) (bool, error) {
	var deleted bool
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var worldID *int64
		err := tx.QueryRow(ctx, `DELETE FROM stories WHERE id = $1 RETURNING world_id`, int64(id)).Scan(&worldID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("delete story: %w", err)
		}
		deleted = true
		return adjustWorldCount(ctx, tx, "story_count", fromNullable[model.WorldID](worldID), -1)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func creatureIDs(ids []model.CreatureID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}

func scanStory(row pgx.Row) (*model.Story, error) {
	var (
		id        int64
		story     model.Story
		worldID   *int64
		creatures []int64
		createdAt time.Time
	)
	err := row.Scan(
		&id, &story.Title, &story.Content, &story.Theme, &story.Protagonist, &story.Setting,
		&story.PlotElements, &worldID, &creatures, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrStoryNotFound
		}
		return nil, err
	}
	story.ID = model.StoryID(id)
	story.WorldID = fromNullable[model.WorldID](worldID)
	story.CreatureIDs = make([]model.CreatureID, len(creatures))
	for i, c := range creatures {
		story.CreatureIDs[i] = model.CreatureID(c)
	}
	story.CreatedAt = createdAt
	return &story, nil
}
