package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beantunes235/fantasyforge/internal/model"
)

const storyColumns = `id, title, content, theme, protagonist, setting, plot_elements, world_id, creature_ids, created_at`

func (s *Store) GetStory(ctx context.Context, id model.StoryID) (*model.Story, error) {
	row := s.sqlDB.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, int64(id))
	return scanStory(row)
}

func (s *Store) ListStories(ctx context.Context, filter model.ChildFilter) ([]*model.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories`
	var args []any
	if filter.WorldID != nil {
		query += ` WHERE world_id = ?`
		args = append(args, int64(*filter.WorldID))
	}
	query += ` ORDER BY id`

	return listRows(ctx, s.sqlDB, query, args, scanStory)
}

func (s *Store) CreateStory(ctx context.Context, draft model.StoryDraft) (*model.Story, error) {
	story := (&model.Story{StoryDraft: draft, CreatedAt: fromMillis(toMillis(s.clock.Now()))}).Clone()
	plot, creatures, err := encodeStoryLists(story)
	if err != nil {
		return nil, err
	}

	err = s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO stories (title, content, theme, protagonist, setting, plot_elements, world_id,
			   creature_ids, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			story.Title, story.Content, story.Theme, story.Protagonist, story.Setting, plot,
			nullableID(story.WorldID), creatures, toMillis(story.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("create story: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("create story: %w", err)
		}
		story.ID = model.StoryID(id)
		return adjustWorldCount(ctx, tx, "story_count", story.WorldID, 1)
	})
	if err != nil {
		return nil, err
	}
	return story, nil
}

func (s *Store) UpdateStory(ctx context.Context, id model.StoryID, patch model.StoryPatch) (*model.Story, error) {
	var story *model.Story
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		story, err = scanStory(tx.QueryRowContext(ctx, `SELECT `+storyColumns+` FROM stories WHERE id = ?`, int64(id)))
		if err != nil {
			return err
		}

		if err := requireWorld(ctx, tx, patch.WorldID); err != nil {
			return err
		}

		before := story.WorldID
		patch.Apply(story)

		plot, creatures, err := encodeStoryLists(story)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE stories SET title = ?, content = ?, theme = ?, protagonist = ?, setting = ?,
			   plot_elements = ?, world_id = ?, creature_ids = ?
			 WHERE id = ?`,
			story.Title, story.Content, story.Theme, story.Protagonist, story.Setting,
			plot, nullableID(story.WorldID), creatures, int64(id),
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
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var worldID sql.NullInt64
		err := tx.QueryRowContext(ctx, `DELETE FROM stories WHERE id = ? RETURNING world_id`, int64(id)).Scan(&worldID)
		if errors.Is(err, sql.ErrNoRows) {
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

func encodeStoryLists(story *model.Story) (plot string, creatures string, err error) {
	if plot, err = encodeList(story.PlotElements); err != nil {
		return "", "", err
	}
	if creatures, err = encodeList(story.CreatureIDs); err != nil {
		return "", "", err
	}
	return plot, creatures, nil
}

func scanStory(row rowScanner) (*model.Story, error) {
	var (
		story     model.Story
		plot      string
		creatures string
		worldID   sql.NullInt64
		createdAt int64
	)
	err := row.Scan(
		&story.ID, &story.Title, &story.Content, &story.Theme, &story.Protagonist, &story.Setting,
		&plot, &worldID, &creatures, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrStoryNotFound
		}
		return nil, fmt.Errorf("scan story: %w", err)
	}

	if story.PlotElements, err = decodeList[string](plot); err != nil {
		return nil, err
	}
	if story.CreatureIDs, err = decodeList[model.CreatureID](creatures); err != nil {
		return nil, err
	}
	story.WorldID = fromNullable[model.WorldID](worldID)
	story.CreatedAt = fromMillis(createdAt)
	return &story, nil
}
