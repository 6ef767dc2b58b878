package sqlite

import (
	"context"
	"fmt"

	"showgap/internal/domain"
)

// ShowStateRepository implements repository.ShowStateRepository for
// SQLite
type ShowStateRepository struct {
	db *DB
}

// NewShowStateRepository creates a new ShowStateRepository
func NewShowStateRepository(db *DB) *ShowStateRepository {
	return &ShowStateRepository{db: db}
}

// Upsert inserts or replaces the user's watch status for a show. The
// watched-episode set is managed through SetEpisodeWatched.
func (r *ShowStateRepository) Upsert(ctx context.Context, state *domain.UserShowState) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO show_states (user_id, show_id, watch_status, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, show_id) DO UPDATE SET
			watch_status = excluded.watch_status,
			updated_at = excluded.updated_at`,
		state.UserID,
		state.ShowID,
		string(state.WatchStatus),
		timeNow(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert show state: %w", err)
	}
	return nil
}

// GetByUserID retrieves all of a user's show states with their
// watched-episode sets populated
func (r *ShowStateRepository) GetByUserID(ctx context.Context, userID string) ([]domain.UserShowState, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, show_id, watch_status
		FROM show_states WHERE user_id = ? ORDER BY show_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query show states: %w", err)
	}
	defer rows.Close()

	var states []domain.UserShowState
	index := make(map[string]int)
	for rows.Next() {
		var state domain.UserShowState
		var status string
		if err := rows.Scan(&state.UserID, &state.ShowID, &status); err != nil {
			return nil, fmt.Errorf("failed to scan show state: %w", err)
		}
		state.WatchStatus = domain.WatchStatus(status)
		state.WatchedEpisodeIDs = make(map[string]struct{})
		index[state.ShowID] = len(states)
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating show states: %w", err)
	}

	if len(states) == 0 {
		return states, nil
	}

	epRows, err := r.db.QueryContext(ctx,
		"SELECT show_id, episode_id FROM watched_episodes WHERE user_id = ?",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query watched episodes: %w", err)
	}
	defer epRows.Close()

	for epRows.Next() {
		var showID, episodeID string
		if err := epRows.Scan(&showID, &episodeID); err != nil {
			return nil, fmt.Errorf("failed to scan watched episode: %w", err)
		}
		if i, ok := index[showID]; ok {
			states[i].WatchedEpisodeIDs[episodeID] = struct{}{}
		}
	}
	if err := epRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watched episodes: %w", err)
	}

	return states, nil
}

// SetEpisodeWatched marks or unmarks an episode as watched. Marking is
// idempotent; unmarking a never-watched episode is a no-op.
func (r *ShowStateRepository) SetEpisodeWatched(ctx context.Context, userID, showID, episodeID string, watched bool) error {
	if watched {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO watched_episodes (user_id, show_id, episode_id, watched_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (user_id, show_id, episode_id) DO NOTHING`,
			userID, showID, episodeID, timeNow(),
		)
		if err != nil {
			return fmt.Errorf("failed to mark episode watched: %w", err)
		}
		return nil
	}

	_, err := r.db.ExecContext(ctx,
		"DELETE FROM watched_episodes WHERE user_id = ? AND show_id = ? AND episode_id = ?",
		userID, showID, episodeID,
	)
	if err != nil {
		return fmt.Errorf("failed to unmark episode watched: %w", err)
	}
	return nil
}

// Delete removes a show state and its watched episodes
func (r *ShowStateRepository) Delete(ctx context.Context, userID, showID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM show_states WHERE user_id = ? AND show_id = ?",
		userID, showID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete show state: %w", err)
	}
	return nil
}
