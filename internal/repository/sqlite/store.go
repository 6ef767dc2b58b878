package sqlite

import (
	"context"

	"showgap/internal/domain"
)

// Store bundles the subscription and show-state repositories behind
// the read-only domain.UserStore interface the planning core consumes
type Store struct {
	subscriptions *SubscriptionRepository
	showStates    *ShowStateRepository
}

// NewStore creates a domain.UserStore backed by SQLite
func NewStore(db *DB) *Store {
	return &Store{
		subscriptions: NewSubscriptionRepository(db),
		showStates:    NewShowStateRepository(db),
	}
}

// GetUserSubscriptions implements domain.UserStore
func (s *Store) GetUserSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return s.subscriptions.GetByUserID(ctx, userID)
}

// GetUserShowStates implements domain.UserStore
func (s *Store) GetUserShowStates(ctx context.Context, userID string) ([]domain.UserShowState, error) {
	return s.showStates.GetByUserID(ctx, userID)
}
