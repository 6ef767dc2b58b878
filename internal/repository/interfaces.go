package repository

import (
	"context"

	"showgap/internal/domain"
)

// User represents a registered account in the user store
type User struct {
	ID      string
	Email   string
	Country string
}

// UserRepository handles user account persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, id string) error
}

// SubscriptionRepository handles streaming subscription persistence
type SubscriptionRepository interface {
	// Upsert inserts or replaces the user's subscription for a service
	Upsert(ctx context.Context, sub *domain.Subscription) error
	GetByUserID(ctx context.Context, userID string) ([]domain.Subscription, error)
	Delete(ctx context.Context, userID, serviceID string) error
}

// ShowStateRepository handles per-show watch state persistence,
// including the per-episode watched set
type ShowStateRepository interface {
	// Upsert inserts or replaces the user's watch status for a show.
	// The watched-episode set is managed separately.
	Upsert(ctx context.Context, state *domain.UserShowState) error
	GetByUserID(ctx context.Context, userID string) ([]domain.UserShowState, error)
	SetEpisodeWatched(ctx context.Context, userID, showID, episodeID string, watched bool) error
	Delete(ctx context.Context, userID, showID string) error
}
