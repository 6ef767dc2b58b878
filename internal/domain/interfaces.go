package domain

import (
	"context"
	"time"
)

// CatalogSource is the external show-metadata provider. It is treated as
// read-only, rate-limited, and eventually stale; callers go through the
// catalog cache rather than hitting it directly.
type CatalogSource interface {
	// FetchShow retrieves a show with its seasons, episode air dates,
	// status, and provider availability. Implementations must honor ctx
	// cancellation and deadlines.
	FetchShow(ctx context.Context, showID string) (*Show, error)
}

// UserStore exposes the user-owned data the planning core consumes.
// The core never writes through this interface.
type UserStore interface {
	// GetUserSubscriptions retrieves all of a user's subscriptions,
	// including inactive ones (the optimizer uses those for resubscribe
	// suggestions)
	GetUserSubscriptions(ctx context.Context, userID string) ([]Subscription, error)

	// GetUserShowStates retrieves the user's watch state for every
	// tracked show
	GetUserShowStates(ctx context.Context, userID string) ([]UserShowState, error)
}

// ShowClassifier produces release-pattern classifications for a show.
// Classification is pure: identical input yields identical output.
type ShowClassifier interface {
	Classify(ctx context.Context, showID string) (*ClassifyResult, error)
}

// TimelineBuilder projects which subscribed services carry must-watch
// content for a user, day by day
type TimelineBuilder interface {
	BuildTimeline(ctx context.Context, userID string, from, to time.Time) (*Timeline, error)
}

// GapOptimizer finds cancellable subscription windows and ranks the
// savings they unlock
type GapOptimizer interface {
	Optimize(ctx context.Context, userID string) ([]Recommendation, error)
}
