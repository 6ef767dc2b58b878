package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"showgap/internal/domain"
)

// SubscriptionRepository implements repository.SubscriptionRepository
// for SQLite
type SubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Upsert inserts or replaces the user's subscription for a service
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *domain.Subscription) error {
	var endDate sql.NullTime
	if sub.EndDate != nil {
		endDate = sql.NullTime{Time: *sub.EndDate, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subscriptions (user_id, service_id, monthly_cost, is_active, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, service_id) DO UPDATE SET
			monthly_cost = excluded.monthly_cost,
			is_active = excluded.is_active,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		sub.UserID,
		sub.ServiceID,
		sub.MonthlyCost,
		sub.IsActive,
		sub.StartDate,
		endDate,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// GetByUserID retrieves all of a user's subscriptions, active and
// lapsed
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, service_id, monthly_cost, is_active, start_date, end_date
		FROM subscriptions WHERE user_id = ? ORDER BY service_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subscriptions []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var endDate sql.NullTime
		if err := rows.Scan(&sub.UserID, &sub.ServiceID, &sub.MonthlyCost, &sub.IsActive, &sub.StartDate, &endDate); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		if endDate.Valid {
			t := endDate.Time
			sub.EndDate = &t
		}
		subscriptions = append(subscriptions, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subscriptions, nil
}

// Delete removes a subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, userID, serviceID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE user_id = ? AND service_id = ?",
		userID, serviceID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}
