package chat

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles persistence for messages and the unread ledger
type Repository interface {
	CreateMessage(ctx context.Context, m *Message) error
	GetConversation(ctx context.Context, userA, userB int64) ([]*Message, error)
	GetLastMessage(ctx context.Context, userA, userB int64) (*Message, error)

	// IncrementUnread bumps unread(userID, counterpartID) by one. The
	// increment happens inside the database, so concurrent senders never
	// lose updates.
	IncrementUnread(ctx context.Context, userID, counterpartID int64) error
	ResetUnread(ctx context.Context, userID, counterpartID int64) error
	GetUnreadCounts(ctx context.Context, userID int64) (map[int64]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateMessage(ctx context.Context, m *Message) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *repository) GetConversation(ctx context.Context, userA, userB int64) ([]*Message, error) {
	var msgs []*Message
	err := r.db.WithContext(ctx).
		Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error
	return msgs, err
}

func (r *repository) GetLastMessage(ctx context.Context, userA, userB int64) (*Message, error) {
	var msg Message
	err := r.db.WithContext(ctx).
		Where("(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)",
			userA, userB, userB, userA).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoMessages
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *repository) IncrementUnread(ctx context.Context, userID, counterpartID int64) error {
	row := &UnreadCount{UserID: userID, CounterpartID: counterpartID, Count: 1}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "counterpart_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"count": gorm.Expr("unread_counts.count + 1"),
			}),
		}).
		Create(row).Error
}

func (r *repository) ResetUnread(ctx context.Context, userID, counterpartID int64) error {
	row := &UnreadCount{UserID: userID, CounterpartID: counterpartID, Count: 0}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "counterpart_id"}},
			DoUpdates: clause.Assignments(map[string]any{"count": 0}),
		}).
		Create(row).Error
}

func (r *repository) GetUnreadCounts(ctx context.Context, userID int64) (map[int64]int64, error) {
	var rows []UnreadCount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND count > 0", userID).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int64, len(rows))
	for _, row := range rows {
		counts[row.CounterpartID] = row.Count
	}
	return counts, nil
}
