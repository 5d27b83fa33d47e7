package friend

import (
	"time"

	"socialhub/internal/domain/user"
)

// Status is the friend-request state machine: pending is the only
// non-terminal state, transitions are recipient-driven.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Request is a directed edge candidate from one user to another.
type Request struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	FromID    int64     `gorm:"column:from_id;index" json:"from"`
	ToID      int64     `gorm:"column:to_id;index" json:"to"`
	Status    Status    `gorm:"column:status" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Request) TableName() string { return "friend_requests" }

// Edge is one direction of a friendship. The composite primary key gives
// set semantics: inserting an existing edge conflicts instead of
// duplicating.
type Edge struct {
	UserID    int64     `gorm:"column:user_id;primaryKey" json:"user_id"`
	FriendID  int64     `gorm:"column:friend_id;primaryKey" json:"friend_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Edge) TableName() string { return "friend_edges" }

// PendingRequest is a request enriched with the sender's public profile for
// listing.
type PendingRequest struct {
	Request
	From user.Summary `json:"from_user"`
}
