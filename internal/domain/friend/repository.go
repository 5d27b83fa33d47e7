package friend

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles persistence for friend requests and friendship edges
type Repository interface {
	CreateRequest(ctx context.Context, r *Request) error
	GetRequestByID(ctx context.Context, id string) (*Request, error)
	HasPendingRequest(ctx context.Context, fromID, toID int64) (bool, error)
	ListPendingFor(ctx context.Context, toID int64) ([]*Request, error)
	// TransitionRequest flips the status only if the request is still
	// pending. Returns false when another call already resolved it.
	TransitionRequest(ctx context.Context, id string, to Status) (bool, error)

	AddEdge(ctx context.Context, userID, friendID int64) error
	RemoveEdge(ctx context.Context, userID, friendID int64) error
	HasEdge(ctx context.Context, userID, friendID int64) (bool, error)
	ListFriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRequest(ctx context.Context, req *Request) error {
	if req.ID == "" {
		req.ID = uuid.New().String()
	}
	if req.Status == "" {
		req.Status = StatusPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) GetRequestByID(ctx context.Context, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) HasPendingRequest(ctx context.Context, fromID, toID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Request{}).
		Where("from_id = ? AND to_id = ? AND status = ?", fromID, toID, StatusPending).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListPendingFor(ctx context.Context, toID int64) ([]*Request, error) {
	var reqs []*Request
	err := r.db.WithContext(ctx).
		Where("to_id = ? AND status = ?", toID, StatusPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// TransitionRequest is the compare-and-set on status: the WHERE clause pins
// the pending state, so of two concurrent transitions exactly one observes
// RowsAffected == 1.
func (r *repository) TransitionRequest(ctx context.Context, id string, to Status) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&Request{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AddEdge inserts one direction of a friendship. Idempotent: a concurrent
// insert of the same edge is absorbed by the conflict clause.
func (r *repository) AddEdge(ctx context.Context, userID, friendID int64) error {
	edge := &Edge{UserID: userID, FriendID: friendID, CreatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge).Error
}

func (r *repository) RemoveEdge(ctx context.Context, userID, friendID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Delete(&Edge{}).Error
}

func (r *repository) HasEdge(ctx context.Context, userID, friendID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Edge{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) ListFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&Edge{}).
		Where("user_id = ?", userID).
		Order("friend_id ASC").
		Pluck("friend_id", &ids).Error
	return ids, err
}
