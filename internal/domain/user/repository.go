package user

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

// Repository handles persistence for users
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *gorm.DB { return r.db }

func (r *Repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByLogin resolves a user by username or email, whichever is present.
func (r *Repository) GetByLogin(ctx context.Context, username, email string) (*User, error) {
	var u User
	q := r.db.WithContext(ctx)
	switch {
	case username != "":
		q = q.Where("username = ?", strings.ToLower(strings.TrimSpace(username)))
	default:
		q = q.Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	}
	err := q.First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("username = ? OR email = ?",
			strings.ToLower(strings.TrimSpace(username)),
			strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *Repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

func (r *Repository) MarkVerified(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("is_verified", true).Error
}

// SetRefreshToken overwrites the stored refresh token unconditionally.
// A concurrent logout racing this write is benign last-writer-wins.
func (r *Repository) SetRefreshToken(ctx context.Context, userID int64, token string) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", userID).
		Update("refresh_token", token).Error
}

// SwapRefreshToken replaces the stored refresh token only if it still equals
// the presented one. Returns false when another rotation or a logout got
// there first — the presented token is stale.
func (r *Repository) SwapRefreshToken(ctx context.Context, userID int64, presented, next string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ? AND refresh_token = ?", userID, presented).
		Update("refresh_token", next)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) ClearRefreshToken(ctx context.Context, userID int64) error {
	return r.SetRefreshToken(ctx, userID, "")
}

func (r *Repository) List(ctx context.Context) ([]Summary, error) {
	var users []Summary
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

// Search matches a case-insensitive substring of username or email,
// excluding the searching user.
func (r *Repository) Search(ctx context.Context, query string, excludeID int64) ([]Summary, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var users []Summary
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ?) AND id != ?", pattern, pattern, excludeID).
		Order("username ASC").
		Find(&users).Error
	return users, err
}

func (r *Repository) GetSummariesByIDs(ctx context.Context, ids []int64) ([]Summary, error) {
	if len(ids) == 0 {
		return []Summary{}, nil
	}
	var users []Summary
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id IN ?", ids).
		Order("username ASC").
		Find(&users).Error
	return users, err
}
