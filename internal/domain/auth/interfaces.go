package auth

import (
	"context"

	"socialhub/internal/domain/user"
	"socialhub/internal/pkg/jwt"
)

// UserRepository — only the methods the auth service uses
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByLogin(ctx context.Context, username, email string) (*user.User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
	Update(ctx context.Context, u *user.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	MarkVerified(ctx context.Context, userID int64) error
	SetRefreshToken(ctx context.Context, userID int64, token string) error
	SwapRefreshToken(ctx context.Context, userID int64, presented, next string) (bool, error)
	ClearRefreshToken(ctx context.Context, userID int64) error
	List(ctx context.Context) ([]user.Summary, error)
}

// TokenIssuer abstracts the jwt service for tests
type TokenIssuer interface {
	GenerateAccessToken(id jwt.Identity) (string, error)
	GenerateRefreshToken(userID int64) (string, error)
	ParseRefreshToken(tokenStr string) (*jwt.RefreshClaims, error)
}
