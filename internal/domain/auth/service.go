package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"socialhub/internal/domain/user"
	"socialhub/internal/pkg/jwt"
)

// Service contains all business logic for accounts and sessions
type Service struct {
	users                UserRepository
	tokens               TokenIssuer
	mailer               Mailer
	db                   *gorm.DB
	verifyCodePepper     string
	verifyCodeTTL        time.Duration
	verifyResendCooldown time.Duration
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginResult struct {
	User   *user.User `json:"user"`
	Tokens TokenPair  `json:"tokens"`
}

func NewService(
	users UserRepository,
	tokens TokenIssuer,
	mailer Mailer,
	db *gorm.DB,
	verifyCodePepper string,
	verifyCodeTTL time.Duration,
	verifyResendCooldown time.Duration,
) *Service {
	return &Service{
		users:                users,
		tokens:               tokens,
		mailer:               mailer,
		db:                   db,
		verifyCodePepper:     verifyCodePepper,
		verifyCodeTTL:        verifyCodeTTL,
		verifyResendCooldown: verifyResendCooldown,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	if strings.TrimSpace(req.Username) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Password) == "" ||
		strings.TrimSpace(req.FullName) == "" {
		return nil, ErrMissingFields
	}

	exists, err := s.users.ExistsByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		Username:     strings.ToLower(strings.TrimSpace(req.Username)),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FullName:     strings.TrimSpace(req.FullName),
		IsVerified:   false,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	if err := s.issueCode(ctx, u.ID, u.Email, PurposeSignup); err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return u, nil
}

func (s *Service) VerifyCode(ctx context.Context, email, code string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if err := s.consumeCode(ctx, u.ID, PurposeSignup, code); err != nil {
		return err
	}
	return s.users.MarkVerified(ctx, u.ID)
}

func (s *Service) ResendCode(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if u.IsVerified {
		return ErrInvalidCode
	}
	return s.issueCode(ctx, u.ID, u.Email, PurposeSignup)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if req.Username == "" && req.Email == "" {
		return nil, ErrMissingLogin
	}

	u, err := s.users.GetByLogin(ctx, req.Username, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !u.IsVerified {
		return nil, ErrEmailNotVerified
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueTokenPair(ctx, u)
	if err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	u.RefreshToken = ""
	return &LoginResult{User: u, Tokens: *pair}, nil
}

// Refresh rotates the session: the presented refresh token must equal the
// single token currently on file. The swap is a conditional update, so of two
// concurrent rotations for the same user exactly one wins and the loser's
// token is stale the instant the winner's is persisted.
func (s *Service) Refresh(ctx context.Context, presented string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(presented)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	u, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(identity(u))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}

	swapped, err := s.users.SwapRefreshToken(ctx, u.ID, presented, refreshToken)
	if err != nil {
		return nil, err
	}
	if !swapped {
		log.Warn().Int64("user_id", u.ID).Msg("stale refresh token presented")
		return nil, ErrStaleRefreshToken
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Logout revokes the stored refresh token. Any previously issued refresh
// token for the user fails stale afterwards.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.users.ClearRefreshToken(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrMissingFields
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)) != nil {
		return ErrPasswordMismatch
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}

// ForgotPassword always reports success so callers cannot probe which emails
// have accounts.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		log.Info().Msg("password reset requested for unknown email")
		return
	}
	if err := s.issueCode(ctx, u.ID, u.Email, PurposeReset); err != nil {
		log.Error().Err(err).Int64("user_id", u.ID).Msg("failed to issue reset code")
	}
}

func (s *Service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if strings.TrimSpace(newPassword) == "" {
		return ErrMissingFields
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrInvalidCode
		}
		return err
	}
	if err := s.consumeCode(ctx, u.ID, PurposeReset, code); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, u.ID, hash)
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u, nil
}

func (s *Service) UpdateAccount(ctx context.Context, userID int64, req UpdateAccountRequest) (*user.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.FullName != "" {
		u.FullName = req.FullName
		updated = true
	}
	if req.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(req.Email))
		updated = true
	}
	if req.Phone != "" {
		u.Phone = req.Phone
		updated = true
	}
	if req.Address != "" {
		u.Address = req.Address
		updated = true
	}
	if req.ProfilePic != "" {
		u.ProfilePic = req.ProfilePic
		updated = true
	}
	if !updated {
		return nil, ErrNothingToUpdate
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	u.RefreshToken = ""
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]user.Summary, error) {
	return s.users.List(ctx)
}

func (s *Service) issueTokenPair(ctx context.Context, u *user.User) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(identity(u))
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRefreshToken(ctx, u.ID, refreshToken); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func identity(u *user.User) jwt.Identity {
	return jwt.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
