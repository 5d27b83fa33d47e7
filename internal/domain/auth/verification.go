package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var codeRegex = regexp.MustCompile(`^\d{6}$`)

// CodePurpose separates signup verification codes from password reset codes.
type CodePurpose string

const (
	PurposeSignup CodePurpose = "signup"
	PurposeReset  CodePurpose = "reset"
)

// Mailer delivers verification and reset codes. Mail failures on the reset
// path are swallowed to stay enumeration-resistant.
type Mailer interface {
	SendCode(ctx context.Context, email string, purpose CodePurpose, code string) error
}

// DevConsoleMailer logs codes instead of sending mail. Used outside prod.
type DevConsoleMailer struct {
	enabled bool
}

func NewDevConsoleMailer(enabled bool) *DevConsoleMailer {
	return &DevConsoleMailer{enabled: enabled}
}

func (m *DevConsoleMailer) SendCode(_ context.Context, email string, purpose CodePurpose, code string) error {
	if m.enabled {
		log.Info().Str("email", email).Str("purpose", string(purpose)).Str("code", code).Msg("dev mailer code")
	}
	return nil
}

type verificationCodeRow struct {
	UserID      int64      `gorm:"column:user_id;primaryKey"`
	Purpose     string     `gorm:"column:purpose;primaryKey"`
	CodeHash    string     `gorm:"column:code_hash"`
	ResendCount int        `gorm:"column:resend_count"`
	LastSentAt  time.Time  `gorm:"column:last_sent_at"`
	ExpiresAt   time.Time  `gorm:"column:expires_at"`
	UsedAt      *time.Time `gorm:"column:used_at"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
}

func (verificationCodeRow) TableName() string { return "verification_codes" }

// Migrate creates the verification-code table. The row type stays private
// to this package.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&verificationCodeRow{})
}

// issueCode generates a fresh 6-digit code for the user, upserting the code
// row and enforcing the resend cooldown. Returns ErrResendCooldown when the
// previous code was sent too recently.
func (s *Service) issueCode(ctx context.Context, userID int64, email string, purpose CodePurpose) error {
	now := time.Now()
	var current verificationCodeRow
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		First(&current).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err == nil && current.LastSentAt.Add(s.verifyResendCooldown).After(now) {
		return ErrResendCooldown
	}

	code, genErr := generateCode()
	if genErr != nil {
		return genErr
	}

	row := verificationCodeRow{
		UserID:      userID,
		Purpose:     string(purpose),
		CodeHash:    hashCode(code, s.verifyCodePepper),
		ResendCount: 1,
		LastSentAt:  now,
		ExpiresAt:   now.Add(s.verifyCodeTTL),
		CreatedAt:   now,
	}
	if err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "purpose"}},
			DoUpdates: clause.Assignments(map[string]any{
				"code_hash":    row.CodeHash,
				"last_sent_at": now,
				"expires_at":   row.ExpiresAt,
				"resend_count": gorm.Expr("verification_codes.resend_count + 1"),
				"used_at":      nil,
			}),
		}).
		Create(&row).Error; err != nil {
		return err
	}

	return s.mailer.SendCode(ctx, email, purpose, code)
}

// consumeCode validates a presented code and marks it used.
func (s *Service) consumeCode(ctx context.Context, userID int64, purpose CodePurpose, code string) error {
	if !codeRegex.MatchString(code) {
		return ErrInvalidCodeFormat
	}

	now := time.Now()
	var row verificationCodeRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidCode
		}
		return err
	}

	if row.UsedAt != nil || !row.ExpiresAt.After(now) {
		return ErrInvalidCode
	}
	if row.CodeHash != hashCode(code, s.verifyCodePepper) {
		return ErrInvalidCode
	}

	return s.db.WithContext(ctx).
		Model(&verificationCodeRow{}).
		Where("user_id = ? AND purpose = ?", userID, string(purpose)).
		Update("used_at", now).Error
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func hashCode(code, pepper string) string {
	sum := sha256.Sum256([]byte(code + pepper))
	return hex.EncodeToString(sum[:])
}
