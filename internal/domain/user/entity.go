package user

import "time"

// User is the identity root. PasswordHash and RefreshToken never leave the
// server; the refresh token is a single scalar — at most one valid refresh
// token per user at a time.
type User struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string    `gorm:"column:username;uniqueIndex" json:"username"`
	Email        string    `gorm:"column:email;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"column:password_hash" json:"-"`
	FullName     string    `gorm:"column:full_name" json:"fullname"`
	ProfilePic   string    `gorm:"column:profile_pic" json:"profilepic"`
	Phone        string    `gorm:"column:phone" json:"phone,omitempty"`
	Address      string    `gorm:"column:address" json:"address,omitempty"`
	IsVerified   bool      `gorm:"column:is_verified" json:"is_verified"`
	RefreshToken string    `gorm:"column:refresh_token" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string { return "users" }

// Summary is the public shape returned by search and friend listings.
type Summary struct {
	ID         int64  `gorm:"column:id" json:"id"`
	Username   string `gorm:"column:username" json:"username"`
	FullName   string `gorm:"column:full_name" json:"fullname"`
	Email      string `gorm:"column:email" json:"email"`
	ProfilePic string `gorm:"column:profile_pic" json:"profilepic"`
}

func (u *User) Summary() Summary {
	return Summary{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		Email:      u.Email,
		ProfilePic: u.ProfilePic,
	}
}
