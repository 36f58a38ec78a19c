package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email          string    `gorm:"type:varchar(255);unique;not null"`
	FirstName      string    `gorm:"type:varchar(100)"`
	LastName       string    `gorm:"type:varchar(100)"`
	PasswordHash   string    `gorm:"type:varchar(255)"`
	ProfilePicture string    `gorm:"type:varchar(512)"`
	IsActive       bool      `gorm:"not null;default:true"`
	EmailVerified  bool      `gorm:"not null;default:false"`
	Role           string    `gorm:"type:varchar(20);not null;default:'user'"`
	LastLogin      *time.Time

	OTP        string `gorm:"type:varchar(10)"`
	OTPExpires *time.Time

	PasswordResetTokenHash string `gorm:"type:varchar(64);index"`
	PasswordResetExpires   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Accounts []AccountModel `gorm:"foreignKey:UserID"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
