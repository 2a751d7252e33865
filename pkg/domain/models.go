package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role distinguishes staff from applicants on the single user record.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// User represents a system user
type User struct {
	ID                uuid.UUID `json:"id" db:"id"`
	FirstName         string    `json:"first_name" db:"first_name"`
	LastName          string    `json:"last_name" db:"last_name"`
	Username          string    `json:"username" db:"username"`
	Email             string    `json:"email" db:"email"`
	Phone             string    `json:"phone" db:"phone"`
	Role              Role      `json:"role" db:"role"`
	EmailVerified     bool      `json:"email_verified" db:"email_verified"`
	PhoneVerified     bool      `json:"phone_verified" db:"phone_verified"`
	Verified          bool      `json:"verified" db:"verified"`
	ProfileCompletion int       `json:"profile_completion" db:"profile_completion"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	Admin    *AdminProfile    `json:"admin,omitempty" db:"-"`
	Customer *CustomerProfile `json:"customer,omitempty" db:"-"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// AdminProfile holds staff-only attributes.
type AdminProfile struct {
	Department string `json:"department" db:"department"`
}

// CustomerProfile holds applicant-only attributes.
type CustomerProfile struct {
	PhotoMediaID *uuid.UUID `json:"photo_media_id,omitempty" db:"photo_media_id"`
}

// NotificationChannel selects how a notification reaches the user.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelInApp NotificationChannel = "IN_APP"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        uuid.UUID           `json:"id" db:"id"`
	UserID    uuid.UUID           `json:"user_id" db:"user_id"`
	Title     string              `json:"title" db:"title"`
	Message   string              `json:"message" db:"message"`
	Channel   NotificationChannel `json:"channel" db:"channel"`
	IsRead    bool                `json:"is_read" db:"is_read"`
	IsSent    bool                `json:"is_sent" db:"is_sent"`
	CreatedAt time.Time           `json:"created_at" db:"created_at"`
	ReadAt    *time.Time          `json:"read_at,omitempty" db:"read_at"`
	SentAt    *time.Time          `json:"sent_at,omitempty" db:"sent_at"`
}

// Metadata is a JSON-compatible map
type Metadata map[string]interface{}

func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Metadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, m)
}
