package models

import "time"

// Gender is the self-declared gender stored on a user profile.
type Gender string

const (
	GenderUnknown Gender = "unknown"
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// User represents an account of the service.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username  string    `json:"username" gorm:"type:varchar(100);not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // argon2id hash, never plaintext
	Gender    Gender    `json:"gender" gorm:"type:varchar(16);not null;default:unknown"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Profile is the public view of a user returned by the profile endpoint.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Gender   Gender `json:"gender"`
}

// Profile returns the public view of the user.
func (u *User) Profile() Profile {
	return Profile{Username: u.Username, Email: u.Email, Gender: u.Gender}
}
