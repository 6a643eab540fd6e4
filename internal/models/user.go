// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is a user's authorization level.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// DefaultAvatar is assigned to every new account.
const DefaultAvatar = "default-avatar.png"

// User represents a registered forum member.
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Login       string    `gorm:"size:64;uniqueIndex;not null" json:"login"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	FullName    string    `gorm:"size:128" json:"full_name"`
	Role        Role      `gorm:"size:16;not null;default:user" json:"role"`
	IsConfirmed bool      `gorm:"not null;default:false" json:"is_confirmed"`
	Rating      int       `gorm:"not null;default:0" json:"rating"`
	Avatar      string    `gorm:"size:255;not null;default:default-avatar.png" json:"avatar"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}
