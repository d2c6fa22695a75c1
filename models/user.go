package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;not null;size:30" json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `gorm:"not null" json:"-"` // Don't expose password in JSON
	Disabled     bool      `gorm:"not null;default:false" json:"disabled"`

	Potrait   *Potrait   `json:"potrait,omitempty" gorm:"foreignKey:OwnerID"`
	Images    []Image    `json:"images,omitempty" gorm:"foreignKey:OwnerID"`
	Relations []Relation `json:"relations,omitempty" gorm:"foreignKey:SourceUserID"`
}

// ResourceOwnerID lets a user account stand in as its own owned resource,
// which is how create-time ownership is checked before the resource exists.
func (u *User) ResourceOwnerID() uint {
	return u.ID
}
