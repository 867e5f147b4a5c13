package models

import (
	"gorm.io/datatypes"
)

// User is an account that can authenticate against the API.
// The password hash never serialises to JSON.
type User struct {
	BaseModel

	Name         string                      `gorm:"not null" json:"name"`
	Email        string                      `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string                      `gorm:"not null" json:"-"`
	Roles        datatypes.JSONSlice[string] `json:"roles"`
}

// TableName pins the table name used by gorm.
func (User) TableName() string {
	return "users"
}

// PublicView is the representation of a user safe to hand to API consumers.
type PublicView struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

// Public strips credential material from the user record.
func (u *User) Public() PublicView {
	return PublicView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Roles: append([]string(nil), u.Roles...),
	}
}
