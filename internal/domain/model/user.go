package model

import (
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	LastName     string    `json:"lastName"`
	Email        string    `json:"email"`
	UserType     string    `json:"userType"`
	CreateDate   time.Time `json:"createDate"`
	PasswordHash string    `json:"-"` // Not exposed
}

// UserSnapshot is the public view of a User: everything but the password.
// Tokens embed one; it does not follow later edits of the record.
type UserSnapshot struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	UserType   string    `json:"userType"`
	CreateDate time.Time `json:"createDate"`
}

func (u *User) Snapshot() UserSnapshot {
	return UserSnapshot{
		ID:         u.ID,
		Username:   u.Username,
		Name:       u.Name,
		LastName:   u.LastName,
		Email:      u.Email,
		UserType:   u.UserType,
		CreateDate: u.CreateDate,
	}
}

// UserPatch is a partial update. Only fields with Set == true are applied.
type UserPatch struct {
	Username Optional[string]
	Name     Optional[string]
	LastName Optional[string]
	Email    Optional[string]
	UserType Optional[string]
	Password Optional[string]
}

// ApplyProfile copies the present non-password fields onto u.
func (p UserPatch) ApplyProfile(u *User) {
	p.Username.ApplyTo(&u.Username)
	p.Name.ApplyTo(&u.Name)
	p.LastName.ApplyTo(&u.LastName)
	p.Email.ApplyTo(&u.Email)
	p.UserType.ApplyTo(&u.UserType)
}
