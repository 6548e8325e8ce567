package models

import "time"

type User struct {
	ID        int64      `json:"id,omitempty"`
	Username  string     `json:"username,omitempty"`
	Email     string     `json:"email,omitempty"`
	FirstName string     `json:"first_name,omitempty"`
	LastName  string     `json:"last_name,omitempty"`
	PassHash  []byte     `json:"-"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}
