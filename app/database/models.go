package database

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the user table. Email is stored normalized
// (lowercase, trimmed) and acts as the unique key; Mobile is stored in
// normalized digits-plus-leading-plus form and is unique among non-empty
// values.
type User struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Role         string `json:"role"`
	Name         string `json:"name,omitempty"`
	Mobile       string `json:"mobile,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginEvent struct {
	UserID    int       `json:"userId"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
}

type ApplicationEvent struct {
	UserID    int       `json:"userId"`
	Email     string    `json:"email"`
	JobID     string    `json:"jobId"`
	JobTitle  string    `json:"jobTitle"`
	Company   string    `json:"company"`
	Timestamp time.Time `json:"timestamp"`
}

type PageViewEvent struct {
	UserID    int       `json:"userId"`
	Email     string    `json:"email"`
	Page      string    `json:"page"`
	Timestamp time.Time `json:"timestamp"`
}

// AnalyticsLog is the append-only event log. Events are never mutated or
// removed; every aggregate is derived from it at query time.
type AnalyticsLog struct {
	Logins       []LoginEvent       `json:"logins"`
	Applications []ApplicationEvent `json:"applications"`
	PageViews    []PageViewEvent    `json:"pageViews"`
}
