package models

import "time"

// User is the API representation of a user account.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserCreateRequest registers a new user.
type UserCreateRequest struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// UserUpdateRequest applies partial updates to a user account.
type UserUpdateRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// LeaderboardResponse is a ranked list of user aggregates.
type LeaderboardResponse struct {
	Metric  string             `json:"metric"`
	Period  string             `json:"period"`
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Username  string  `json:"username"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Value     float64 `json:"value"`
}
