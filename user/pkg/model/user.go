package model

import (
	"strings"
	"time"
)

// User defines a registered user. PasswordHash never leaves the service.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Favorites    []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the public projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// HasFavorite reports whether movieID is in the favorites set.
func (u *User) HasFavorite(movieID string) bool {
	for _, id := range u.Favorites {
		if id == movieID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	c := *u
	c.Favorites = append(make([]string, 0, len(u.Favorites)), u.Favorites...)
	return &c
}

// PublicUser defines the fields of a user visible to other users.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// FavoriteMovie defines a favorited movie resolved to its current data.
type FavoriteMovie struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Genre         []string `json:"genre"`
	ReleaseYear   int      `json:"releaseYear"`
	Category      string   `json:"category"`
	PosterURL     string   `json:"posterUrl"`
	AverageRating float64  `json:"averageRating"`
}

// Profile defines the caller's own account view.
type Profile struct {
	PublicUser
	FavoriteMovies []FavoriteMovie `json:"favoriteMovies"`
}

// Registration defines the fields required to create an account.
type Registration struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Normalize trims the username and lower-cases the email. The password is
// kept verbatim.
func (r *Registration) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Credentials defines a login request.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UsernameUpdate defines a username change request.
type UsernameUpdate struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
}

// PasswordUpdate defines a password change request.
type PasswordUpdate struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// FavoriteRequest defines the body of a favorite add request.
type FavoriteRequest struct {
	MovieID string `json:"movieId"`
}
