package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the platform. Accounts created through Google
// federation carry no password hash and have GoogleAuth set.
type User struct {
	ID             uuid.UUID         `json:"id"`
	Fullname       string            `json:"fullname"`
	Email          string            `json:"email"`
	Username       string            `json:"username"`
	Bio            string            `json:"bio"`
	ProfileImg     string            `json:"profile_img"`
	HashedPassword string            `json:"-"`
	GoogleAuth     bool              `json:"-"`
	SocialLinks    map[string]string `json:"social_links"`
	TotalPosts     int               `json:"total_posts"`
	TotalReads     int               `json:"total_reads"`
	Blogs          []uuid.UUID       `json:"blogs,omitempty"`
	JoinedAt       time.Time         `json:"joinedAt"`
}

// UserSummary is the public slice of a user embedded in populated
// responses (comment authors, notification actors, blog authors).
type UserSummary struct {
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}

// Summary strips a user down to its public fields.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		Fullname:   u.Fullname,
		Username:   u.Username,
		ProfileImg: u.ProfileImg,
	}
}
