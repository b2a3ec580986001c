package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxContentLength     = 280
	MaxBioLength         = 160
	MaxDisplayNameLength = 50
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinPasswordLength    = 6

	// PageSize is the fixed page size of every post listing.
	PageSize = 20
)

// ErrContentLength is returned when post content is empty after trimming or
// longer than MaxContentLength characters.
var ErrContentLength = errors.New("post content must be between 1 and 280 characters")

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"`
	DisplayName    string    `json:"displayName"`
	Bio            string    `json:"bio"`
	ProfilePicture string    `json:"profilePicture"`
	CoverPicture   string    `json:"coverPicture"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileUpdate carries the optional fields of a profile edit. Nil fields are
// left untouched.
type ProfileUpdate struct {
	DisplayName    *string
	Bio            *string
	ProfilePicture *string
	CoverPicture   *string
}

func (u ProfileUpdate) Empty() bool {
	return u.DisplayName == nil && u.Bio == nil && u.ProfilePicture == nil && u.CoverPicture == nil
}

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Image     string    `json:"image"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Follow struct {
	FollowerID string    `json:"followerId"`
	FolloweeID string    `json:"followeeId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserSummary is the projection of a user joined onto posts and follow lists.
type UserSummary struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	DisplayName    string `json:"displayName"`
	ProfilePicture string `json:"profilePicture"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		ProfilePicture: u.ProfilePicture,
	}
}

type Profile struct {
	User
	Followers      []UserSummary `json:"followers"`
	Following      []UserSummary `json:"following"`
	FollowerCount  int           `json:"followerCount"`
	FollowingCount int           `json:"followingCount"`
}

type PostView struct {
	ID        string        `json:"id"`
	Author    UserSummary   `json:"author"`
	Content   string        `json:"content"`
	Image     string        `json:"image"`
	Likes     []UserSummary `json:"likes"`
	LikeCount int           `json:"likeCount"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

type PostPage struct {
	Posts       []PostView `json:"posts"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalPosts  int64      `json:"totalPosts"`
}

// TotalPages returns ceil(total/PageSize).
func TotalPages(total int64) int {
	return int((total + PageSize - 1) / PageSize)
}

// Offset returns the number of posts preceding page. Pages start at 1.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}

// CheckContent reports whether content, once trimmed, fits a post.
func CheckContent(content string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(content))
	if n == 0 || n > MaxContentLength {
		return ErrContentLength
	}
	return nil
}
