package sqlstore

import (
	"time"

	"chirp/models"
)

type userRow struct {
	ID             string `gorm:"primaryKey;type:varchar(36)"`
	Username       string `gorm:"type:varchar(30);uniqueIndex;not null"`
	Email          string `gorm:"type:varchar(255);uniqueIndex;not null"`
	Password       string `gorm:"type:varchar(72);not null"`
	DisplayName    string `gorm:"type:varchar(50);not null"`
	Bio            string `gorm:"type:varchar(160)"`
	ProfilePicture string `gorm:"type:varchar(512)"`
	CoverPicture   string `gorm:"type:varchar(512)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRow) TableName() string { return "users" }

func (r userRow) model() *models.User {
	return &models.User{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		Password:       r.Password,
		DisplayName:    r.DisplayName,
		Bio:            r.Bio,
		ProfilePicture: r.ProfilePicture,
		CoverPicture:   r.CoverPicture,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type postRow struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	AuthorID  string    `gorm:"type:varchar(36);not null;index:idx_posts_author_created,priority:1"`
	Content   string    `gorm:"type:varchar(1120);not null"`
	Image     string    `gorm:"type:varchar(512)"`
	CreatedAt time.Time `gorm:"index:idx_posts_author_created,priority:2,sort:desc"`
	UpdatedAt time.Time
}

func (postRow) TableName() string { return "posts" }

func (r postRow) model(likes []string) *models.Post {
	if likes == nil {
		likes = []string{}
	}
	return &models.Post{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Content:   r.Content,
		Image:     r.Image,
		Likes:     likes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type likeRow struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	PostID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_pair,priority:1"`
	UserID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_pair,priority:2"`
	CreatedAt time.Time
}

func (likeRow) TableName() string { return "post_likes" }

type followRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FollowerID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_follows_pair,priority:1"`
	FolloweeID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_follows_pair,priority:2;index"`
	CreatedAt  time.Time
}

func (followRow) TableName() string { return "follows" }
