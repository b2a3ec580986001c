package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"chirp/models"
	"chirp/store"
)

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	if err := models.CheckContent(p.Content); err != nil {
		return err
	}

	row := postRow{
		ID:       newID(),
		AuthorID: p.AuthorID,
		Content:  strings.TrimSpace(p.Content),
		Image:    p.Image,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	*p = *row.model(nil)
	return nil
}

func (s *Store) PostByID(ctx context.Context, id string) (*models.Post, error) {
	db := s.db.WithContext(ctx)

	var row postRow
	if err := db.First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "post", id)
	}
	likes, err := likesFor(db, []string{id})
	if err != nil {
		return nil, err
	}
	return row.model(likes[id]), nil
}

func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&likeRow{}).Error; err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		res := tx.Delete(&postRow{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("delete post: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %s: %w", id, store.ErrNotFound)
		}
		return nil
	})
}

// ToggleLike locks the post row so concurrent toggles on one post serialize.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) (*models.Post, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "id = ?", postID).Error; err != nil {
			return notFound(err, "post", postID)
		}

		res := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&likeRow{})
		if res.Error != nil {
			return fmt.Errorf("delete like: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if err := tx.Create(&likeRow{PostID: postID, UserID: userID}).Error; err != nil {
				return fmt.Errorf("insert like: %w", err)
			}
		}
		return tx.Model(&postRow{}).Where("id = ?", postID).Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, err
	}
	return s.PostByID(ctx, postID)
}

func (s *Store) ListPosts(ctx context.Context, authorIDs []string, skip, limit int) ([]models.Post, int64, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, 0, nil
	}
	db := s.db.WithContext(ctx)

	var total int64
	if err := db.Model(&postRow{}).Where("author_id IN ?", authorIDs).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var rows []postRow
	err := db.Where("author_id IN ?", authorIDs).
		Order("created_at DESC").
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	likes, err := likesFor(db, ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.model(likes[r.ID]))
	}
	return out, total, nil
}

// likesFor returns liker ids per post in the order the likes were made.
func likesFor(db *gorm.DB, postIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []likeRow
	if err := db.Where("post_id IN ?", postIDs).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find likes: %w", err)
	}
	for _, r := range rows {
		out[r.PostID] = append(out[r.PostID], r.UserID)
	}
	return out, nil
}
