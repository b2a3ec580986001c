package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

func (s *Store) ToggleFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	db := s.db.WithContext(ctx)

	res := db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).Delete(&followRow{})
	if res.Error != nil {
		return false, fmt.Errorf("delete follow: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	err := db.Create(&followRow{FollowerID: followerID, FolloweeID: followeeID}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, fmt.Errorf("insert follow: %w", err)
	}
	return true, nil
}

func (s *Store) Followers(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&followRow{}).
		Where("followee_id = ?", userID).
		Order("id").
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return ids, nil
}

func (s *Store) Following(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&followRow{}).
		Where("follower_id = ?", userID).
		Order("id").
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return ids, nil
}
