package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"chirp/models"
	"chirp/store"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	row := userRow{
		ID:             newID(),
		Username:       u.Username,
		Email:          u.Email,
		Password:       u.Password,
		DisplayName:    u.DisplayName,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CoverPicture:   u.CoverPicture,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("user %s: %w", u.Username, store.ErrConflict)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	u.ID = row.ID
	u.CreatedAt = row.CreatedAt
	u.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return row.model(), nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	if err := s.db.WithContext(ctx).First(&row, "email = ?", email).Error; err != nil {
		return nil, notFound(err, "user", email)
	}
	return row.model(), nil
}

func (s *Store) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var rows []userRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	out := make([]models.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.model())
	}
	return out, nil
}

func (s *Store) UpdateUser(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	updates := map[string]any{}
	if upd.DisplayName != nil {
		updates["display_name"] = *upd.DisplayName
	}
	if upd.Bio != nil {
		updates["bio"] = *upd.Bio
	}
	if upd.ProfilePicture != nil {
		updates["profile_picture"] = *upd.ProfilePicture
	}
	if upd.CoverPicture != nil {
		updates["cover_picture"] = *upd.CoverPicture
	}

	var row userRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&userRow{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&row, "id = ?", id).Error
	})
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return row.model(), nil
}
