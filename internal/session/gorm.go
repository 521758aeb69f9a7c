package session

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBStore persists sessions in the sessions table so that every replica of
// the API sees the same active token.
type DBStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db, now: time.Now}
}

func (s *DBStore) Set(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	row := models.Session{
		UserID:    userID,
		TokenHash: hashToken(token),
		ExpiresAt: s.now().Add(ttl).UTC(),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token_hash", "expires_at", "updated_at"}),
	}).Create(&row).Error
}

func (s *DBStore) Valid(ctx context.Context, userID uint, token string) (bool, error) {
	var row models.Session
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if !s.now().Before(row.ExpiresAt) {
		return false, nil
	}
	return sameHash(row.TokenHash, hashToken(token)), nil
}

func (s *DBStore) Delete(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{}).Error
}

// DeleteExpired removes stale rows; it is run by the cleanup goroutine.
func (s *DBStore) DeleteExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("expires_at <= ?", s.now().UTC()).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
