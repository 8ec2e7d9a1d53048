// internal/birthdays/store.go
package birthdays

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"discord-community-bot/internal/database"
	"discord-community-bot/internal/models"
)

var (
	ErrNotFound    = errors.New("birthdays: not set")
	ErrInvalidDate = errors.New("birthdays: invalid date, use YYYY-MM-DD or MM-DD")
)

// Store persists user birthdays.
type Store struct {
	db *database.DB
}

func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// NormalizeDate validates a birthday and returns it in canonical form,
// either "2006-01-02" or "01-02".
func NormalizeDate(date string) (string, error) {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Format("2006-01-02"), nil
	}
	if t, err := time.Parse("01-02", date); err == nil {
		return t.Format("01-02"), nil
	}
	return "", ErrInvalidDate
}

// Set stores or updates a user's birthday.
func (s *Store) Set(ctx context.Context, userID, date string) error {
	if userID == "" {
		return errors.New("birthdays: empty user id")
	}
	normalized, err := NormalizeDate(date)
	if err != nil {
		return err
	}

	rec := models.Birthday{UserID: userID, Date: normalized}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"date", "updated_at"}),
		}).
		Create(&rec).Error
	if err != nil {
		return fmt.Errorf("set birthday: %w", err)
	}
	return nil
}

// Get returns a user's birthday, or ErrNotFound.
func (s *Store) Get(ctx context.Context, userID string) (*models.Birthday, error) {
	var rec models.Birthday
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get birthday: %w", err)
	}
	return &rec, nil
}

// Delete removes a user's birthday. Deleting an unset birthday is a no-op.
func (s *Store) Delete(ctx context.Context, userID string) error {
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Birthday{}).Error
	if err != nil {
		return fmt.Errorf("delete birthday: %w", err)
	}
	return nil
}

// All returns every stored birthday ordered by date.
func (s *Store) All(ctx context.Context) ([]models.Birthday, error) {
	var recs []models.Birthday
	err := s.db.WithContext(ctx).Order("date").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("list birthdays: %w", err)
	}
	return recs, nil
}

// ByMonthDay returns birthdays falling on the given "01-02" month-day,
// matching both the MM-DD and YYYY-MM-DD storage forms.
func (s *Store) ByMonthDay(ctx context.Context, monthDay string) ([]models.Birthday, error) {
	var recs []models.Birthday
	err := s.db.WithContext(ctx).
		Where("date = ? OR date LIKE ?", monthDay, "%-"+monthDay).
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("query birthdays by date: %w", err)
	}
	return recs, nil
}
