package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"budget-tracker/internal/models"

	"gorm.io/gorm"
)

// GormStore implements Store on top of a gorm connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).
			Where("username = ?", user.Username).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return ErrDuplicate
		}
		if err := tx.Create(user).Error; err != nil {
			// the unique index still catches a registration that raced
			// past the count above
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	return err
}

func (s *GormStore) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	if !storableID(id) {
		return nil, ErrNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return &user, nil
}

func (s *GormStore) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	// SQLite's = is case-sensitive for TEXT, which is what we want here
	if err := s.db.WithContext(ctx).
		Where("username = ?", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user by username: %w", err)
	}
	return &user, nil
}

func (s *GormStore) UpdateBudget(ctx context.Context, id uint, budget float64) error {
	if !storableID(id) {
		return ErrNotFound
	}
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("budget", budget)
	if res.Error != nil {
		return fmt.Errorf("update budget: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AddExpenditure(ctx context.Context, e *models.Expenditure) error {
	if !storableID(e.UserID) {
		return ErrNotFound
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// decrement in SQL so concurrent writers cannot lose an update
		res := tx.Model(&models.User{}).
			Where("id = ?", e.UserID).
			Update("budget", gorm.Expr("budget - ?", e.Amount))
		if res.Error != nil {
			return fmt.Errorf("decrement budget: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Create(e).Error; err != nil {
			return fmt.Errorf("create expenditure: %w", err)
		}
		return nil
	})
}

func (s *GormStore) ListExpenditures(ctx context.Context, userID uint) ([]models.Expenditure, error) {
	expenditures := []models.Expenditure{}
	if !storableID(userID) {
		return expenditures, nil
	}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&expenditures).Error; err != nil {
		return nil, fmt.Errorf("list expenditures for user %d: %w", userID, err)
	}
	return expenditures, nil
}

// storableID reports whether id fits SQLite's signed 64-bit rowid. The driver
// refuses to bind anything larger, and no row can carry such an id.
func storableID(id uint) bool {
	return uint64(id) <= math.MaxInt64
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ Store = (*GormStore)(nil)
