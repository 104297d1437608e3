package repository

import (
	"context"
	"errors"

	"budget-tracker/internal/models"
)

var (
	// ErrNotFound indicates the referenced user does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrDuplicate indicates a unique constraint would be violated.
	ErrDuplicate = errors.New("repository: duplicate")
)

// Store is the persistence handle shared by all request handlers.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id uint) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateBudget(ctx context.Context, id uint, budget float64) error

	// AddExpenditure inserts e and subtracts e.Amount from the owner's
	// budget as one unit.
	AddExpenditure(ctx context.Context, e *models.Expenditure) error
	ListExpenditures(ctx context.Context, userID uint) ([]models.Expenditure, error)
}
