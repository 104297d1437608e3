package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"budget-tracker/internal/models"
	"budget-tracker/internal/repository"
	"budget-tracker/internal/util"
)

// Account is the public view of a user. It never carries the password hash.
type Account struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Budget   float64 `json:"budget"`
}

// Expenditure is the public view of a stored spend event.
type Expenditure struct {
	ID     uint    `json:"id"`
	Amount float64 `json:"amount"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

// Service implements account registration, budget and expenditure operations
// on top of an injected Store.
type Service struct {
	store      repository.Store
	bcryptCost int
	log        *slog.Logger

	// compared against when the username is unknown so both login
	// failure paths pay for one bcrypt verification
	dummyHash string
}

func NewService(store repository.Store, bcryptCost int, log *slog.Logger) (*Service, error) {
	if log == nil {
		log = slog.Default()
	}
	dummy, err := util.HashPassword("budget-tracker-dummy", bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &Service{
		store:      store,
		bcryptCost: bcryptCost,
		log:        log,
		dummyHash:  dummy,
	}, nil
}

// Register creates an account with a zero budget and returns its id.
func (s *Service) Register(ctx context.Context, username, password string) (uint, error) {
	if username == "" || password == "" {
		return 0, validationError(MsgCredentialsRequired)
	}
	if err := util.ValidateUsername(username); err != nil {
		return 0, validationError(MsgUsernameTooLong)
	}
	if err := util.ValidatePassword(password); err != nil {
		return 0, validationError(MsgPasswordTooLong)
	}

	hash, err := util.HashPassword(password, s.bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("register %q: %w", username, err)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Budget:       0,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, ErrConflict
		}
		return 0, fmt.Errorf("register %q: %w", username, err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user.ID, nil
}

// Login verifies the credentials and returns the account id. Unknown
// usernames and wrong passwords produce the same ErrAuth.
func (s *Service) Login(ctx context.Context, username, password string) (uint, error) {
	if username == "" || password == "" {
		return 0, ErrAuth
	}

	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			util.CheckPassword(password, s.dummyHash)
			return 0, ErrAuth
		}
		return 0, fmt.Errorf("login: %w", err)
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		return 0, ErrAuth
	}
	return user.ID, nil
}

// SetBudget overwrites the account's balance. Any value is accepted.
func (s *Service) SetBudget(ctx context.Context, userID uint, amount float64) error {
	if err := s.store.UpdateBudget(ctx, userID, amount); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

func (s *Service) GetAccount(ctx context.Context, userID uint) (*Account, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &Account{
		ID:       user.ID,
		Username: user.Username,
		Budget:   user.Budget,
	}, nil
}

// AddExpenditure records a spend event and decrements the budget by amount.
// Neither the sign of amount nor the calendar validity of date is checked.
func (s *Service) AddExpenditure(ctx context.Context, userID uint, amount float64, date, note string) (uint, error) {
	if err := util.ValidateDate(date); err != nil {
		return 0, validationError(MsgDateRequired)
	}
	if err := util.ValidateNote(note); err != nil {
		return 0, validationError(MsgNoteTooLong)
	}

	e := models.Expenditure{
		UserID: userID,
		Amount: amount,
		Date:   date,
		Note:   note,
	}
	if err := s.store.AddExpenditure(ctx, &e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("add expenditure: %w", err)
	}
	return e.ID, nil
}

// ListExpenditures returns the account's expenditures in insertion order.
// An unknown account yields an empty list.
func (s *Service) ListExpenditures(ctx context.Context, userID uint) ([]Expenditure, error) {
	rows, err := s.store.ListExpenditures(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenditures: %w", err)
	}
	out := make([]Expenditure, 0, len(rows))
	for _, r := range rows {
		out = append(out, Expenditure{
			ID:     r.ID,
			Amount: r.Amount,
			Date:   r.Date,
			Note:   r.Note,
		})
	}
	return out, nil
}
