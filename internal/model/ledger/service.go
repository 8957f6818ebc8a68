package ledger

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"max.ks1230/expense-ledger/internal/entity/account"
	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/logger"
	"max.ks1230/expense-ledger/internal/model/customerr"
	"max.ks1230/expense-ledger/internal/model/storage"
)

const accessDeniedMessage = "credentials are not correct or storage is unavailable"

type documentStorage interface {
	FindByCredentials(ctx context.Context, username, password string) (storage.Document, error)
	Get(ctx context.Context, username string) (storage.Document, error)
	Insert(ctx context.Context, doc storage.Document) error
	UpdateBody(ctx context.Context, username string, body []byte) error
	Delete(ctx context.Context, username string) error
}

type documentCache interface {
	GetDocument(username string) ([]byte, error)
	CacheDocument(username string, body []byte) error
	Invalidate(username string) error
}

type eventProducer interface {
	ProduceMessage(key string, message []byte) error
}

type Option func(*Service)

func WithCache(cache documentCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

func WithEvents(events eventProducer) Option {
	return func(s *Service) {
		s.events = events
	}
}

// Service persists each account as one document holding all of its expenses.
// Every write replaces the whole document. Concurrent writes for one username are
// serialized within the process, but a write from a stale *account.Account still
// overwrites newer stored expenses. Across processes the last write wins.
type Service struct {
	storage documentStorage
	cache   documentCache
	events  eventProducer
	locks   *usernameLocks
	reads   singleflight.Group
}

func NewService(storage documentStorage, opts ...Option) *Service {
	s := &Service{
		storage: storage,
		locks:   newUsernameLocks(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Login(ctx context.Context, username, password string) (acc *account.Account, err error) {
	ctx, finish := startOperation(ctx, "login")
	defer func() { finish(err) }()

	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, customerr.NewInvalidArgument("credentials", "username and password are required")
	}

	doc, err := s.storage.FindByCredentials(ctx, username, password)
	if err != nil {
		logger.Warn("login failed", zap.String("username", username), zap.Error(err))
		return nil, &customerr.AccessError{Err: accessDeniedMessage}
	}
	acc, err = account.Unmarshal(doc.Body)
	if err != nil {
		logger.Error("stored account is unreadable", zap.String("username", username), zap.Error(err))
		return nil, &customerr.AccessError{Err: accessDeniedMessage}
	}
	return acc, nil
}

func (s *Service) Register(ctx context.Context, acc *account.Account) (err error) {
	ctx, finish := startOperation(ctx, "register")
	defer func() { finish(err) }()

	if acc == nil {
		return customerr.NewInvalidArgument("account", "is absent")
	}
	username := acc.Username()

	body, err := account.Marshal(acc)
	if err != nil {
		logger.Error("cannot encode account", zap.String("username", username), zap.Error(err))
		return &customerr.DuplicateUsernameError{Username: username}
	}

	unlock := s.locks.lock(username)
	defer unlock()

	err = s.storage.Insert(ctx, storage.Document{
		Username: username,
		Password: acc.Password(),
		Body:     body,
	})
	if err != nil {
		logger.Warn("register failed", zap.String("username", username), zap.Error(err))
		return &customerr.DuplicateUsernameError{Username: username}
	}

	s.invalidate(username)
	s.publish(EventRegistered, username, len(acc.Expenses()))
	logger.Info("account registered", zap.String("username", username))
	return nil
}

// UpdateExpenses replaces the stored expenses of acc with its in-memory ones.
func (s *Service) UpdateExpenses(ctx context.Context, acc *account.Account) (err error) {
	ctx, finish := startOperation(ctx, "update_expenses")
	defer func() { finish(err) }()

	if acc == nil {
		return customerr.NewInvalidArgument("account", "is absent")
	}

	unlock := s.locks.lock(acc.Username())
	defer unlock()

	return s.persist(ctx, acc, "update expenses")
}

// AddExpense appends e to acc and persists the result. acc is left unchanged on failure.
func (s *Service) AddExpense(ctx context.Context, acc *account.Account, e expense.Expense) (err error) {
	ctx, finish := startOperation(ctx, "add_expense")
	defer func() { finish(err) }()

	if acc == nil {
		return customerr.NewInvalidArgument("account", "is absent")
	}

	unlock := s.locks.lock(acc.Username())
	defer unlock()

	prev := acc.Expenses()
	acc.AddExpense(e)
	if err = s.persist(ctx, acc, "add expense"); err != nil {
		acc.ReplaceExpenses(prev)
		return err
	}
	return nil
}

// ResetExpenses empties the expense list of acc, in memory and in storage.
func (s *Service) ResetExpenses(ctx context.Context, acc *account.Account) (err error) {
	ctx, finish := startOperation(ctx, "reset_expenses")
	defer func() { finish(err) }()

	if acc == nil {
		return customerr.NewInvalidArgument("account", "is absent")
	}

	unlock := s.locks.lock(acc.Username())
	defer unlock()

	prev := acc.Expenses()
	acc.ResetExpenses()
	if err = s.persist(ctx, acc, "reset expenses"); err != nil {
		acc.ReplaceExpenses(prev)
		return err
	}
	return nil
}

// persist must run under the username lock.
func (s *Service) persist(ctx context.Context, acc *account.Account, op string) error {
	username := acc.Username()

	body, err := account.Marshal(acc)
	if err != nil {
		return &customerr.StorageError{Op: op, Err: err}
	}
	if err = s.storage.UpdateBody(ctx, username, body); err != nil {
		logger.Error("update failed", zap.String("username", username), zap.Error(err))
		return &customerr.StorageError{Op: op, Err: err}
	}

	s.invalidate(username)
	s.publish(EventExpensesUpdated, username, len(acc.Expenses()))
	return nil
}

// ExpensesOf reads the stored expenses of acc, ignoring its in-memory ones.
func (s *Service) ExpensesOf(ctx context.Context, acc *account.Account) (res []expense.Expense, err error) {
	ctx, finish := startOperation(ctx, "expenses_of")
	defer func() { finish(err) }()

	if acc == nil {
		return nil, customerr.NewInvalidArgument("account", "is absent")
	}
	username := acc.Username()

	if stored, ok := s.cached(username); ok {
		return stored.Expenses(), nil
	}

	v, err, _ := s.reads.Do(username, func() (interface{}, error) {
		unlock := s.locks.lock(username)
		defer unlock()

		doc, err := s.storage.Get(ctx, username)
		if err != nil {
			return nil, err
		}
		stored, err := account.Unmarshal(doc.Body)
		if err != nil {
			return nil, err
		}
		s.store(username, doc.Body)
		return stored, nil
	})
	if err != nil {
		logger.Error("cannot read expenses", zap.String("username", username), zap.Error(err))
		return nil, &customerr.StorageError{Op: "expenses of " + username, Err: err}
	}
	return v.(*account.Account).Expenses(), nil
}

// DeleteAccount removes the account document. Deleting a missing account succeeds.
func (s *Service) DeleteAccount(ctx context.Context, acc *account.Account) (err error) {
	ctx, finish := startOperation(ctx, "delete_account")
	defer func() { finish(err) }()

	if acc == nil {
		return customerr.NewInvalidArgument("account", "is absent")
	}
	username := acc.Username()

	unlock := s.locks.lock(username)
	defer unlock()

	if err = s.storage.Delete(ctx, username); err != nil {
		logger.Error("delete failed", zap.String("username", username), zap.Error(err))
		return &customerr.StorageError{Op: "delete account", Err: err}
	}

	s.invalidate(username)
	s.publish(EventDeleted, username, 0)
	logger.Info("account deleted", zap.String("username", username))
	return nil
}

// Snapshot logs in and returns the fresh account in its persisted encoding, indented.
func (s *Service) Snapshot(ctx context.Context, username, password string) ([]byte, error) {
	acc, err := s.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	body, err := account.MarshalIndent(acc)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	return body, nil
}

func (s *Service) cached(username string) (*account.Account, bool) {
	if s.cache == nil {
		return nil, false
	}
	body, err := s.cache.GetDocument(username)
	if err != nil {
		return nil, false
	}
	acc, err := account.Unmarshal(body)
	if err != nil {
		logger.Warn("dropping unreadable cached document", zap.String("username", username), zap.Error(err))
		s.invalidate(username)
		return nil, false
	}
	return acc, true
}

func (s *Service) store(username string, body []byte) {
	if s.cache == nil {
		return
	}
	if err := s.cache.CacheDocument(username, body); err != nil {
		logger.Warn("cannot cache document", zap.String("username", username), zap.Error(err))
	}
}

func (s *Service) invalidate(username string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(username); err != nil {
		logger.Warn("cannot invalidate cached document", zap.String("username", username), zap.Error(err))
	}
}
