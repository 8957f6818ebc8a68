package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"max.ks1230/expense-ledger/internal/clients/cache"
	"max.ks1230/expense-ledger/internal/entity/account"
	"max.ks1230/expense-ledger/internal/entity/expense"
	"max.ks1230/expense-ledger/internal/model/customerr"
	"max.ks1230/expense-ledger/internal/model/filter"
	"max.ks1230/expense-ledger/internal/model/order"
	"max.ks1230/expense-ledger/internal/model/storage"
)

var errBackend = errors.New("connection refused")

func newAccount(t *testing.T, username, password string) *account.Account {
	acc, err := account.New(username, password)
	require.NoError(t, err)
	return acc
}

func newExpense(t *testing.T, name string, category expense.Category, amount float64) expense.Expense {
	d, err := expense.NewDate(2024, time.January, 20)
	require.NoError(t, err)
	e, err := expense.New(name, d, category, amount, name+" expense")
	require.NoError(t, err)
	return e
}

func Test_OnUserScenario_ShouldStoreFilterAndOrder(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())

	require.NoError(t, s.Register(ctx, newAccount(t, "alice", "pw1")))
	acc, err := s.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	lunch, err := expense.New("Lunch", expense.DateOf(time.Now()), expense.Food, 12.50, "work lunch")
	require.NoError(t, err)
	require.NoError(t, s.AddExpense(ctx, acc, lunch))

	stored, err := s.ExpensesOf(ctx, acc)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, lunch, stored[0])

	shopping, err := filter.ByCategory(stored, expense.Shopping)
	require.NoError(t, err)
	assert.Empty(t, shopping)

	cmp, err := order.For(4)
	require.NoError(t, err)
	sorted := order.Sort([]expense.Expense{newExpense(t, "small", expense.Food, 5.0), lunch}, cmp)
	assert.Equal(t, 12.5, sorted[0].Amount())
	assert.Equal(t, 5.0, sorted[1].Amount())
}

func Test_OnRegister_ShouldPersistEmptyExpenses(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")

	require.NoError(t, s.Register(ctx, acc))

	stored, err := s.ExpensesOf(ctx, acc)
	require.NoError(t, err)
	assert.NotNil(t, stored)
	assert.Empty(t, stored)
}

func Test_OnUpdateExpenses_ShouldReplaceStoredCollection(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))

	first := []expense.Expense{
		newExpense(t, "a", expense.Food, 1),
		newExpense(t, "b", expense.Shopping, 2),
		newExpense(t, "c", expense.Pleasure, 3),
	}
	acc.ReplaceExpenses(first)
	require.NoError(t, s.UpdateExpenses(ctx, acc))

	second := []expense.Expense{newExpense(t, "d", expense.Food, 4)}
	acc.ReplaceExpenses(second)
	require.NoError(t, s.UpdateExpenses(ctx, acc))

	stored, err := s.ExpensesOf(ctx, acc)
	require.NoError(t, err)
	assert.Equal(t, second, stored)
}

func Test_OnExpensesOf_ShouldIgnoreUnsavedChanges(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))

	acc.AddExpense(newExpense(t, "unsaved", expense.Food, 1))

	stored, err := s.ExpensesOf(ctx, acc)
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func Test_OnLoginWrongCredentials_ShouldReturnAccessError(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	require.NoError(t, s.Register(ctx, newAccount(t, "alice", "pw1")))

	_, err := s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, customerr.ErrAccess)

	_, err = s.Login(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, customerr.ErrAccess)
}

func Test_OnLoginBackendFailure_ShouldReturnAccessError(t *testing.T) {
	docs := &storageMock{}
	docs.On("FindByCredentials", mock.Anything, "alice", "pw1").Return(storage.Document{}, errBackend)
	s := NewService(docs)

	_, err := s.Login(context.Background(), "alice", "pw1")

	assert.ErrorIs(t, err, customerr.ErrAccess)
	assert.NotContains(t, err.Error(), errBackend.Error())
	docs.AssertExpectations(t)
}

func Test_OnLoginBlankCredentials_ShouldFailValidation(t *testing.T) {
	s := NewService(storage.NewInMemStorage())

	_, err := s.Login(context.Background(), "", "pw1")

	assert.ErrorIs(t, err, customerr.ErrInvalidArgument)
}

func Test_OnRegisterTwice_ShouldReturnDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	require.NoError(t, s.Register(ctx, newAccount(t, "alice", "pw1")))

	err := s.Register(ctx, newAccount(t, "alice", "pw2"))

	assert.ErrorIs(t, err, customerr.ErrDuplicateUsername)
	_, err = s.Login(ctx, "alice", "pw1")
	assert.NoError(t, err)
}

func Test_OnRegisterBackendFailure_ShouldReturnDuplicateUsername(t *testing.T) {
	docs := &storageMock{}
	docs.On("Insert", mock.Anything, mock.Anything).Return(errBackend)
	s := NewService(docs)

	err := s.Register(context.Background(), newAccount(t, "alice", "pw1"))

	assert.ErrorIs(t, err, customerr.ErrDuplicateUsername)
	docs.AssertExpectations(t)
}

func Test_OnUpdateMissingAccount_ShouldReturnStorageError(t *testing.T) {
	s := NewService(storage.NewInMemStorage())

	err := s.UpdateExpenses(context.Background(), newAccount(t, "ghost", "pw"))

	assert.ErrorIs(t, err, customerr.ErrStorage)
}

func Test_OnExpensesOfMissingAccount_ShouldReturnStorageError(t *testing.T) {
	s := NewService(storage.NewInMemStorage())

	_, err := s.ExpensesOf(context.Background(), newAccount(t, "ghost", "pw"))

	assert.ErrorIs(t, err, customerr.ErrStorage)
}

func Test_OnDeleteAccount_ShouldBeIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))

	require.NoError(t, s.DeleteAccount(ctx, acc))
	require.NoError(t, s.DeleteAccount(ctx, acc))

	_, err := s.Login(ctx, "alice", "pw1")
	assert.ErrorIs(t, err, customerr.ErrAccess)
	_, err = s.ExpensesOf(ctx, acc)
	assert.ErrorIs(t, err, customerr.ErrStorage)
}

func Test_OnDeleteBackendFailure_ShouldReturnStorageError(t *testing.T) {
	docs := &storageMock{}
	docs.On("Delete", mock.Anything, "alice").Return(errBackend)
	s := NewService(docs)

	err := s.DeleteAccount(context.Background(), newAccount(t, "alice", "pw1"))

	assert.ErrorIs(t, err, customerr.ErrStorage)
	assert.ErrorIs(t, err, errBackend)
}

func Test_OnAddExpenseFailure_ShouldRestoreAccount(t *testing.T) {
	docs := &storageMock{}
	docs.On("UpdateBody", mock.Anything, "alice", mock.Anything).Return(errBackend)
	s := NewService(docs)
	acc := newAccount(t, "alice", "pw1")
	acc.AddExpense(newExpense(t, "kept", expense.Food, 1))

	err := s.AddExpense(context.Background(), acc, newExpense(t, "lost", expense.Food, 2))

	assert.ErrorIs(t, err, customerr.ErrStorage)
	require.Len(t, acc.Expenses(), 1)
	assert.Equal(t, "kept", acc.Expenses()[0].Name())
}

func Test_OnResetExpenses_ShouldClearStoredList(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))
	require.NoError(t, s.AddExpense(ctx, acc, newExpense(t, "a", expense.Food, 1)))

	require.NoError(t, s.ResetExpenses(ctx, acc))

	stored, err := s.ExpensesOf(ctx, acc)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, acc.Expenses())
}

func Test_OnAbsentAccount_ShouldFailWithInvalidArgument(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())

	assert.ErrorIs(t, s.Register(ctx, nil), customerr.ErrInvalidArgument)
	assert.ErrorIs(t, s.UpdateExpenses(ctx, nil), customerr.ErrInvalidArgument)
	assert.ErrorIs(t, s.DeleteAccount(ctx, nil), customerr.ErrInvalidArgument)
	assert.ErrorIs(t, s.ResetExpenses(ctx, nil), customerr.ErrInvalidArgument)
	_, err := s.ExpensesOf(ctx, nil)
	assert.ErrorIs(t, err, customerr.ErrInvalidArgument)
}

func Test_OnConcurrentAdds_ShouldKeepEveryExpense(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))

	const workers = 20
	item := newExpense(t, "item", expense.Food, 1)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddExpense(ctx, acc, item))
		}()
	}
	wg.Wait()

	stored, err := s.ExpensesOf(ctx, acc)
	require.NoError(t, err)
	assert.Len(t, stored, workers)
	assert.Equal(t, 0, s.locks.size())
}

func Test_OnCacheHit_ShouldSkipStorage(t *testing.T) {
	acc := newAccount(t, "alice", "pw1")
	acc.AddExpense(newExpense(t, "cached", expense.Food, 3))
	body, err := account.Marshal(acc)
	require.NoError(t, err)

	docs := &storageMock{}
	mc := &cacheMock{}
	mc.On("GetDocument", "alice").Return(body, nil)
	s := NewService(docs, WithCache(mc))

	stored, err := s.ExpensesOf(context.Background(), acc)

	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "cached", stored[0].Name())
	docs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	mc.AssertExpectations(t)
}

func Test_OnCacheMiss_ShouldReadStorageAndFillCache(t *testing.T) {
	ctx := context.Background()
	docs := storage.NewInMemStorage()
	mc := &cacheMock{}
	mc.On("Invalidate", "alice").Return(nil)
	mc.On("GetDocument", "alice").Return(nil, cache.ErrMiss)
	mc.On("CacheDocument", "alice", mock.Anything).Return(nil).Once()
	s := NewService(docs, WithCache(mc))

	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))

	stored, err := s.ExpensesOf(ctx, acc)

	require.NoError(t, err)
	assert.Empty(t, stored)
	mc.AssertExpectations(t)
}

func Test_OnCacheFailure_ShouldNotFailWrites(t *testing.T) {
	ctx := context.Background()
	mc := &cacheMock{}
	mc.On("Invalidate", "alice").Return(errors.New("memcache down"))
	s := NewService(storage.NewInMemStorage(), WithCache(mc))
	acc := newAccount(t, "alice", "pw1")

	require.NoError(t, s.Register(ctx, acc))
	require.NoError(t, s.AddExpense(ctx, acc, newExpense(t, "a", expense.Food, 1)))

	mc.AssertNumberOfCalls(t, "Invalidate", 2)
}

func Test_OnWrites_ShouldPublishEvents(t *testing.T) {
	ctx := context.Background()
	var events []Event
	producer := &producerMock{}
	producer.On("ProduceMessage", "alice", mock.Anything).
		Run(func(args mock.Arguments) {
			var e Event
			require.NoError(t, json.Unmarshal(args.Get(1).([]byte), &e))
			events = append(events, e)
		}).
		Return(nil)
	s := NewService(storage.NewInMemStorage(), WithEvents(producer))
	acc := newAccount(t, "alice", "pw1")

	require.NoError(t, s.Register(ctx, acc))
	require.NoError(t, s.AddExpense(ctx, acc, newExpense(t, "a", expense.Food, 1)))
	require.NoError(t, s.DeleteAccount(ctx, acc))

	require.Len(t, events, 3)
	assert.Equal(t, EventRegistered, events[0].Type)
	assert.Equal(t, EventExpensesUpdated, events[1].Type)
	assert.Equal(t, 1, events[1].Expenses)
	assert.Equal(t, EventDeleted, events[2].Type)
}

func Test_OnPublishFailure_ShouldNotFailWrite(t *testing.T) {
	producer := &producerMock{}
	producer.On("ProduceMessage", "alice", mock.Anything).Return(errors.New("broker down"))
	s := NewService(storage.NewInMemStorage(), WithEvents(producer))

	err := s.Register(context.Background(), newAccount(t, "alice", "pw1"))

	assert.NoError(t, err)
	producer.AssertExpectations(t)
}

func Test_OnSnapshot_ShouldEncodeFreshAccount(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	acc := newAccount(t, "alice", "pw1")
	require.NoError(t, s.Register(ctx, acc))
	require.NoError(t, s.AddExpense(ctx, acc, newExpense(t, "a", expense.Food, 1)))

	body, err := s.Snapshot(ctx, "alice", "pw1")
	require.NoError(t, err)

	decoded, err := account.Unmarshal(body)
	require.NoError(t, err)
	assert.Equal(t, acc.Expenses(), decoded.Expenses())
	assert.Contains(t, string(body), "\n  \"username\": \"alice\"")

	_, err = s.Snapshot(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, customerr.ErrAccess)
}

func Test_OnStaleSessionWrite_ShouldOverwriteNewerExpenses(t *testing.T) {
	ctx := context.Background()
	s := NewService(storage.NewInMemStorage())
	require.NoError(t, s.Register(ctx, newAccount(t, "alice", "pw1")))
	first, err := s.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	second, err := s.Login(ctx, "alice", "pw1")
	require.NoError(t, err)

	require.NoError(t, s.AddExpense(ctx, first, newExpense(t, "a", expense.Food, 1)))
	require.NoError(t, s.AddExpense(ctx, second, newExpense(t, "b", expense.Food, 2)))

	stored, err := s.ExpensesOf(ctx, first)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "b", stored[0].Name())
}
