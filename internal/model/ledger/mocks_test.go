package ledger

import (
	"context"

	"github.com/stretchr/testify/mock"
	"max.ks1230/expense-ledger/internal/model/storage"
)

type cacheMock struct {
	mock.Mock
}

func (m *cacheMock) GetDocument(username string) ([]byte, error) {
	args := m.Called(username)
	body, _ := args.Get(0).([]byte)
	return body, args.Error(1)
}

func (m *cacheMock) CacheDocument(username string, body []byte) error {
	return m.Called(username, body).Error(0)
}

func (m *cacheMock) Invalidate(username string) error {
	return m.Called(username).Error(0)
}

type producerMock struct {
	mock.Mock
}

func (m *producerMock) ProduceMessage(key string, message []byte) error {
	return m.Called(key, message).Error(0)
}

type storageMock struct {
	mock.Mock
}

func (m *storageMock) FindByCredentials(ctx context.Context, username, password string) (storage.Document, error) {
	args := m.Called(ctx, username, password)
	return args.Get(0).(storage.Document), args.Error(1)
}

func (m *storageMock) Get(ctx context.Context, username string) (storage.Document, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(storage.Document), args.Error(1)
}

func (m *storageMock) Insert(ctx context.Context, doc storage.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *storageMock) UpdateBody(ctx context.Context, username string, body []byte) error {
	return m.Called(ctx, username, body).Error(0)
}

func (m *storageMock) Delete(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}
