package storage

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) PutObject(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, name, r, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) GetObject(ctx context.Context, name string) (io.ReadCloser, error) {
	args := m.Called(ctx, name)
	body, _ := args.Get(0).(io.ReadCloser)
	return body, args.Error(1)
}

func (m *MockStorage) DeleteObject(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStorage) ObjectExists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}
