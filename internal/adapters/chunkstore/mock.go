package chunkstore

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockChunkStore struct {
	mock.Mock
}

func NewMockChunkStore() *MockChunkStore {
	return &MockChunkStore{}
}

func (m *MockChunkStore) Allocate(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}

func (m *MockChunkStore) WriteChunk(ctx context.Context, taskID uuid.UUID, index int, r io.Reader, expected int64) (int64, error) {
	args := m.Called(ctx, taskID, index, r, expected)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChunkStore) RemoveChunk(ctx context.Context, taskID uuid.UUID, index int) error {
	args := m.Called(ctx, taskID, index)
	return args.Error(0)
}

func (m *MockChunkStore) ListChunks(ctx context.Context, taskID uuid.UUID) ([]int, error) {
	args := m.Called(ctx, taskID)
	indices, _ := args.Get(0).([]int)
	return indices, args.Error(1)
}

func (m *MockChunkStore) Assemble(ctx context.Context, taskID uuid.UUID, total int) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, taskID, total)
	payload, _ := args.Get(0).(io.ReadCloser)
	return payload, args.Get(1).(int64), args.Error(2)
}

func (m *MockChunkStore) Purge(ctx context.Context, taskID uuid.UUID) error {
	args := m.Called(ctx, taskID)
	return args.Error(0)
}
