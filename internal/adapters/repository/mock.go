package repository

import (
	"context"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockUploadTaskRepository struct {
	mock.Mock
}

func NewMockUploadTaskRepository() *MockUploadTaskRepository {
	return &MockUploadTaskRepository{}
}

func (m *MockUploadTaskRepository) Create(ctx context.Context, task domain.UploadTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockUploadTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.UploadTask, error) {
	args := m.Called(ctx, id)
	task, _ := args.Get(0).(*domain.UploadTask)
	return task, args.Error(1)
}

func (m *MockUploadTaskRepository) AddChunk(ctx context.Context, id uuid.UUID, index int) (int, error) {
	args := m.Called(ctx, id, index)
	return args.Int(0), args.Error(1)
}

func (m *MockUploadTaskRepository) UpdateState(ctx context.Context, id uuid.UUID, state domain.TaskState) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockUploadTaskRepository) FindExpirable(ctx context.Context, states []domain.TaskState, createdBefore time.Time) ([]domain.UploadTask, error) {
	args := m.Called(ctx, states, createdBefore)
	tasks, _ := args.Get(0).([]domain.UploadTask)
	return tasks, args.Error(1)
}

func (m *MockUploadTaskRepository) FindByStates(ctx context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error) {
	args := m.Called(ctx, states, limit)
	tasks, _ := args.Get(0).([]domain.UploadTask)
	return tasks, args.Error(1)
}

func (m *MockUploadTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockDocumentRepository struct {
	mock.Mock
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{}
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc domain.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).(*domain.Document)
	return doc, args.Error(1)
}

func (m *MockDocumentRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Document, error) {
	args := m.Called(ctx, ids)
	docs, _ := args.Get(0).([]domain.Document)
	return docs, args.Error(1)
}

func (m *MockDocumentRepository) DeleteAll(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) UpdateAll(ctx context.Context, ids []uuid.UUID, patch domain.DocumentPatch, updatedAt time.Time) (int64, error) {
	args := m.Called(ctx, ids, patch, updatedAt)
	return args.Get(0).(int64), args.Error(1)
}

type MockCaseRepository struct {
	mock.Mock
}

func NewMockCaseRepository() *MockCaseRepository {
	return &MockCaseRepository{}
}

func (m *MockCaseRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockUnitOfWork struct {
	mock.Mock
	uploadTaskRepo *MockUploadTaskRepository
	documentRepo   *MockDocumentRepository
	caseRepo       *MockCaseRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		uploadTaskRepo: &MockUploadTaskRepository{},
		documentRepo:   &MockDocumentRepository{},
		caseRepo:       &MockCaseRepository{},
	}
}

func (m *MockUnitOfWork) UploadTaskRepo() port.UploadTaskRepository {
	return m.uploadTaskRepo
}

func (m *MockUnitOfWork) DocumentRepo() port.DocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) CaseRepo() port.CaseRepository {
	return m.caseRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetUploadTaskRepoMock() *MockUploadTaskRepository {
	return m.uploadTaskRepo
}

func (m *MockUnitOfWork) GetDocumentRepoMock() *MockDocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) GetCaseRepoMock() *MockCaseRepository {
	return m.caseRepo
}
