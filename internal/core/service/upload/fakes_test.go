package upload_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/port"
	"github.com/google/uuid"
)

// memoryCatalog backs the unit of work with maps for end-to-end service tests
type memoryCatalog struct {
	mu        sync.Mutex
	tasks     map[uuid.UUID]domain.UploadTask
	docs      map[uuid.UUID]domain.Document
	cases     map[uuid.UUID]bool
	createErr error
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{
		tasks: map[uuid.UUID]domain.UploadTask{},
		docs:  map[uuid.UUID]domain.Document{},
		cases: map[uuid.UUID]bool{},
	}
}

func (c *memoryCatalog) addCase() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := uuid.New()
	c.cases[id] = true
	return id
}

func (c *memoryCatalog) task(id uuid.UUID) domain.UploadTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tasks[id]
}

func (c *memoryCatalog) documents() []domain.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Document, 0, len(c.docs))
	for _, d := range c.docs {
		out = append(out, d)
	}
	return out
}

func (c *memoryCatalog) Execute(_ context.Context, fn func(uow port.UnitOfWork) error) error {
	return fn(c)
}

func (c *memoryCatalog) UploadTaskRepo() port.UploadTaskRepository { return memoryTasks{c} }
func (c *memoryCatalog) DocumentRepo() port.DocumentRepository     { return memoryDocuments{c} }
func (c *memoryCatalog) CaseRepo() port.CaseRepository             { return memoryCases{c} }

type memoryTasks struct{ c *memoryCatalog }

func (r memoryTasks) Create(_ context.Context, task domain.UploadTask) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	task.ReceivedChunks = slices.Clone(task.ReceivedChunks)
	r.c.tasks[task.ID] = task
	return nil
}

func (r memoryTasks) FindByID(_ context.Context, id uuid.UUID) (*domain.UploadTask, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	task, ok := r.c.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	task.ReceivedChunks = slices.Clone(task.ReceivedChunks)
	slices.Sort(task.ReceivedChunks)
	return &task, nil
}

func (r memoryTasks) AddChunk(_ context.Context, id uuid.UUID, index int) (int, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	task, ok := r.c.tasks[id]
	if !ok {
		return 0, domain.ErrTaskNotFound
	}
	if !slices.Contains(task.ReceivedChunks, index) {
		task.ReceivedChunks = append(task.ReceivedChunks, index)
	}
	r.c.tasks[id] = task
	return len(task.ReceivedChunks), nil
}

func (r memoryTasks) UpdateState(_ context.Context, id uuid.UUID, state domain.TaskState) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	task, ok := r.c.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	task.State = state
	r.c.tasks[id] = task
	return nil
}

func (r memoryTasks) FindExpirable(_ context.Context, states []domain.TaskState, createdBefore time.Time) ([]domain.UploadTask, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []domain.UploadTask
	for _, t := range r.c.tasks {
		if slices.Contains(states, t.State) && t.CreatedAt.Before(createdBefore) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r memoryTasks) FindByStates(_ context.Context, states []domain.TaskState, limit int) ([]domain.UploadTask, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []domain.UploadTask
	for _, t := range r.c.tasks {
		if len(states) == 0 || slices.Contains(states, t.State) {
			out = append(out, t)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memoryTasks) Delete(_ context.Context, id uuid.UUID) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.tasks, id)
	return nil
}

type memoryDocuments struct{ c *memoryCatalog }

func (r memoryDocuments) Create(_ context.Context, doc domain.Document) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if r.c.createErr != nil {
		return r.c.createErr
	}
	r.c.docs[doc.ID] = doc
	return nil
}

func (r memoryDocuments) FindByID(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	doc, ok := r.c.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return &doc, nil
}

func (r memoryDocuments) FindByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Document, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []domain.Document
	for _, id := range ids {
		if doc, ok := r.c.docs[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (r memoryDocuments) DeleteAll(_ context.Context, ids []uuid.UUID) (int64, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := r.c.docs[id]; ok {
			delete(r.c.docs, id)
			n++
		}
	}
	return n, nil
}

func (r memoryDocuments) UpdateAll(_ context.Context, ids []uuid.UUID, patch domain.DocumentPatch, updatedAt time.Time) (int64, error) {
	return 0, fmt.Errorf("not used by upload tests")
}

type memoryCases struct{ c *memoryCatalog }

func (r memoryCases) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	return r.c.cases[id], nil
}

// memoryObjects is an in-process object store with failure injection
type memoryObjects struct {
	mu     sync.Mutex
	blobs  map[string][]byte
	putErr error
	onPut  func()
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{blobs: map[string][]byte{}}
}

func (o *memoryObjects) PutObject(_ context.Context, name string, r io.Reader, size int64, _ string) error {
	if o.onPut != nil {
		o.onPut()
	}
	if o.putErr != nil {
		return o.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("short put: %d of %d", len(data), size)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.blobs[name] = data
	return nil
}

func (o *memoryObjects) GetObject(_ context.Context, name string) (io.ReadCloser, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.blobs[name]
	if !ok {
		return nil, domain.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (o *memoryObjects) DeleteObject(_ context.Context, name string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.blobs, name)
	return nil
}

func (o *memoryObjects) ObjectExists(_ context.Context, name string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.blobs[name]
	return ok, nil
}

func (o *memoryObjects) blob(name string) ([]byte, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	data, ok := o.blobs[name]
	return data, ok
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ArchiveEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event domain.ArchiveEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
