package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
)

// ErrNoStagingArea is returned when writing to a task whose staging directory is gone
var ErrNoStagingArea = errors.New("staging area does not exist")

// ErrChunkSize is returned when a chunk body does not match its expected length
var ErrChunkSize = fmt.Errorf("%w: chunk size mismatch", domain.ErrValidation)

const assembledName = "assembled"

// Store keeps chunks as <root>/<taskID>/<index> files
type Store struct {
	root string
}

// NewStore creates the staging root if needed
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create staging root: %w", err)
	}
	return &Store{root: root}, nil
}

func (s *Store) taskDir(taskID uuid.UUID) string {
	return filepath.Join(s.root, taskID.String())
}

func (s *Store) chunkPath(taskID uuid.UUID, index int) string {
	return filepath.Join(s.taskDir(taskID), strconv.Itoa(index))
}

// Allocate creates the staging directory of a task
func (s *Store) Allocate(_ context.Context, taskID uuid.UUID) error {
	return os.MkdirAll(s.taskDir(taskID), 0o750)
}

// WriteChunk stores the chunk bytes. The file is written under a temporary
// name and renamed into place only when exactly expected bytes arrived, so a
// re-delivered index replaces the previous copy atomically and a short or
// oversized body leaves any committed copy untouched.
func (s *Store) WriteChunk(ctx context.Context, taskID uuid.UUID, index int, r io.Reader, expected int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dir := s.taskDir(taskID)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, fmt.Errorf("%w: task %s", ErrNoStagingArea, taskID)
		}
		return 0, err
	}

	tmp, err := os.CreateTemp(dir, fmt.Sprintf(".%d-*.part", index))
	if err != nil {
		return 0, fmt.Errorf("failed to create chunk file: %w", err)
	}
	tmpName := tmp.Name()

	written, err := io.Copy(tmp, io.LimitReader(r, expected+1))
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("failed to write chunk %d: %w", index, err)
	}
	if written != expected {
		_ = os.Remove(tmpName)
		return written, fmt.Errorf("%w: chunk %d has %d bytes, want %d", ErrChunkSize, index, written, expected)
	}

	if err := os.Rename(tmpName, s.chunkPath(taskID, index)); err != nil {
		_ = os.Remove(tmpName)
		return 0, fmt.Errorf("failed to commit chunk %d: %w", index, err)
	}
	return written, nil
}

// RemoveChunk deletes a single chunk, ignoring absent files
func (s *Store) RemoveChunk(_ context.Context, taskID uuid.UUID, index int) error {
	err := os.Remove(s.chunkPath(taskID, index))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// ListChunks returns the staged chunk indices in ascending order
func (s *Store) ListChunks(_ context.Context, taskID uuid.UUID) ([]int, error) {
	entries, err := os.ReadDir(s.taskDir(taskID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []int{}, nil
		}
		return nil, err
	}

	indices := make([]int, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		index, convErr := strconv.Atoi(entry.Name())
		if convErr != nil || index < 1 {
			continue
		}
		indices = append(indices, index)
	}
	sort.Ints(indices)
	return indices, nil
}

// Assemble concatenates chunks 1..total in ascending order into a temporary
// file inside the task directory. Any gap is reported as domain.ErrAssembly.
func (s *Store) Assemble(ctx context.Context, taskID uuid.UUID, total int) (io.ReadCloser, int64, error) {
	present, err := s.ListChunks(ctx, taskID)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list chunks: %v", domain.ErrAssembly, err)
	}
	have := make(map[int]struct{}, len(present))
	for _, idx := range present {
		have[idx] = struct{}{}
	}
	for i := 1; i <= total; i++ {
		if _, ok := have[i]; !ok {
			return nil, 0, fmt.Errorf("%w: chunk %d of %d missing for task %s", domain.ErrAssembly, i, total, taskID)
		}
	}

	path := filepath.Join(s.taskDir(taskID), assembledName)
	out, err := os.Create(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: create payload: %v", domain.ErrAssembly, err)
	}
	payload := &assembledFile{File: out, path: path}

	var size int64
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			_ = payload.Close()
			return nil, 0, err
		}
		n, copyErr := s.appendChunk(out, taskID, i)
		if copyErr != nil {
			_ = payload.Close()
			return nil, 0, fmt.Errorf("%w: chunk %d: %v", domain.ErrAssembly, i, copyErr)
		}
		size += n
	}

	if _, err := out.Seek(0, io.SeekStart); err != nil {
		_ = payload.Close()
		return nil, 0, fmt.Errorf("%w: rewind payload: %v", domain.ErrAssembly, err)
	}
	return payload, size, nil
}

func (s *Store) appendChunk(dst io.Writer, taskID uuid.UUID, index int) (int64, error) {
	f, err := os.Open(s.chunkPath(taskID, index))
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(dst, f)
}

// Purge removes every staged file of a task. Purging twice is a no-op.
func (s *Store) Purge(_ context.Context, taskID uuid.UUID) error {
	if err := os.RemoveAll(s.taskDir(taskID)); err != nil {
		return fmt.Errorf("failed to purge staging area of task %s: %w", taskID, err)
	}
	return nil
}

// assembledFile deletes its backing file on Close. It keeps *os.File's Seek
// so SDKs that need a rewindable body can use it.
type assembledFile struct {
	*os.File
	path string
}

func (a *assembledFile) Close() error {
	closeErr := a.File.Close()
	removeErr := os.Remove(a.path)
	if errors.Is(removeErr, fs.ErrNotExist) {
		removeErr = nil
	}
	return errors.Join(closeErr, removeErr)
}
