package local_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/JunyuZhan/lawfirm-archive/internal/adapters/chunkstore/local"
	"github.com/JunyuZhan/lawfirm-archive/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*local.Store, string) {
	t.Helper()
	root := t.TempDir()
	store, err := local.NewStore(root)
	require.NoError(t, err)
	return store, root
}

func TestStore_WriteAndAssemble(t *testing.T) {
	ctx := context.Background()

	t.Run("success - assembles in ascending order whatever the write order", func(t *testing.T) {
		// Arrange
		store, _ := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		chunks := map[int][]byte{1: []byte("alpha-"), 2: []byte("bravo-"), 3: []byte("charlie")}
		for _, idx := range []int{3, 1, 2} {
			n, err := store.WriteChunk(ctx, taskID, idx, bytes.NewReader(chunks[idx]), int64(len(chunks[idx])))
			require.NoError(t, err)
			require.Equal(t, int64(len(chunks[idx])), n)
		}

		// Act
		payload, size, err := store.Assemble(ctx, taskID, 3)

		// Assert
		require.NoError(t, err)
		defer payload.Close()
		data, err := io.ReadAll(payload)
		require.NoError(t, err)
		assert.Equal(t, "alpha-bravo-charlie", string(data))
		assert.Equal(t, int64(len(data)), size)
	})

	t.Run("success - rewriting an index replaces the chunk", func(t *testing.T) {
		// Arrange
		store, _ := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		_, err := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("first")), 5)
		require.NoError(t, err)

		// Act
		_, err = store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("second")), 6)

		// Assert
		require.NoError(t, err)
		indices, err := store.ListChunks(ctx, taskID)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, indices)
		payload, _, err := store.Assemble(ctx, taskID, 1)
		require.NoError(t, err)
		defer payload.Close()
		data, _ := io.ReadAll(payload)
		assert.Equal(t, "second", string(data))
	})

	t.Run("error - wrong size keeps the committed chunk", func(t *testing.T) {
		// Arrange
		store, root := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		_, err := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("good")), 4)
		require.NoError(t, err)

		// Act
		_, shortErr := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("ba")), 4)
		_, longErr := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("toolong")), 4)

		// Assert
		assert.ErrorIs(t, shortErr, local.ErrChunkSize)
		assert.ErrorIs(t, shortErr, domain.ErrValidation)
		assert.ErrorIs(t, longErr, local.ErrChunkSize)
		entries, err := os.ReadDir(filepath.Join(root, taskID.String()))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "1", entries[0].Name())
		payload, _, err := store.Assemble(ctx, taskID, 1)
		require.NoError(t, err)
		defer payload.Close()
		data, _ := io.ReadAll(payload)
		assert.Equal(t, "good", string(data))
	})

	t.Run("error - gap is an assembly error", func(t *testing.T) {
		// Arrange
		store, _ := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		_, err := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("a")), 1)
		require.NoError(t, err)
		_, err = store.WriteChunk(ctx, taskID, 3, bytes.NewReader([]byte("c")), 1)
		require.NoError(t, err)

		// Act
		payload, _, err := store.Assemble(ctx, taskID, 3)

		// Assert
		assert.Nil(t, payload)
		assert.ErrorIs(t, err, domain.ErrAssembly)
		assert.Contains(t, err.Error(), "chunk 2 of 3")
	})

	t.Run("error - write after purge fails", func(t *testing.T) {
		// Arrange
		store, _ := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		require.NoError(t, store.Purge(ctx, taskID))

		// Act
		_, err := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("late")), 4)

		// Assert
		assert.ErrorIs(t, err, local.ErrNoStagingArea)
	})
}

func TestStore_AssembledPayloadRemovedOnClose(t *testing.T) {
	// Arrange
	ctx := context.Background()
	store, root := newStore(t)
	taskID := uuid.New()
	require.NoError(t, store.Allocate(ctx, taskID))
	_, err := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("payload")), 7)
	require.NoError(t, err)
	payload, _, err := store.Assemble(ctx, taskID, 1)
	require.NoError(t, err)
	assembled := filepath.Join(root, taskID.String(), "assembled")
	_, statErr := os.Stat(assembled)
	require.NoError(t, statErr)

	// Act
	err = payload.Close()

	// Assert
	require.NoError(t, err)
	_, statErr = os.Stat(assembled)
	assert.True(t, os.IsNotExist(statErr))
	indices, err := store.ListChunks(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, indices)
}

func TestStore_PurgeAndRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("success - purge removes directory and is idempotent", func(t *testing.T) {
		// Arrange
		store, root := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		_, err := store.WriteChunk(ctx, taskID, 1, bytes.NewReader([]byte("x")), 1)
		require.NoError(t, err)

		// Act
		err = store.Purge(ctx, taskID)
		errAgain := store.Purge(ctx, taskID)

		// Assert
		require.NoError(t, err)
		require.NoError(t, errAgain)
		_, statErr := os.Stat(filepath.Join(root, taskID.String()))
		assert.True(t, os.IsNotExist(statErr))
		indices, err := store.ListChunks(ctx, taskID)
		require.NoError(t, err)
		assert.Empty(t, indices)
	})

	t.Run("success - remove chunk ignores missing files", func(t *testing.T) {
		// Arrange
		store, _ := newStore(t)
		taskID := uuid.New()
		require.NoError(t, store.Allocate(ctx, taskID))
		_, err := store.WriteChunk(ctx, taskID, 2, bytes.NewReader([]byte("x")), 1)
		require.NoError(t, err)

		// Act
		err = store.RemoveChunk(ctx, taskID, 2)
		errMissing := store.RemoveChunk(ctx, taskID, 7)

		// Assert
		require.NoError(t, err)
		require.NoError(t, errMissing)
		indices, _ := store.ListChunks(ctx, taskID)
		assert.Empty(t, indices)
	})
}
