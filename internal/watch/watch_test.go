package watch

import (
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRerunsOnWrite(t *testing.T) {
	file := filepath.Join(t.TempDir(), "schema.rowmap")
	require.NoError(t, os.WriteFile(file, []byte("model A {}"), 0o644))

	var calls atomic.Int32
	w, err := NewWatcher(file, func() error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.Debounce = 20 * time.Millisecond
	require.NoError(t, w.Start())
	defer w.Stop()
	assert.Equal(t, int32(1), calls.Load())

	// Several writes in quick succession settle into one callback.
	for range 3 {
		require.NoError(t, os.WriteFile(file, []byte("model B {}"), 0o644))
	}
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 3*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(file), "other.txt"), nil, 0o644))
	time.Sleep(100 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(3))
}

func TestWatcherReportsCallbackErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "schema.rowmap")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	boom := errors.New("invalid schema")
	var first atomic.Bool
	first.Store(true)
	w, err := NewWatcher(file, func() error {
		if first.Swap(false) {
			return nil
		}
		return boom
	})
	require.NoError(t, err)
	w.Debounce = 10 * time.Millisecond

	reported := make(chan error, 4)
	w.OnError = func(err error) { reported <- err }
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	select {
	case err := <-reported:
		assert.ErrorIs(t, err, boom)
	case <-time.After(3 * time.Second):
		t.Fatal("callback error was not reported")
	}

	require.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
}

func TestInitialCallbackFailure(t *testing.T) {
	file := filepath.Join(t.TempDir(), "schema.rowmap")
	w, err := NewWatcher(file, func() error { return errors.New("missing") })
	require.NoError(t, err)
	defer w.Stop()

	assert.ErrorContains(t, w.Start(), "initial callback failed")
	assert.Equal(t, file, w.File())
}
