package seriallog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordWriter_AppendsWithoutTruncating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")
	prior := "2020-01-01,00:00:00,old\n"
	require.NoError(t, os.WriteFile(path, []byte(prior), 0o644))

	ts := time.Date(2024, time.March, 5, 7, 8, 9, 0, time.Local)
	w, err := OpenRecordWriter(path)
	require.NoError(t, err)
	require.Equal(t, path, w.Path())
	require.NoError(t, w.Append(NewRecord(ts, []byte("a"))))
	require.NoError(t, w.Append(NewRecord(ts.Add(time.Second), []byte("b"))))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, prior+"2024-03-05,07:08:09,a\n2024-03-05,07:08:10,b\n", string(data))
}

func TestRecordWriter_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.csv")
	w, err := OpenRecordWriter(path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Zero(t, info.Size())
}

func TestRecordWriter_OpenError(t *testing.T) {
	_, err := OpenRecordWriter(filepath.Join(t.TempDir(), "missing", "capture.csv"))
	require.ErrorIs(t, err, ErrFileOpen)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRecordWriter_WriteErrorAfterClose(t *testing.T) {
	w, err := OpenRecordWriter(filepath.Join(t.TempDir(), "capture.csv"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	err = w.Append(NewRecord(time.Now(), []byte("lost")))
	require.ErrorIs(t, err, ErrFileWrite)
	require.True(t, errors.Is(err, os.ErrClosed))
}

func TestRecordWriter_ConcurrentAppendsDoNotInterleave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.csv")
	w, err := OpenRecordWriter(path)
	require.NoError(t, err)

	payload := strings.Repeat("x", 4096)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				assert.NoError(t, w.Append(NewRecord(time.Now(), []byte(payload))))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 160)
	for _, line := range lines {
		require.Len(t, line, len("2024-03-05,07:08:09,")+len(payload))
		require.True(t, strings.HasSuffix(line, ","+payload))
	}
}
