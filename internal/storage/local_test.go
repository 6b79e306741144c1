package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidKey(t *testing.T) {
	valid := []string{
		"ncco/abc.json",
		"iv-1/q_0.mp3",
		"resumes/resume_x.txt",
	}
	for _, k := range valid {
		assert.True(t, ValidKey(k), k)
	}

	invalid := []string{
		"",
		"/etc/passwd",
		"../secrets",
		"a/../../b",
		"a/./b",
		"dir\\file",
		"..",
	}
	for _, k := range invalid {
		assert.False(t, ValidKey(k), k)
	}
}

func TestLocalStorePutOpen(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := s.Put(ctx, "iv-1/q_0.mp3", "audio/mpeg", strings.NewReader("audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "iv-1/q_0.mp3", key)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "audio-bytes", string(b))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Put(ctx, "../outside.txt", "text/plain", strings.NewReader("x"))
	assert.Error(t, err)

	_, err = s.Open(ctx, "/etc/passwd")
	assert.Error(t, err)
}

func TestLocalStoreOpenMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Open(context.Background(), "nope/missing.mp3")
	assert.Error(t, err)
}

func TestSweepRemovesOldFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Put(ctx, "old/stale.mp3", "audio/mpeg", strings.NewReader("old"))
	require.NoError(t, err)
	_, err = s.Put(ctx, "new/fresh.mp3", "audio/mpeg", strings.NewReader("new"))
	require.NoError(t, err)

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old", "stale.mp3"), old, old))

	require.NoError(t, s.Sweep(36*time.Hour))

	_, err = s.Open(ctx, "old/stale.mp3")
	assert.Error(t, err)

	rc, err := s.Open(ctx, "new/fresh.mp3")
	require.NoError(t, err)
	rc.Close()
}
