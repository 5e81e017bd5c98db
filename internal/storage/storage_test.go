package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/spec-kit/printshop-service/internal/domain"
)

func TestStoredName(t *testing.T) {
	at := time.UnixMilli(1735689600123)

	name := StoredName("archivo", "Banner Final.PDF", at)

	assert.Regexp(t, regexp.MustCompile(`^archivo-1735689600123-[0-9a-f]{8}\.pdf$`), name)
	assert.True(t, ValidName(name))
	assert.NotEqual(t, name, StoredName("archivo", "Banner Final.PDF", at))
}

func TestValidName(t *testing.T) {
	for _, bad := range []string{"", ".", "..", "../etc/passwd", `a\b`, "dir/file.png"} {
		assert.False(t, ValidName(bad), bad)
	}
	assert.True(t, ValidName("archivo-1-abcd1234.png"))
}

func TestLocalStore_SaveAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	payload := []byte("%PDF-1.7 print me")

	saved, err := store.Save(context.Background(), "archivo-1-abcd1234.pdf", bytes.NewReader(payload))
	require.NoError(t, err)

	sum := blake2b.Sum256(payload)
	assert.Equal(t, int64(len(payload)), saved.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), saved.Checksum)
	assert.Equal(t, "application/pdf", saved.ContentType)

	obj, err := store.Open(context.Background(), saved.Name)
	require.NoError(t, err)
	defer obj.Close()
	got, err := io.ReadAll(obj)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.Equal(t, int64(len(payload)), obj.Size)
}

func TestLocalStore_RefusesOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "a.png", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	_, err = store.Save(context.Background(), "a.png", bytes.NewReader([]byte("two")))
	assert.Error(t, err)
}

func TestLocalStore_OpenMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Open(context.Background(), "../missing.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocalStore_CancelledContextRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, "b.png", bytes.NewReader([]byte("data")))
	require.ErrorIs(t, err, context.Canceled)

	_, err = store.Open(context.Background(), "b.png")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
