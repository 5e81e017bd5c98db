// Package storage keeps the files uploaded with print jobs.
package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// StoredFile describes a saved upload.
type StoredFile struct {
	Name        string
	Size        int64
	Checksum    string
	ContentType string
}

// Object is an opened upload. Callers must close it.
type Object struct {
	io.ReadCloser
	Size        int64
	ContentType string
}

// FileStore persists uploads under flat names.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (StoredFile, error)
	Open(ctx context.Context, name string) (*Object, error)
}

// StoredName derives a unique storage name from the field name and the client's file name,
// keeping its extension.
func StoredName(field, original string, now time.Time) string {
	if field == "" {
		field = "archivo"
	}
	return fmt.Sprintf("%s-%d-%s%s", field, now.UnixMilli(), uuid.NewString()[:8], strings.ToLower(filepath.Ext(original)))
}

// ValidName reports whether name is a flat file name that cannot escape the store.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.ContainsRune(name, 0)
}

// ContentType guesses the media type from the file extension.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// digestReader counts and hashes everything read through it.
type digestReader struct {
	r    io.Reader
	h    hash.Hash
	size int64
}

func newDigestReader(r io.Reader) *digestReader {
	h, _ := blake2b.New256(nil)
	return &digestReader{r: r, h: h}
}

func (d *digestReader) Read(p []byte) (int, error) {
	n, err := d.r.Read(p)
	if n > 0 {
		d.h.Write(p[:n])
		d.size += int64(n)
	}
	return n, err
}

func (d *digestReader) result(name string) StoredFile {
	return StoredFile{
		Name:        name,
		Size:        d.size,
		Checksum:    hex.EncodeToString(d.h.Sum(nil)),
		ContentType: ContentType(name),
	}
}
