package storage // import "github.com/Xunop/json2epub/internal/storage"

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"

	"github.com/Xunop/json2epub/internal/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// StoredFile describes a file written by StoreFile.
type StoredFile struct {
	Path string
	Size int64
	// Hash is the hex encoded SHA-256 of the content.
	Hash string
}

// StoreFile writes the output of write to path. The content goes to a
// temporary file in the same directory first, so path is only created or
// replaced when write succeeds.
func StoreFile(path string, write func(w io.Writer) error) (*StoredFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "unable to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return nil, errors.Wrap(err, "unable to create temporary file")
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	counter := &countWriter{w: io.MultiWriter(tmp, hash)}
	if err := write(counter); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(err, "unable to write file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, errors.Wrapf(err, "unable to move file to %s", path)
	}

	stored := &StoredFile{
		Path: path,
		Size: counter.n,
		Hash: hex.EncodeToString(hash.Sum(nil)),
	}
	log.Debug("Stored file", zap.String("path", stored.Path), zap.Int64("size", stored.Size), zap.String("hash", stored.Hash))
	return stored, nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
