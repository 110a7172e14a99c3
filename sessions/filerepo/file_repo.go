// Package filerepo persists session keys in a single JSON document on disk, optionally
// sealed with a passphrase.
package filerepo

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
)

const fileVersion = 1

var _ sessions.Repo = (*FileRepo)(nil)

// FileRepo is a sessions.Repo backed by one file. Every write rewrites the whole document
// through a temp file and rename, so a crash leaves either the old or the new content.
// Concurrent writers in other processes are last-write-wins.
type FileRepo struct {
	path   string
	sealer *Sealer
	lock   sync.Mutex
}

type document struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values,omitempty"`
	Sealed  *sealedBlob       `json:"sealed,omitempty"`
}

// Option defines a function type to modify the FileRepo instance.
type Option func(*FileRepo)

// WithPassphrase seals the document with a key derived from passphrase. An empty
// passphrase keeps the file in plain JSON.
func WithPassphrase(passphrase string) Option {
	return func(r *FileRepo) {
		if passphrase != "" {
			r.sealer = NewSealer(passphrase)
		}
	}
}

// WithSealer uses a prepared sealer (tests use a cheap key-derivation cost).
func WithSealer(s *Sealer) Option {
	return func(r *FileRepo) {
		r.sealer = s
	}
}

func New(path string, options ...Option) *FileRepo {
	r := &FileRepo{path: path}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Path returns the file location.
func (r *FileRepo) Path() string {
	return r.path
}

func (r *FileRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.load()
	if err != nil {
		return nil, err
	}
	v, ok := values[key]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return []byte(v), nil
}

func (r *FileRepo) Set(_ context.Context, key string, value []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.load()
	if err != nil {
		return err
	}
	values[key] = string(value)
	return r.save(values)
}

func (r *FileRepo) Delete(_ context.Context, keys ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	values, err := r.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := values[k]; ok {
			delete(values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return r.save(values)
}

func (r *FileRepo) load() (map[string]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", r.path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decode %s", r.path)
	}

	if doc.Sealed == nil {
		if doc.Values == nil {
			doc.Values = map[string]string{}
		}
		return doc.Values, nil
	}

	if r.sealer == nil {
		return nil, errors.ErrSealed
	}
	plain, err := r.sealer.Open(*doc.Sealed)
	if err != nil {
		return nil, err
	}
	values := map[string]string{}
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, errors.Wrapf(err, "decode sealed values")
	}
	return values, nil
}

func (r *FileRepo) save(values map[string]string) error {
	doc := document{Version: fileVersion}
	if r.sealer == nil {
		doc.Values = values
	} else {
		plain, err := json.Marshal(values)
		if err != nil {
			return errors.Wrapf(err, "encode values")
		}
		blob, err := r.sealer.Seal(plain)
		if err != nil {
			return err
		}
		doc.Sealed = &blob
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", r.path)
	}
	return writeFileAtomic(r.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "chmod %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "rename to %s", path)
	}
	return nil
}
