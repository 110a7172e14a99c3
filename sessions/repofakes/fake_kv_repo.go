package sessionrepofakes

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-tms-client/internal/errors"
	"github.com/jrsteele09/go-tms-client/sessions"
)

var _ sessions.Repo = (*FakeKVRepo)(nil)

// ErrInjected is returned by a FakeKVRepo whose failure switches are on.
var ErrInjected = errors.Wrapf(errors.ErrServer, "injected storage failure")

// FakeKVRepo is an in-memory Repo. FailReads/FailWrites simulate a broken or full store.
type FakeKVRepo struct {
	values map[string][]byte
	lock   sync.RWMutex

	FailReads  bool
	FailWrites bool
	Sets       int
	Deletes    int
}

func NewFakeKVRepo() *FakeKVRepo {
	return &FakeKVRepo{
		values: make(map[string][]byte),
	}
}

func (r *FakeKVRepo) Get(_ context.Context, key string) ([]byte, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	if r.FailReads {
		return nil, ErrInjected
	}
	v, ok := r.values[key]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *FakeKVRepo) Set(_ context.Context, key string, value []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Sets++
	if r.FailWrites {
		return ErrInjected
	}
	r.values[key] = append([]byte(nil), value...)
	return nil
}

func (r *FakeKVRepo) Delete(_ context.Context, keys ...string) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Deletes++
	if r.FailWrites {
		return ErrInjected
	}
	for _, k := range keys {
		delete(r.values, k)
	}
	return nil
}

// Raw returns the stored value for key without going through failure injection.
func (r *FakeKVRepo) Raw(key string) (string, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	v, ok := r.values[key]
	return string(v), ok
}

// Put seeds key directly.
func (r *FakeKVRepo) Put(key, value string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.values[key] = []byte(value)
}

// Keys returns the number of stored keys.
func (r *FakeKVRepo) Keys() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.values)
}
