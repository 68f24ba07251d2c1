// Package memstore provides a minimal in-memory store.Store. The underlying
// block store an application uses is out of scope for this module; this
// implementation exists only so this module's own tests (and anyone
// experimenting with the API) have something to wrap in a store.Recorder.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"go.uber.org/multierr"

	dagproof "github.com/ipld/go-ipld-proofs"
	"github.com/ipld/go-ipld-proofs/store"
)

// Store is a process-local, mutex-guarded map pair: one for CID-addressed
// blocks, one for raw keys.
type Store struct {
	mu     sync.RWMutex
	blocks map[cid.Cid][]byte
	kv     map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		blocks: make(map[cid.Cid][]byte),
		kv:     make(map[string][]byte),
	}
}

func (s *Store) GetBytes(_ context.Context, c cid.Cid) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blocks[c]
	return data, ok, nil
}

func (s *Store) PutRaw(_ context.Context, data []byte, mhCode uint64) (cid.Cid, error) {
	mh, err := multihash.Sum(data, mhCode, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing block: %w", err)
	}
	c := cid.NewCidV1(dagproof.Codec, mh)
	s.mu.Lock()
	s.blocks[c] = data
	s.mu.Unlock()
	return c, nil
}

// Put is PutRaw under this module's fixed hash algorithm.
func (s *Store) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	return s.PutRaw(ctx, data, dagproof.HashCode)
}

func (s *Store) Read(_ context.Context, key []byte) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.kv[string(key)]
	return data, ok, nil
}

func (s *Store) Write(_ context.Context, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[string(key)] = value
	return nil
}

func (s *Store) Delete(_ context.Context, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, string(key))
	return nil
}

func (s *Store) Exists(_ context.Context, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.kv[string(key)]
	return ok, nil
}

func (s *Store) BulkRead(ctx context.Context, keys [][]byte) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		data, _, err := s.Read(ctx, k)
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	return out, nil
}

func (s *Store) BulkWrite(ctx context.Context, kvs []store.KV) error {
	var errs error
	for _, kv := range kvs {
		errs = multierr.Append(errs, s.Write(ctx, kv.Key, kv.Value))
	}
	return errs
}

func (s *Store) BulkDelete(ctx context.Context, keys [][]byte) error {
	var errs error
	for _, k := range keys {
		errs = multierr.Append(errs, s.Delete(ctx, k))
	}
	return errs
}

var _ store.Store = (*Store)(nil)
