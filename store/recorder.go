package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	dagproof "github.com/ipld/go-ipld-proofs"
)

// Recorder wraps a Store, delegating every call to it, and as a side effect
// retains the raw bytes of every block observed through a CID-addressed
// GetBytes or PutRaw call in an in-memory, first-writer-wins witness table.
// Raw key/value operations pass straight through untouched.
//
// A Recorder is process-local and is not meant to outlive the request or
// session it was built for. It is safe to call its Store methods from
// multiple goroutines, but a generator.Generator built over it requires an
// exclusive read borrow for the duration of proof construction (see
// BorrowWitness); mutating the table while a borrow is outstanding is a
// programming error and panics.
type Recorder struct {
	base Store

	mu       sync.Mutex
	witness  map[cid.Cid][]byte
	borrowed bool
}

// Option configures a Recorder at construction time.
type Option func(*Recorder)

// WithWitnessCapacityHint preallocates the witness table for roughly n
// entries, avoiding rehashing when the expected DAG size is known ahead of
// time.
func WithWitnessCapacityHint(n int) Option {
	return func(r *Recorder) {
		r.witness = make(map[cid.Cid][]byte, n)
	}
}

// New wraps base in a Recorder.
func New(base Store, opts ...Option) *Recorder {
	r := &Recorder{base: base, witness: make(map[cid.Cid][]byte)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Recorder) observe(c cid.Cid, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.borrowed {
		panic("dagproof/store: witness table mutated while a generator holds a read borrow")
	}
	if _, ok := r.witness[c]; !ok {
		r.witness[c] = data
	}
}

// GetBytes delegates to the base store and, on a hit, records the observed
// bytes under c.
func (r *Recorder) GetBytes(ctx context.Context, c cid.Cid) ([]byte, bool, error) {
	data, found, err := r.base.GetBytes(ctx, c)
	if err != nil {
		return nil, false, err
	}
	if found {
		r.observe(c, data)
	}
	return data, found, nil
}

// PutRaw computes the CID for data under mhCode, records it in the witness
// table, then persists it to the base store.
func (r *Recorder) PutRaw(ctx context.Context, data []byte, mhCode uint64) (cid.Cid, error) {
	mh, err := multihash.Sum(data, mhCode, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing block: %w", err)
	}
	c := cid.NewCidV1(dagproof.Codec, mh)
	r.observe(c, data)
	if _, err := r.base.PutRaw(ctx, data, mhCode); err != nil {
		return cid.Undef, err
	}
	return c, nil
}

// Put is PutRaw under this package's fixed hash algorithm, for the common
// case of a caller that isn't choosing its own multihash.
func (r *Recorder) Put(ctx context.Context, data []byte) (cid.Cid, error) {
	return r.PutRaw(ctx, data, dagproof.HashCode)
}

// Read, Write, Delete, Exists, BulkRead, BulkWrite and BulkDelete pass
// straight through to the base store without touching the witness table.

func (r *Recorder) Read(ctx context.Context, key []byte) ([]byte, bool, error) {
	return r.base.Read(ctx, key)
}

func (r *Recorder) Write(ctx context.Context, key, value []byte) error {
	return r.base.Write(ctx, key, value)
}

func (r *Recorder) Delete(ctx context.Context, key []byte) error {
	return r.base.Delete(ctx, key)
}

func (r *Recorder) Exists(ctx context.Context, key []byte) (bool, error) {
	return r.base.Exists(ctx, key)
}

func (r *Recorder) BulkRead(ctx context.Context, keys [][]byte) ([][]byte, error) {
	return r.base.BulkRead(ctx, keys)
}

func (r *Recorder) BulkWrite(ctx context.Context, kvs []KV) error {
	return r.base.BulkWrite(ctx, kvs)
}

func (r *Recorder) BulkDelete(ctx context.Context, keys [][]byte) error {
	return r.base.BulkDelete(ctx, keys)
}

// WitnessEntry is a single (CID, bytes) pair observed by the recorder.
type WitnessEntry struct {
	CID  cid.Cid
	Data []byte
}

// BorrowWitness takes an exclusive read borrow of the witness table for the
// duration of fn, handing fn a snapshot of its entries. It is the only way
// code outside this package may list the table's entries (Has and Witnessed
// look up a single CID); generator.Generator uses it to build proofs. Any
// PutRaw call, or GetBytes call that finds its block, arriving while the
// borrow is outstanding panics, and a nested borrow panics too.
func (r *Recorder) BorrowWitness(fn func(entries []WitnessEntry) error) error {
	r.mu.Lock()
	if r.borrowed {
		r.mu.Unlock()
		panic("dagproof/store: nested witness borrow")
	}
	r.borrowed = true
	entries := make([]WitnessEntry, 0, len(r.witness))
	for c, data := range r.witness {
		entries = append(entries, WitnessEntry{CID: c, Data: data})
	}
	r.mu.Unlock()

	err := fn(entries)

	r.mu.Lock()
	r.borrowed = false
	r.mu.Unlock()

	return err
}

// Has reports whether c has been observed by this recorder, without
// consulting the base store.
func (r *Recorder) Has(c cid.Cid) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.witness[c]
	return ok
}

// Witnessed returns the raw bytes observed for c, if any, without
// consulting the base store.
func (r *Recorder) Witnessed(c cid.Cid) ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	data, ok := r.witness[c]
	return data, ok
}

var _ Store = (*Recorder)(nil)
