// Package store defines the block-store capability set this module depends
// on (an external collaborator per the package's scope notes) and the
// recording wrapper that observes every block read or written through it.
package store

import (
	"context"

	"github.com/ipfs/go-cid"
)

// BlockStore is the CID-addressed half of the capability set: reading and
// writing whole blocks by content identifier.
type BlockStore interface {
	// GetBytes returns the raw bytes stored under c, or found=false if
	// nothing is stored there.
	GetBytes(ctx context.Context, c cid.Cid) (data []byte, found bool, err error)

	// PutRaw stores data, computing its CID with the given multihash code,
	// and returns that CID.
	PutRaw(ctx context.Context, data []byte, mhCode uint64) (cid.Cid, error)
}

// KV is a single key/value pair, used by the bulk KVStore operations.
type KV struct {
	Key   []byte
	Value []byte
}

// KVStore is the generic key/value half of the capability set. Raw
// key/value operations never touch a Recorder's witness table: only
// CID-addressed reads and writes correspond to DAG traversal, since
// arbitrary keys may address metadata with no place in a proof chain.
type KVStore interface {
	Read(ctx context.Context, key []byte) (data []byte, found bool, err error)
	Write(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
	Exists(ctx context.Context, key []byte) (bool, error)
	BulkRead(ctx context.Context, keys [][]byte) ([][]byte, error)
	BulkWrite(ctx context.Context, kvs []KV) error
	BulkDelete(ctx context.Context, keys [][]byte) error
}

// Store is the full capability set an underlying block store must provide.
type Store interface {
	BlockStore
	KVStore
}
