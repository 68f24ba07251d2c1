package testutil

import (
	"bytes"
	"context"
	"testing"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/stretchr/testify/require"

	dagproof "github.com/ipld/go-ipld-proofs"
)

// Int, String and Bytes build plain scalar nodes.
func Int(v int64) datamodel.Node     { return basicnode.NewInt(v) }
func String(v string) datamodel.Node { return basicnode.NewString(v) }
func Bytes(v []byte) datamodel.Node  { return basicnode.NewBytes(v) }

// LinkTo builds a node holding a dag-cbor link to c.
func LinkTo(c cid.Cid) datamodel.Node {
	return basicnode.NewLink(cidlink.Link{Cid: c})
}

// List builds a list node out of already-built child nodes.
func List(t *testing.T, items ...datamodel.Node) datamodel.Node {
	t.Helper()
	nb := basicnode.Prototype.Any.NewBuilder()
	la, err := nb.BeginList(int64(len(items)))
	require.NoError(t, err)
	for _, item := range items {
		require.NoError(t, la.AssembleValue().AssignNode(item))
	}
	require.NoError(t, la.Finish())
	return nb.Build()
}

// Entry is a single key/value pair for Map.
type Entry struct {
	Key   string
	Value datamodel.Node
}

// Map builds a map node out of already-built entries.
func Map(t *testing.T, entries ...Entry) datamodel.Node {
	t.Helper()
	nb := basicnode.Prototype.Any.NewBuilder()
	ma, err := nb.BeginMap(int64(len(entries)))
	require.NoError(t, err)
	for _, e := range entries {
		va, err := ma.AssembleEntry(e.Key)
		require.NoError(t, err)
		require.NoError(t, va.AssignNode(e.Value))
	}
	require.NoError(t, ma.Finish())
	return nb.Build()
}

// Encode CBOR-encodes n the same way the generator encodes a proof item.
func Encode(t *testing.T, n datamodel.Node) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, dagcbor.Encode(n, &buf))
	return buf.Bytes()
}

// Block encodes n and wraps it (and its CID) as a blocks.Block.
func Block(t *testing.T, n datamodel.Node) blocks.Block {
	t.Helper()
	data := Encode(t, n)
	c, err := dagproof.NewCID(data)
	require.NoError(t, err)
	blk, err := blocks.NewBlockWithCid(data, c)
	require.NoError(t, err)
	return blk
}

// CIDOf is dagproof.NewCID, failing the test on error.
func CIDOf(t *testing.T, data []byte) cid.Cid {
	t.Helper()
	c, err := dagproof.NewCID(data)
	require.NoError(t, err)
	return c
}

// putter is satisfied by both *store.Recorder and *memstore.Store, letting
// PutNode populate either without this package importing store or
// memstore.
type putter interface {
	Put(ctx context.Context, data []byte) (cid.Cid, error)
}

// PutNode encodes n and stores it via p, failing the test on error.
func PutNode(t *testing.T, ctx context.Context, p putter, n datamodel.Node) cid.Cid {
	t.Helper()
	c, err := p.Put(ctx, Encode(t, n))
	require.NoError(t, err)
	return c
}
