package dagproof_test

import (
	"bytes"
	"testing"

	blocks "github.com/ipfs/go-block-format"
	"github.com/stretchr/testify/require"

	dagproof "github.com/ipld/go-ipld-proofs"
	"github.com/ipld/go-ipld-proofs/testutil"
)

func TestNewProofPanicsOnEmpty(t *testing.T) {
	require.Panics(t, func() {
		dagproof.NewProof(nil)
	})
}

func threeBlockChain(t *testing.T) []blocks.Block {
	leafNode := testutil.String("leaf value")
	leafBlk := testutil.Block(t, leafNode)

	midNode := testutil.Map(t, testutil.Entry{Key: "child", Value: testutil.LinkTo(leafBlk.Cid())})
	midBlk := testutil.Block(t, midNode)

	rootNode := testutil.List(t, testutil.LinkTo(midBlk.Cid()), testutil.Int(1))
	rootBlk := testutil.Block(t, rootNode)

	return []blocks.Block{leafBlk, midBlk, rootBlk}
}

func TestProofRootAndNodes(t *testing.T) {
	chain := threeBlockChain(t)
	p := dagproof.NewProof(chain)
	require.True(t, p.Root().Equals(chain[2].Cid()))
	require.Len(t, p.Nodes(), 3)
	require.NoError(t, p.Validate())
}

func TestProofValidateRejectsBrokenLink(t *testing.T) {
	chain := threeBlockChain(t)

	unrelated := testutil.Block(t, testutil.String("not actually linked"))
	broken := []blocks.Block{chain[0], unrelated, chain[2]}

	p := dagproof.NewProof(broken)
	err := p.Validate()
	require.Error(t, err)
	var invalid *dagproof.InvalidProofError
	require.ErrorAs(t, err, &invalid)
	require.True(t, invalid.Link.Equals(chain[0].Cid()))
}

func TestProofSerializeDeserializeRoundTrip(t *testing.T) {
	chain := threeBlockChain(t)
	p := dagproof.NewProof(chain)

	wire, err := p.Serialize()
	require.NoError(t, err)

	p2, err := dagproof.Deserialize(wire)
	require.NoError(t, err)
	require.NoError(t, p2.Validate())
	require.True(t, p2.Root().Equals(p.Root()))
	require.Len(t, p2.Nodes(), len(chain))
	for i, node := range p2.Nodes() {
		require.True(t, node.Cid().Equals(chain[i].Cid()))
		require.Equal(t, chain[i].RawData(), node.RawData())
	}
}

func TestDeserializeRejectsNonArray(t *testing.T) {
	n := testutil.String("not an array")
	_, err := dagproof.Deserialize(testutil.Encode(t, n))
	require.Error(t, err)
}

func TestProofCARRoundTrip(t *testing.T) {
	chain := threeBlockChain(t)
	p := dagproof.NewProof(chain)

	var buf bytes.Buffer
	require.NoError(t, p.WriteCAR(&buf))

	p2, err := dagproof.ReadCAR(&buf)
	require.NoError(t, err)
	require.NoError(t, p2.Validate())
	require.True(t, p2.Root().Equals(p.Root()))
	require.Len(t, p2.Nodes(), len(chain))
	for i, node := range p2.Nodes() {
		require.True(t, node.Cid().Equals(chain[i].Cid()))
	}
}
