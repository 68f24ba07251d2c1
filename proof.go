package dagproof

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-car/v2"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
	"github.com/multiformats/go-varint"

	"github.com/ipld/go-ipld-proofs/linkscan"
)

// Proof is an immutable, ordered chain of blocks: Nodes()[0] is the proven
// leaf, Nodes()[len-1] is the root. For every adjacent pair in the chain,
// the earlier block's CID appears as a link embedded in the later block.
//
// A Proof is built by generator.Generator, or reconstructed from its wire
// form with Deserialize or ReadCAR. There is no exported way to build one
// from an arbitrary slice of blocks without going through NewProof, and an
// empty chain is impossible to represent: NewProof panics rather than
// return a Proof with no nodes.
type Proof struct {
	nodes []blocks.Block
}

// NewProof wraps an already-ordered, leaf-first/root-last chain of blocks.
// It does not itself validate that the chain actually connects; call
// Validate for that. Most callers get a Proof from generator.Generator,
// Deserialize, or ReadCAR rather than calling this directly.
func NewProof(nodes []blocks.Block) *Proof {
	if len(nodes) == 0 {
		panic("dagproof: a proof with no nodes cannot exist")
	}
	return &Proof{nodes: nodes}
}

// Root returns the content identifier of the last (topmost) block in the
// chain.
func (p *Proof) Root() cid.Cid {
	return p.nodes[len(p.nodes)-1].Cid()
}

// Nodes returns the ordered chain, leaf-first, root-last. The returned
// slice is shared with the Proof and must not be mutated.
func (p *Proof) Nodes() []blocks.Block {
	return p.nodes
}

// Validate confirms that every node in the chain is linked to by its
// successor: for each node after the first, it scans the successor's raw
// bytes for links and checks that the predecessor's CID is among them. It
// does not check Root() against any externally-known root; callers that
// need that do it themselves, since what counts as "the expected root" is
// context the Proof doesn't have.
func (p *Proof) Validate() error {
	prev := p.nodes[0].Cid()
	for _, node := range p.nodes[1:] {
		s := linkscan.FromBytes(node.RawData())
		found := false
		for s.Next() {
			if s.Link().Equals(prev) {
				found = true
				break
			}
		}
		if !found {
			return &InvalidProofError{Link: prev, Data: node.RawData()}
		}
		prev = node.Cid()
	}
	return nil
}

// Serialize produces the wire form of a Proof: a CBOR array of byte
// strings, leaf-first, root-last.
func (p *Proof) Serialize() ([]byte, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	la, err := nb.BeginList(int64(len(p.nodes)))
	if err != nil {
		return nil, err
	}
	for _, node := range p.nodes {
		if err := la.AssembleValue().AssignBytes(node.RawData()); err != nil {
			return nil, err
		}
	}
	if err := la.Finish(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dagcbor.Encode(nb.Build(), &buf); err != nil {
		return nil, fmt.Errorf("encoding proof: %w", err)
	}
	return buf.Bytes(), nil
}

// Deserialize reconstructs a Proof from its wire form. Deserializing the
// output of Serialize yields a Proof whose nodes are byte-for-byte
// identical to the original.
func Deserialize(data []byte) (*Proof, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("decoding proof: %w", err)
	}
	n := nb.Build()
	if n.Kind() != datamodel.Kind_List {
		return nil, fmt.Errorf("decoding proof: expected a CBOR array, got %s", n.Kind())
	}
	nodes := make([]blocks.Block, 0, n.Length())
	it := n.ListIterator()
	for !it.Done() {
		_, v, err := it.Next()
		if err != nil {
			return nil, fmt.Errorf("decoding proof: %w", err)
		}
		raw, err := v.AsBytes()
		if err != nil {
			return nil, fmt.Errorf("decoding proof: expected a byte string element: %w", err)
		}
		blk, err := blockFromRaw(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, blk)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("decoding proof: array had no elements")
	}
	return NewProof(nodes), nil
}

func blockFromRaw(raw []byte) (blocks.Block, error) {
	c, err := NewCID(raw)
	if err != nil {
		return nil, err
	}
	return blocks.NewBlockWithCid(raw, c)
}

// WriteCAR writes the proof chain as a CARv1 stream: a dag-cbor header
// declaring Root() as the sole root, followed by one section per node, in
// the same leaf-first/root-last order as Serialize. Unlike a full DAG
// export, this writes exactly the proof's own nodes. It does not traverse
// links, since a proof chain only ever follows one link per node, and a
// sibling link embedded alongside it is never meant to be included.
func (p *Proof) WriteCAR(w io.Writer) error {
	header, err := carHeaderNode(p.Root())
	if err != nil {
		return err
	}
	var hbuf bytes.Buffer
	if err := dagcbor.Encode(header, &hbuf); err != nil {
		return fmt.Errorf("encoding car header: %w", err)
	}
	if err := writeCARSection(w, hbuf.Bytes()); err != nil {
		return fmt.Errorf("writing car header: %w", err)
	}
	for _, node := range p.nodes {
		payload := make([]byte, 0, len(node.Cid().Bytes())+len(node.RawData()))
		payload = append(payload, node.Cid().Bytes()...)
		payload = append(payload, node.RawData()...)
		if err := writeCARSection(w, payload); err != nil {
			return fmt.Errorf("writing car block %s: %w", node.Cid(), err)
		}
	}
	return nil
}

func writeCARSection(w io.Writer, data []byte) error {
	if _, err := w.Write(varint.ToUvarint(uint64(len(data)))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

func carHeaderNode(root cid.Cid) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	ma, err := nb.BeginMap(2)
	if err != nil {
		return nil, err
	}
	va, err := ma.AssembleEntry("version")
	if err != nil {
		return nil, err
	}
	if err := va.AssignInt(1); err != nil {
		return nil, err
	}
	va, err = ma.AssembleEntry("roots")
	if err != nil {
		return nil, err
	}
	la, err := va.BeginList(1)
	if err != nil {
		return nil, err
	}
	if err := la.AssembleValue().AssignLink(cidlink.Link{Cid: root}); err != nil {
		return nil, err
	}
	if err := la.Finish(); err != nil {
		return nil, err
	}
	if err := ma.Finish(); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}

// ReadCAR reads a CARv1 or CARv2 stream and reconstructs a Proof out of its
// blocks, in the order they appear in the stream. It is the counterpart to
// WriteCAR, and also accepts CAR files produced by other tools, so long as
// the block order matches a valid leaf-first/root-last chain; Validate
// confirms that once the Proof is built.
func ReadCAR(r io.Reader) (*Proof, error) {
	cbr, err := car.NewBlockReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading car: %w", err)
	}
	var nodes []blocks.Block
	for {
		blk, err := cbr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading car: %w", err)
		}
		nodes = append(nodes, blk)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("reading car: no blocks in stream")
	}
	return NewProof(nodes), nil
}
