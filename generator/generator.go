package generator

import (
	"bytes"
	"context"
	"fmt"

	blocks "github.com/ipfs/go-block-format"
	"github.com/ipfs/go-cid"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/datamodel"

	dagproof "github.com/ipld/go-ipld-proofs"
	"github.com/ipld/go-ipld-proofs/linkscan"
	"github.com/ipld/go-ipld-proofs/store"
)

// Generator assembles proofs from a Recorder's witness table. It holds no
// state of its own between calls and can be constructed fresh per request
// or reused across many.
type Generator struct {
	recorder *store.Recorder
}

// New builds a Generator over r's witness table.
func New(r *store.Recorder) *Generator {
	return &Generator{recorder: r}
}

// Generate CBOR-encodes item and climbs from it to the highest connectable
// ancestor in the witness table.
func (g *Generator) Generate(ctx context.Context, item datamodel.Node) (*dagproof.Proof, error) {
	data, err := encodeItem(item)
	if err != nil {
		return nil, err
	}
	return g.GenerateRaw(ctx, data, nil)
}

// GenerateToCID CBOR-encodes item and climbs toward root. If root is not
// reachable from item within the witness table, the returned proof still
// reaches whatever the highest connectable ancestor was instead; compare
// Proof.Root() against root to detect that, or use GenerateToCIDStrict.
func (g *Generator) GenerateToCID(ctx context.Context, item datamodel.Node, root cid.Cid) (*dagproof.Proof, error) {
	data, err := encodeItem(item)
	if err != nil {
		return nil, err
	}
	return g.GenerateRaw(ctx, data, &root)
}

// GenerateToCIDStrict is GenerateToCID but returns dagproof.ErrRootUnreachable
// instead of a proof whose root falls short of the requested one.
func (g *Generator) GenerateToCIDStrict(ctx context.Context, item datamodel.Node, root cid.Cid) (*dagproof.Proof, error) {
	p, err := g.GenerateToCID(ctx, item, root)
	if err != nil {
		return nil, err
	}
	if !p.Root().Equals(root) {
		return nil, dagproof.ErrRootUnreachable
	}
	return p, nil
}

// GenerateRaw is the low-level entry point underlying Generate and
// GenerateToCID: data is the already-encoded item being proven, and root,
// if non-nil, is the CID generation should stop at. ctx is accepted for
// symmetry with the rest of this module's store-facing calls but is not
// currently threaded anywhere blocking; the search itself runs entirely
// over the witness snapshot already held in memory.
func (g *Generator) GenerateRaw(_ context.Context, data []byte, root *cid.Cid) (*dagproof.Proof, error) {
	leafCID, err := dagproof.NewCID(data)
	if err != nil {
		return nil, err
	}
	if !g.recorder.Has(leafCID) {
		return nil, dagproof.ErrNodeNotFound
	}

	var proof *dagproof.Proof
	err = g.recorder.BorrowWitness(func(entries []store.WitnessEntry) error {
		nodes, buildErr := buildChain(data, leafCID, root, entries)
		if buildErr != nil {
			return buildErr
		}
		proof = dagproof.NewProof(nodes)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return proof, nil
}

// GenerateRawStrict is GenerateRaw but returns dagproof.ErrRootUnreachable
// instead of a proof that falls short of a non-nil root.
func (g *Generator) GenerateRawStrict(ctx context.Context, data []byte, root cid.Cid) (*dagproof.Proof, error) {
	p, err := g.GenerateRaw(ctx, data, &root)
	if err != nil {
		return nil, err
	}
	if !p.Root().Equals(root) {
		return nil, dagproof.ErrRootUnreachable
	}
	return p, nil
}

func encodeItem(item datamodel.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := dagcbor.Encode(item, &buf); err != nil {
		return nil, fmt.Errorf("encoding proof item: %w", err)
	}
	return buf.Bytes(), nil
}

// scanCacheEntry memoizes that a witnessed block, not yet consumed into the
// chain, is known to link to the key it's stored under. This is discovered
// as a side effect of scanning that block for something else first.
type scanCacheEntry struct {
	cid  cid.Cid
	data []byte
}

// buildChain runs the search: starting at leafCID, repeatedly look for a
// witnessed block that links to the current node, append it to the chain,
// and make it the new current node. The witness entries are scanned at
// most once each across the whole search, via the cursor held in this
// function's scope, which persists across iterations of the outer loop; a
// block found to link somewhere other than the node being searched for is
// remembered in scanCache rather than rescanned later.
//
// This finds the first connected path, not the shortest or most canonical
// one, per this package's stated non-goals.
func buildChain(leafData []byte, leafCID cid.Cid, root *cid.Cid, entries []store.WitnessEntry) ([]blocks.Block, error) {
	leafBlock, err := blocks.NewBlockWithCid(leafData, leafCID)
	if err != nil {
		return nil, err
	}
	chain := []blocks.Block{leafBlock}
	current := leafCID

	scanCache := make(map[cid.Cid]scanCacheEntry, len(entries))
	cursor := 0

	for {
		if root != nil && root.Equals(current) {
			break
		}

		if entry, ok := scanCache[current]; ok {
			delete(scanCache, current)
			blk, err := blocks.NewBlockWithCid(entry.data, entry.cid)
			if err != nil {
				return nil, err
			}
			chain = append(chain, blk)
			current = entry.cid
			continue
		}

		advanced := false
		for ; cursor < len(entries); cursor++ {
			candidate := entries[cursor]
			links, matched := scanFor(candidate.Data, current)
			if matched {
				blk, err := blocks.NewBlockWithCid(candidate.Data, candidate.CID)
				if err != nil {
					return nil, err
				}
				chain = append(chain, blk)
				current = candidate.CID
				cursor++
				advanced = true
				break
			}
			for _, link := range links {
				if _, ok := scanCache[link]; !ok {
					scanCache[link] = scanCacheEntry{cid: candidate.CID, data: candidate.Data}
				}
			}
		}
		if advanced {
			continue
		}
		// Every unvisited witness entry has been scanned and none links to
		// current. If a root was requested and this isn't it, the caller
		// finds out by comparing Proof.Root() (see GenerateRawStrict).
		break
	}

	return chain, nil
}

// scanFor scans data for its embedded links, reporting whether target is
// among them. The links found along the way (other than target, once
// found) are returned so the caller can cache them for a future search.
func scanFor(data []byte, target cid.Cid) (links []cid.Cid, matched bool) {
	s := linkscan.FromBytes(data)
	for s.Next() {
		link := s.Link()
		if link.Equals(target) {
			return links, true
		}
		links = append(links, link)
	}
	return links, false
}
