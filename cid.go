package dagproof

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// HashCode is the single multihash code this package will ever compute a CID
// with: Blake2b-256. Changing the hash family would require embedding a
// codec-and-hash-aware CID in each proof node instead of assuming it, which
// is out of scope for this package.
const HashCode = multihash.BLAKE2B_MIN + 31

// Codec is the multicodec every block handled by this package is assumed to
// be encoded with.
const Codec = cid.DagCBOR

// NewCID computes the content identifier for a block's raw bytes: a CIDv1,
// codec dag-cbor, under Blake2b-256. It is a pure, deterministic function of
// data, as required of any CID primitive this package depends on.
func NewCID(data []byte) (cid.Cid, error) {
	mh, err := multihash.Sum(data, HashCode, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hashing block: %w", err)
	}
	return cid.NewCidV1(Codec, mh), nil
}

// MustNewCID is NewCID for call sites that have already guaranteed the input
// can be hashed (e.g. bytes this package itself produced). It panics on
// failure.
func MustNewCID(data []byte) cid.Cid {
	c, err := NewCID(data)
	if err != nil {
		panic(err)
	}
	return c
}
