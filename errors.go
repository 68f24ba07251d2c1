package dagproof

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
)

// ErrNodeNotFound is returned when the leaf a caller is attempting to prove
// was never observed by the recorder. Either the caller forgot to route its
// reads and writes through a store.Recorder, or the leaf bytes differ from
// whatever the recorder actually saw (e.g. a different encoding of the same
// logical value). Not retryable.
var ErrNodeNotFound = errors.New("node attempted to prove was not visited by the proof generator")

// ErrRootUnreachable is returned by the *Strict generation entry points when
// the requested root CID cannot be connected to from the leaf within the
// witness table. The non-strict entry points instead return whatever partial
// chain they could connect, stopping at the highest ancestor reachable from
// the leaf, so callers that don't need a guaranteed root match never see
// this error.
var ErrRootUnreachable = errors.New("requested root is not reachable from the proven leaf")

// InvalidProofError is returned by Proof.Validate when a node's predecessor
// CID cannot be found among the links scanned out of the next node in the
// chain.
type InvalidProofError struct {
	// Link is the CID that should have appeared as a link in Data.
	Link cid.Cid
	// Data is the raw bytes of the node that was expected to link to Link.
	Data []byte
}

func (e *InvalidProofError) Error() string {
	return fmt.Sprintf("invalid proof: CID %s not found as a link in node (%d bytes)", e.Link, len(e.Data))
}
