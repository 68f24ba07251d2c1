// go-ipld-proofs produces and verifies compact inclusion proofs for data
// stored as a content-addressed, acyclic directed graph of CBOR-encoded
// blocks (an "IPLD-style" DAG). A proof is a minimal chain of blocks that
// connects a proven leaf block to some ancestor root block; a verifier,
// given only the chain and the advertised root's content hash, can
// recompute hashes and confirm that each block's content hash appears as a
// link inside the next block, without access to the original store.
//
// The package is organized as:
//
//   - this package: the CID helper and the Proof type itself.
//   - linkscan: a lazy, single-pass scanner for the CID links embedded in a
//     CBOR block.
//   - store: the block-store capability set and the recording blockstore
//     wrapper that observes every block an application reads or writes.
//   - generator: the proof-chain construction algorithm.
package dagproof
