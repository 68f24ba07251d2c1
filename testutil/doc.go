// Package testutil provides small IPLD node builders used to construct
// CBOR blocks with embedded dag-cbor links for this module's own tests.
package testutil
