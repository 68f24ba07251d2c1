// Package linkscan provides a lazy, single-pass scanner over the CID links
// embedded in a CBOR-encoded block, following the dag-cbor convention of
// representing a link as a tag-42 byte string. It is the Go analogue of a
// pull-based iterator: no generator or coroutine primitive exists in the
// language, so the shape follows bufio.Scanner instead: call Next until it
// returns false, read Link in between.
//
// The scanner never builds a parsed representation of the whole block; it
// walks just enough of the CBOR header structure to know how many bytes to
// skip between links. A malformed or non-canonical byte stream simply ends
// the sequence early rather than raising an error. Bad blocks cannot
// contribute to a valid proof chain regardless, so there is nothing useful
// an error would communicate that Next returning false doesn't already.
package linkscan
