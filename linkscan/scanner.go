package linkscan

import (
	"bytes"
	"io"

	"github.com/ipfs/go-cid"
)

// scratchSize bounds the per-scan scratch allocation. It must be large
// enough to hold the largest tag-42 CID byte string this scanner accepts
// (100 bytes, per the cap checked below); sizing it to exactly that cap,
// rather than to the smaller "typical CID" size, avoids a short-buffer
// panic on a legally-sized but larger-than-usual CID.
const scratchSize = 100

// maxLinkBytes is the largest declared length a tag-42 byte string may have
// before the scanner gives up on it.
const maxLinkBytes = 100

// Scanner walks a CBOR-encoded block and yields, in document order, each
// CID embedded as a dag-cbor tag-42 link. It is single-pass and lazy: call
// Next repeatedly, reading Link after each call that returns true.
//
//	s := linkscan.FromBytes(blockBytes)
//	for s.Next() {
//	    link := s.Link()
//	    ...
//	}
type Scanner struct {
	r         io.ReadSeeker
	remaining uint64
	scratch   [scratchSize]byte
	link      cid.Cid
}

// New wraps an io.ReadSeeker positioned at the start of a CBOR-encoded
// block.
func New(r io.ReadSeeker) *Scanner {
	return &Scanner{r: r, remaining: 1}
}

// FromBytes wraps a byte slice for scanning.
func FromBytes(b []byte) *Scanner {
	return New(bytes.NewReader(b))
}

// Next advances the scanner to the next link, returning false once the
// block is exhausted or the scanner encounters anything it can't make sense
// of (non-canonical integer encoding, an oversized tag-42 payload, a
// malformed header). In every case the sequence simply ends; no error is
// surfaced, since a bad block cannot contribute to a valid proof chain
// regardless of why it's bad.
func (s *Scanner) Next() bool {
	for s.remaining > 0 {
		major, extra, err := readHeader(s.r, s.scratch[:])
		if err != nil {
			return false
		}
		switch major {
		case 0, 1, 7: // unsigned int, negative int, simple/float
		case 2, 3: // byte string, text string
			if _, err := s.r.Seek(int64(extra), io.SeekCurrent); err != nil {
				return false
			}
		case 4: // array
			s.remaining += extra
		case 5: // map
			s.remaining += extra * 2
		case 6: // tag
			if extra == 42 {
				linkMajor, linkLen, err := readHeader(s.r, s.scratch[:])
				if err != nil || linkMajor != 2 || linkLen > maxLinkBytes || linkLen < 1 {
					return false
				}
				if _, err := io.ReadFull(s.r, s.scratch[:linkLen]); err != nil {
					return false
				}
				// The leading byte is the multibase-identity prefix (0x00)
				// dag-cbor always writes before the CID bytes; discard it.
				c, err := cid.Cast(s.scratch[1:linkLen])
				if err != nil {
					return false
				}
				s.remaining--
				s.link = c
				return true
			}
			s.remaining++
		default:
			return false
		}
		s.remaining--
	}
	return false
}

// Link returns the CID found by the most recent call to Next that returned
// true. It is meaningless otherwise.
func (s *Scanner) Link() cid.Cid {
	return s.link
}
