package linkscan

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
)

var errNonCanonical = errors.New("linkscan: cbor input was not canonical")
var errInvalidHeader = errors.New("linkscan: invalid cbor header")

// readHeader decodes one CBOR item header: a major type and its "extra"
// value, per the encoding described in RFC 7049 Appendix C. go-ipld-prime's
// codecs only expose whole-node decoding; there is no library in this
// module's dependency set that exposes a partial header read, which is
// exactly the gap this function fills (see the package doc).
func readHeader(r io.Reader, scratch []byte) (major byte, extra uint64, err error) {
	if _, err := io.ReadFull(r, scratch[:1]); err != nil {
		return 0, 0, err
	}
	first := scratch[0]
	major = (first & 0xe0) >> 5
	low := first & 0x1f

	switch {
	case low < 24:
		return major, uint64(low), nil
	case low == 24:
		if _, err := io.ReadFull(r, scratch[:1]); err != nil {
			return 0, 0, err
		}
		val := scratch[0]
		if val < 24 {
			return 0, 0, errNonCanonical
		}
		return major, uint64(val), nil
	case low == 25:
		if _, err := io.ReadFull(r, scratch[:2]); err != nil {
			return 0, 0, err
		}
		val := binary.BigEndian.Uint16(scratch[:2])
		if val <= math.MaxUint8 {
			return 0, 0, errNonCanonical
		}
		return major, uint64(val), nil
	case low == 26:
		if _, err := io.ReadFull(r, scratch[:4]); err != nil {
			return 0, 0, err
		}
		val := binary.BigEndian.Uint32(scratch[:4])
		if val <= math.MaxUint16 {
			return 0, 0, errNonCanonical
		}
		return major, uint64(val), nil
	case low == 27:
		if _, err := io.ReadFull(r, scratch[:8]); err != nil {
			return 0, 0, err
		}
		val := binary.BigEndian.Uint64(scratch[:8])
		if val <= math.MaxUint32 {
			return 0, 0, errNonCanonical
		}
		return major, val, nil
	default:
		// additional info 28-31 has no defined meaning for a header length.
		return 0, 0, errInvalidHeader
	}
}
