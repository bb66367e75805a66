package packet

import (
	"fmt"
	"strings"
)

// Packet is an ordered, mutable stack of headers. The order is the wire
// order: encoding walks the stack front to back, decoding rebuilds it front
// to back by following next-header codes. The container itself places no
// chaining constraint on neighbors; keeping next-header fields consistent
// after an insert or delete is the caller's contract, checked only by
// whether the bytes round-trip.
type Packet struct {
	headers []Header
}

// New builds a packet from headers in wire order. Nil headers are dropped,
// so every occupied slot holds a serializable header.
func New(headers ...Header) *Packet {
	p := &Packet{}
	for _, h := range headers {
		if h != nil {
			p.headers = append(p.headers, h)
		}
	}
	return p
}

// NumHeaders reports the current header count.
func (p *Packet) NumHeaders() int { return len(p.headers) }

// Add appends a header and returns the packet for composition-style
// building. A nil header is a no-op.
func (p *Packet) Add(h Header) *Packet {
	if h != nil {
		p.headers = append(p.headers, h)
	}
	return p
}

// Header returns the header at position i.
func (p *Packet) Header(i int) (Header, error) {
	if i < 0 || i >= len(p.headers) {
		return nil, fmt.Errorf("%w: header %d of %d", ErrIndexRange, i, len(p.headers))
	}
	return p.headers[i], nil
}

// SetHeader replaces the header at position i. A nil header is rejected
// rather than stored.
func (p *Packet) SetHeader(i int, h Header) error {
	if h == nil {
		return fmt.Errorf("%w: nil header", ErrBadFormat)
	}
	if i < 0 || i >= len(p.headers) {
		return fmt.Errorf("%w: header %d of %d", ErrIndexRange, i, len(p.headers))
	}
	p.headers[i] = h
	return nil
}

// InsertHeader inserts h before the current occupant of position i,
// shifting later headers up by one. i may equal NumHeaders to append. A nil
// header is rejected rather than stored.
func (p *Packet) InsertHeader(i int, h Header) error {
	if h == nil {
		return fmt.Errorf("%w: nil header", ErrBadFormat)
	}
	if i < 0 || i > len(p.headers) {
		return fmt.Errorf("%w: insert at %d of %d", ErrIndexRange, i, len(p.headers))
	}
	p.headers = append(p.headers, nil)
	copy(p.headers[i+1:], p.headers[i:])
	p.headers[i] = h
	return nil
}

// DeleteHeader removes the header at position i.
func (p *Packet) DeleteHeader(i int) error {
	if i < 0 || i >= len(p.headers) {
		return fmt.Errorf("%w: header %d of %d", ErrIndexRange, i, len(p.headers))
	}
	p.headers = append(p.headers[:i], p.headers[i+1:]...)
	return nil
}

// HeaderRange always fails with ErrRangeQuery: the stack is read one
// header at a time.
func (p *Packet) HeaderRange(i, j int) ([]Header, error) {
	return nil, fmt.Errorf("%w: header range [%d:%d]", ErrRangeQuery, i, j)
}

// GetHeaderIndex scans front to back for the first header of the given
// kind.
func (p *Packet) GetHeaderIndex(kind HeaderKind) (int, error) {
	for i, h := range p.headers {
		if h.Kind() == kind {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrHeaderNotFound, kind)
}

// HasHeader reports whether a header of the given kind is present.
func (p *Packet) HasHeader(kind HeaderKind) bool {
	_, err := p.GetHeaderIndex(kind)
	return err == nil
}

// ToBytes serializes the stack front to back. It walks back to front first
// so the base IPv6 header can stamp its payload-length field from the bytes
// that follow it, matching what a decode of the result will see.
func (p *Packet) ToBytes() ([]byte, error) {
	chunks := make([][]byte, len(p.headers))
	tail := 0
	for i := len(p.headers) - 1; i >= 0; i-- {
		if ip, ok := p.headers[i].(*IPv6); ok {
			if tail <= 0xFFFF {
				ip.PayloadLen = uint16(tail)
			} else {
				// Jumbo payloads carry their length in the jumbo option.
				ip.PayloadLen = 0
			}
		}
		b, err := p.headers[i].Marshal()
		if err != nil {
			return nil, fmt.Errorf("header %d (%s): %w", i, p.headers[i].Kind(), err)
		}
		chunks[i] = b
		tail += len(b)
	}
	out := make([]byte, 0, tail)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out, nil
}

// FromBytes parses one packet, link layer first, following next-header
// codes through the extension chain. Decoding stops at the no-next
// sentinel; a code the library does not decode further leaves the rest of
// the buffer as an opaque raw payload.
func FromBytes(raw []byte) (*Packet, error) {
	p := &Packet{}
	eth := &Ethernet{}
	n, err := eth.Unmarshal(raw)
	if err != nil {
		return nil, err
	}
	p.headers = append(p.headers, eth)
	rest := raw[n:]

	if eth.EtherType != EtherTypeIPv6 {
		if len(rest) > 0 {
			p.headers = append(p.headers, NewRawPayload(rest))
		}
		return p, nil
	}

	ip := &IPv6{}
	n, err = ip.Unmarshal(rest)
	if err != nil {
		return nil, err
	}
	p.headers = append(p.headers, ip)
	rest = rest[n:]

	next := ip.NextHeader()
	for len(rest) > 0 {
		h := headerForProto(next)
		if h == nil {
			// No-next sentinel: anything left is junk, keep it verbatim.
			p.headers = append(p.headers, NewRawPayload(rest))
			break
		}
		n, err = h.Unmarshal(rest)
		if err != nil {
			return nil, err
		}
		p.headers = append(p.headers, h)
		rest = rest[n:]
		ch, ok := h.(Chainer)
		if !ok {
			// Opaque leaf consumed the remainder.
			break
		}
		next = ch.NextHeader()
	}
	return p, nil
}

// Equal reports structural equality: same count, same ordered kinds, and
// field-for-field (option-for-option) equal headers.
func (p *Packet) Equal(other *Packet) bool {
	if other == nil || len(p.headers) != len(other.headers) {
		return false
	}
	for i, h := range p.headers {
		if !h.Equal(other.headers[i]) {
			return false
		}
	}
	return true
}

// Clone makes a full structural copy; mutating the clone never touches the
// original.
func (p *Packet) Clone() *Packet {
	c := &Packet{headers: make([]Header, len(p.headers))}
	for i, h := range p.headers {
		c.headers[i] = h.Clone()
	}
	return c
}

func (p *Packet) String() string {
	parts := make([]string, len(p.headers))
	for i, h := range p.headers {
		parts[i] = h.String()
	}
	return strings.Join(parts, " | ")
}
