package packet

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const icmpv6HeaderLen = 4

// ICMPv6 message types the library names in output.
const (
	ICMPv6TypeEchoRequest uint8 = 128
	ICMPv6TypeEchoReply   uint8 = 129
)

// ICMPv6 is an opaque transport leaf: the library frames its four fixed
// octets and keeps the message body verbatim. It never chains further.
type ICMPv6 struct {
	MsgType  uint8
	Code     uint8
	Checksum uint16
	Body     []byte
}

// NewICMPv6 returns an empty echo request.
func NewICMPv6() *ICMPv6 {
	return &ICMPv6{MsgType: ICMPv6TypeEchoRequest}
}

func (h *ICMPv6) Kind() HeaderKind { return KindICMPv6 }

func (h *ICMPv6) Marshal() ([]byte, error) {
	b := make([]byte, 0, icmpv6HeaderLen+len(h.Body))
	b = append(b, h.MsgType, h.Code)
	b = putUint(b, uint64(h.Checksum), 2)
	return append(b, h.Body...), nil
}

func (h *ICMPv6) Unmarshal(b []byte) (int, error) {
	if len(b) < icmpv6HeaderLen {
		return 0, fmt.Errorf("%w: icmpv6 header needs %d bytes", ErrTruncated, icmpv6HeaderLen)
	}
	var dec ICMPv6
	dec.MsgType = b[0]
	dec.Code = b[1]
	dec.Checksum = binary.BigEndian.Uint16(b[2:4])
	if len(b) > icmpv6HeaderLen {
		dec.Body = append([]byte(nil), b[icmpv6HeaderLen:]...)
	}
	*h = dec
	return len(b), nil
}

func (h *ICMPv6) Clone() Header {
	c := *h
	c.Body = append([]byte(nil), h.Body...)
	return &c
}

func (h *ICMPv6) Equal(other Header) bool {
	o, ok := other.(*ICMPv6)
	return ok && h.MsgType == o.MsgType && h.Code == o.Code &&
		h.Checksum == o.Checksum && bytes.Equal(h.Body, o.Body)
}

func (h *ICMPv6) String() string {
	return fmt.Sprintf("icmpv6 type=%d code=%d body=%dB", h.MsgType, h.Code, len(h.Body))
}

// RawPayload holds bytes whose protocol the library does not decode
// further. They are retained verbatim and re-emitted unchanged.
type RawPayload struct {
	Data []byte
}

// NewRawPayload wraps b as an opaque terminal payload.
func NewRawPayload(b []byte) *RawPayload {
	return &RawPayload{Data: append([]byte(nil), b...)}
}

func (h *RawPayload) Kind() HeaderKind { return KindRaw }

func (h *RawPayload) Marshal() ([]byte, error) {
	return append([]byte(nil), h.Data...), nil
}

func (h *RawPayload) Unmarshal(b []byte) (int, error) {
	h.Data = append([]byte(nil), b...)
	return len(b), nil
}

func (h *RawPayload) Clone() Header {
	return NewRawPayload(h.Data)
}

func (h *RawPayload) Equal(other Header) bool {
	o, ok := other.(*RawPayload)
	return ok && bytes.Equal(h.Data, o.Data)
}

func (h *RawPayload) String() string {
	return fmt.Sprintf("raw %dB", len(h.Data))
}
