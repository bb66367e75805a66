package packet

import (
	"bytes"
	"errors"
	"net/netip"
	"testing"
)

func TestPutUintWidths(t *testing.T) {
	cases := []struct {
		v     uint64
		width int
		want  []byte
	}{
		{0x12, 1, []byte{0x12}},
		{0x1234, 2, []byte{0x12, 0x34}},
		{0x123456, 3, []byte{0x12, 0x34, 0x56}},
		{0x12345678, 4, []byte{0x12, 0x34, 0x56, 0x78}},
		{0xFFFFFFFF, 4, []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{0x1234, 4, []byte{0x00, 0x00, 0x12, 0x34}},
	}
	for _, tc := range cases {
		got := putUint(nil, tc.v, tc.width)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("putUint(%#x, %d) = %v, want %v", tc.v, tc.width, got, tc.want)
		}
	}
}

func TestReadUintRoundTrip(t *testing.T) {
	for width := 1; width <= 8; width++ {
		v := uint64(0xA5) << ((width - 1) * 8)
		b := putUint(nil, v, width)
		b = append(b, 0xEE) // trailing byte must be left over

		got, rest, err := readUint(b, width)
		if err != nil {
			t.Fatalf("readUint width %d: %v", width, err)
		}
		if got != v {
			t.Errorf("readUint width %d = %#x, want %#x", width, got, v)
		}
		if len(rest) != 1 || rest[0] != 0xEE {
			t.Errorf("readUint width %d left %v, want [0xEE]", width, rest)
		}
	}
}

func TestReadUintTruncated(t *testing.T) {
	_, _, err := readUint([]byte{0x01}, 2)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestAddrCodec(t *testing.T) {
	addr := netip.MustParseAddr("fd00::1234")
	b := putAddr(nil, addr)
	if len(b) != 16 {
		t.Fatalf("putAddr produced %d bytes", len(b))
	}

	got, rest, err := readAddr(b)
	if err != nil {
		t.Fatalf("readAddr: %v", err)
	}
	if got != addr {
		t.Errorf("readAddr = %v, want %v", got, addr)
	}
	if len(rest) != 0 {
		t.Errorf("readAddr left %d bytes", len(rest))
	}

	if _, _, err := readAddr(b[:15]); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated for short address, got %v", err)
	}
}

func TestCheckV6(t *testing.T) {
	cases := []struct {
		addr string
		ok   bool
	}{
		{"fc00::1", true},
		{"::", true},
		{"2001:db8::1", true},
		{"10.0.0.1", false},
		{"::ffff:10.0.0.1", false},
	}
	for _, tc := range cases {
		err := checkV6(netip.MustParseAddr(tc.addr))
		if tc.ok && err != nil {
			t.Errorf("checkV6(%s) = %v, want nil", tc.addr, err)
		}
		if !tc.ok && !errors.Is(err, ErrAddressFamily) {
			t.Errorf("checkV6(%s) = %v, want ErrAddressFamily", tc.addr, err)
		}
	}
}
