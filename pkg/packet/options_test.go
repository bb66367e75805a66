package packet

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionWireFormats(t *testing.T) {
	cases := []struct {
		name string
		opt  Option
		want []byte
	}{
		{"pad1", &Pad1{}, []byte{0x00}},
		{"padn3", NewPadN(3), []byte{0x01, 0x01, 0x00}},
		{"padn2", NewPadN(2), []byte{0x01, 0x00}},
		{"router-alert", NewRouterAlert(0x13), []byte{0x05, 0x02, 0x00, 0x13}},
		{"tunnel-limit", NewTunnelEncapsulationLimit(4), []byte{0x04, 0x01, 0x04}},
		{"jumbo", NewJumboPayload(0x12345678), []byte{0xC2, 0x04, 0x12, 0x34, 0x56, 0x78}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := tc.opt.Marshal()
			require.NoError(t, err)
			assert.Equal(t, tc.want, b)

			dec, n, err := decodeOption(b)
			require.NoError(t, err)
			assert.Equal(t, len(b), n)
			assert.True(t, tc.opt.Equal(dec), "decoded option differs")
		})
	}
}

func TestHomeAddressOption(t *testing.T) {
	addr := netip.MustParseAddr("fc00::2")
	home, err := NewHomeAddress(addr)
	require.NoError(t, err)

	b, err := home.Marshal()
	require.NoError(t, err)
	require.Len(t, b, 18)
	assert.Equal(t, byte(OptHomeAddress), b[0])
	assert.Equal(t, byte(16), b[1])

	dec, n, err := decodeOption(b)
	require.NoError(t, err)
	assert.Equal(t, 18, n)
	assert.Equal(t, addr, dec.(*HomeAddress).Address())

	_, err = NewHomeAddress(netip.MustParseAddr("192.168.0.1"))
	assert.ErrorIs(t, err, ErrAddressFamily)
}

func TestUnknownOptionPreserved(t *testing.T) {
	// Type 0x3e is not one the library names; its record must survive a
	// decode/encode round trip verbatim.
	raw := []byte{0x3e, 0x03, 0xaa, 0xbb, 0xcc}
	dec, n, err := decodeOption(raw)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	ro, ok := dec.(*RawOption)
	require.True(t, ok)
	assert.Equal(t, OptionType(0x3e), ro.Type())

	again, err := ro.Marshal()
	require.NoError(t, err)
	assert.Equal(t, raw, again)
}

func TestOptionDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"type-only", []byte{0x05}},
		{"router-alert-short-value", []byte{0x05, 0x02, 0x00}},
		{"router-alert-wrong-length", []byte{0x05, 0x03, 0x00, 0x00, 0x00}},
		{"tunnel-limit-wrong-length", []byte{0x04, 0x02, 0x00, 0x00}},
		{"jumbo-truncated", []byte{0xC2, 0x04, 0x00, 0x27}},
		{"declared-past-buffer", []byte{0x3e, 0x09, 0x00}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := decodeOption(tc.raw)
			assert.ErrorIs(t, err, ErrBadFormat)
		})
	}
}

func TestPadNBounds(t *testing.T) {
	_, err := NewPadN(1).Marshal()
	assert.ErrorIs(t, err, ErrBadFormat)
	_, err = NewPadN(258).Marshal()
	assert.ErrorIs(t, err, ErrBadFormat)

	b, err := NewPadN(257).Marshal()
	require.NoError(t, err)
	assert.Len(t, b, 257)
}

func TestOptionListCountsOptionsNotBytes(t *testing.T) {
	hop := NewIPv6HopOption()
	home, err := NewHomeAddress(netip.MustParseAddr("fc00::2"))
	require.NoError(t, err)
	hop.AddOption(home) // 18 bytes on the wire
	hop.AddOption(NewPadN(4))

	assert.Equal(t, 2, hop.NumOptions())
	assert.Equal(t, 2, hop.Options().Len())
}

func TestOptionListIndexing(t *testing.T) {
	var l OptionList
	l.Append(NewRouterAlert(0))
	l.Append(&Pad1{})

	o, err := l.Option(1)
	require.NoError(t, err)
	assert.Equal(t, OptPad1, o.Type())

	_, err = l.Option(2)
	assert.ErrorIs(t, err, ErrIndexRange)
	_, err = l.Option(-1)
	assert.ErrorIs(t, err, ErrIndexRange)
	_, err = l.Range(0, 2)
	assert.ErrorIs(t, err, ErrRangeQuery)
}

func TestOptionHeaderLengthFieldLimit(t *testing.T) {
	// 9 x PadN(257) + PadN(5) is 2320 bytes with the prefix: 8-aligned but
	// past what the 8-bit length octet can declare, so Marshal must refuse
	// instead of emitting a wrapped length.
	hop := NewIPv6HopOption()
	for i := 0; i < 9; i++ {
		hop.AddOption(NewPadN(257))
	}
	hop.AddOption(NewPadN(5))
	_, err := hop.Marshal()
	assert.ErrorIs(t, err, ErrBadFormat)

	// 2048 bytes is the largest representable header (length octet 255).
	hop = NewIPv6HopOption()
	for i := 0; i < 7; i++ {
		hop.AddOption(NewPadN(257))
	}
	hop.AddOption(NewPadN(247))
	b, err := hop.Marshal()
	require.NoError(t, err)
	require.Len(t, b, 2048)
	assert.Equal(t, byte(255), b[1])
}

func TestPad1RejectsWrongType(t *testing.T) {
	var p Pad1
	_, err := p.Unmarshal([]byte{0x01})
	assert.ErrorIs(t, err, ErrBadFormat)

	n, err := p.Unmarshal([]byte{0x00, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOptionHeaderDeclaredLength(t *testing.T) {
	hop := NewIPv6HopOption()
	require.NoError(t, hop.SetNextHeader(ProtoICMPv6))
	hop.AddOption(NewRouterAlert(0x13))
	hop.AddOption(NewPadN(2))

	b, err := hop.Marshal()
	require.NoError(t, err)
	require.Len(t, b, 8)
	assert.Equal(t, byte(ProtoICMPv6), b[0])
	assert.Equal(t, byte(0), b[1], "8 bytes is ext length 0")

	var dec IPv6HopOption
	n, err := dec.Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.True(t, hop.Equal(&dec))

	// A declared length past the buffer is a hard decode failure.
	b[1] = 4
	_, err = dec.Unmarshal(b)
	assert.ErrorIs(t, err, ErrTruncated)
}
