package packet

import (
	"net"
	"net/netip"
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Cross-validate our serialized bytes against gopacket's independent
// decoder, so the wire layouts interoperate with real captured traffic.

func TestGopacketReadsBaseHeader(t *testing.T) {
	eth := NewEthernet()
	eth.Src = [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	eth.Dst = [6]byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}
	ip := NewIPv6()
	ip.HopLimit = 33
	require.NoError(t, ip.SetSrc(netip.MustParseAddr("fc00::1")))
	require.NoError(t, ip.SetDst(netip.MustParseAddr("fc00::2")))
	require.NoError(t, ip.SetNextHeader(ProtoICMPv6))
	echo := NewICMPv6()
	echo.Body = []byte{0x00, 0x01, 0x00, 0x01} // echo identifier and sequence

	raw, err := New(eth, ip, echo).ToBytes()
	require.NoError(t, err)

	gp := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)
	require.Nil(t, gp.ErrorLayer(), "gopacket rejected our bytes: %v", gp.ErrorLayer())

	ethLayer := gp.Layer(layers.LayerTypeEthernet)
	require.NotNil(t, ethLayer)
	gpEth := ethLayer.(*layers.Ethernet)
	assert.Equal(t, net.HardwareAddr(eth.Src[:]), gpEth.SrcMAC)
	assert.Equal(t, layers.EthernetTypeIPv6, gpEth.EthernetType)

	ipLayer := gp.Layer(layers.LayerTypeIPv6)
	require.NotNil(t, ipLayer)
	gpIP := ipLayer.(*layers.IPv6)
	assert.Equal(t, uint8(6), gpIP.Version)
	assert.Equal(t, uint8(33), gpIP.HopLimit)
	assert.True(t, gpIP.SrcIP.Equal(net.ParseIP("fc00::1")))
	assert.True(t, gpIP.DstIP.Equal(net.ParseIP("fc00::2")))
	assert.Equal(t, layers.IPProtocolICMPv6, gpIP.NextHeader)
	assert.Equal(t, uint16(8), gpIP.Length)

	icmpLayer := gp.Layer(layers.LayerTypeICMPv6)
	require.NotNil(t, icmpLayer)
	gpICMP := icmpLayer.(*layers.ICMPv6)
	assert.Equal(t, uint8(ICMPv6TypeEchoRequest), gpICMP.TypeCode.Type())
}

func TestGopacketReadsFragmentHeader(t *testing.T) {
	eth := NewEthernet()
	ip := NewIPv6()
	require.NoError(t, ip.SetNextHeader(ProtoIPv6Fragment))
	frag := NewIPv6Fragment(0xCAFE, 100, true)

	raw, err := New(eth, ip, frag).ToBytes()
	require.NoError(t, err)

	gp := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)
	require.Nil(t, gp.ErrorLayer(), "gopacket rejected our bytes: %v", gp.ErrorLayer())

	fragLayer := gp.Layer(layers.LayerTypeIPv6Fragment)
	require.NotNil(t, fragLayer)
	gpFrag := fragLayer.(*layers.IPv6Fragment)
	assert.Equal(t, uint32(0xCAFE), gpFrag.Identification)
	assert.Equal(t, uint16(100), gpFrag.FragmentOffset)
	assert.True(t, gpFrag.MoreFragments)
	assert.Equal(t, layers.IPProtocolNoNextHeader, gpFrag.NextHeader)
}

func TestGopacketReadsHopByHopOptions(t *testing.T) {
	eth := NewEthernet()
	ip := NewIPv6()
	require.NoError(t, ip.SetNextHeader(ProtoHopByHopOption))
	hop := NewIPv6HopOption()
	hop.AddOption(NewRouterAlert(0))
	hop.AddOption(NewPadN(2))

	raw, err := New(eth, ip, hop).ToBytes()
	require.NoError(t, err)

	gp := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)
	require.Nil(t, gp.ErrorLayer(), "gopacket rejected our bytes: %v", gp.ErrorLayer())

	hopLayer := gp.Layer(layers.LayerTypeIPv6HopByHop)
	require.NotNil(t, hopLayer)
	gpHop := hopLayer.(*layers.IPv6HopByHop)
	require.NotEmpty(t, gpHop.Options)
	assert.Equal(t, uint8(0x05), gpHop.Options[0].OptionType)
}
