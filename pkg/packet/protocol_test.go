package packet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtocolValidity(t *testing.T) {
	assert.True(t, ProtoICMPv6.Valid())
	assert.True(t, ProtoHopByHopOption.Valid())
	assert.False(t, Protocol(0xff).Valid())
	assert.False(t, Protocol(200).Valid())
}

func TestProtocolNames(t *testing.T) {
	assert.Equal(t, "icmpv6", ProtoICMPv6.String())
	assert.Equal(t, "protocol-0xff", Protocol(0xff).String())

	p, err := ProtocolByName("ipv6-fragment")
	assert.NoError(t, err)
	assert.Equal(t, ProtoIPv6Fragment, p)

	_, err = ProtocolByName("warp-drive")
	assert.ErrorIs(t, err, ErrUnknownProtocol)
}
