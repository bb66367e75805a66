package cmd

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liulalala/switchyard/pkg/packet"
)

func testPacketHex(t *testing.T) string {
	t.Helper()
	eth := packet.NewEthernet()
	ip := packet.NewIPv6()
	require.NoError(t, ip.SetNextHeader(packet.ProtoICMPv6))
	raw, err := packet.New(eth, ip, packet.NewICMPv6()).ToBytes()
	require.NoError(t, err)
	return hex.EncodeToString(raw)
}

func TestRunDecode(t *testing.T) {
	var buf bytes.Buffer
	err := runDecode(&buf, testPacketHex(t), false)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "3 headers")
	assert.Contains(t, buf.String(), "ipv6")
	assert.Contains(t, buf.String(), "icmpv6")
}

func TestRunDecodeBadInput(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, runDecode(&buf, "zz", false))
	assert.Error(t, runDecode(&buf, "0102", false), "truncated frame must fail")
}

func TestRunBuild(t *testing.T) {
	doc := `
headers:
  - type: ethernet
  - type: ipv6
    nextheader: icmpv6
  - type: icmpv6
`
	path := filepath.Join(t.TempDir(), "stack.yml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	var buf bytes.Buffer
	err := runBuild(&buf, path, true)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "round-trip ok")
}

func TestRunProtocols(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, runProtocols(&buf))
	assert.Contains(t, buf.String(), "icmpv6")
	assert.Contains(t, buf.String(), " 58")
}
