package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/spf13/cobra"

	"github.com/liulalala/switchyard/pkg/packet"
)

var decodeLayerDump bool

var decodeCmd = &cobra.Command{
	Use:   "decode [hex-bytes]",
	Short: "Parse a hex-encoded packet into its header stack",
	Long: `Decode parses a packet given as a hex string (argument or stdin)
and prints one line per decoded header. With --layers it also prints the
gopacket layer dump for cross-checking.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hexStr := ""
		if len(args) == 1 {
			hexStr = args[0]
		} else {
			in, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			hexStr = string(in)
		}
		return runDecode(cmd.OutOrStdout(), hexStr, decodeLayerDump)
	},
}

func init() {
	decodeCmd.Flags().BoolVar(&decodeLayerDump, "layers", false,
		"also print the gopacket layer dump")
}

func runDecode(out io.Writer, hexStr string, layerDump bool) error {
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' || r == ':' {
			return -1
		}
		return r
	}, hexStr)
	raw, err := hex.DecodeString(clean)
	if err != nil {
		return fmt.Errorf("invalid hex input: %w", err)
	}

	pkt, err := packet.FromBytes(raw)
	if err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}

	fmt.Fprintf(out, "%d bytes, %d headers\n", len(raw), pkt.NumHeaders())
	for i := 0; i < pkt.NumHeaders(); i++ {
		h, err := pkt.Header(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  [%d] %s\n", i, h)
	}

	if layerDump {
		gp := gopacket.NewPacket(raw, layers.LayerTypeEthernet, gopacket.Default)
		fmt.Fprintln(out)
		fmt.Fprint(out, gp.String())
	}
	return nil
}
