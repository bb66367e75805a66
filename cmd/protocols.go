package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/liulalala/switchyard/pkg/packet"
)

var protocolsCmd = &cobra.Command{
	Use:   "protocols",
	Short: "List the protocol numbers the library names",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProtocols(cmd.OutOrStdout())
	},
}

func runProtocols(out io.Writer) error {
	for _, p := range packet.KnownProtocols() {
		fmt.Fprintf(out, "%3d  %s\n", uint8(p), p)
	}
	return nil
}
