package cmd

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/liulalala/switchyard/internal/stackfile"
	"github.com/liulalala/switchyard/pkg/packet"
)

var (
	buildFile  string
	buildCheck bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Serialize a YAML header-stack description to hex bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		if buildFile == "" {
			return fmt.Errorf("a stack description file is required (-f)")
		}
		return runBuild(cmd.OutOrStdout(), buildFile, buildCheck)
	},
}

func init() {
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "stack description file")
	buildCmd.Flags().BoolVar(&buildCheck, "check", false,
		"re-decode the serialized bytes and verify they reproduce the stack")
}

func runBuild(out io.Writer, path string, check bool) error {
	doc, err := stackfile.Load(path)
	if err != nil {
		return err
	}
	pkt, err := stackfile.Build(doc)
	if err != nil {
		return err
	}
	raw, err := pkt.ToBytes()
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(out, hex.EncodeToString(raw))

	if check {
		dec, err := packet.FromBytes(raw)
		if err != nil {
			return fmt.Errorf("round-trip decode failed: %w", err)
		}
		if !pkt.Equal(dec) {
			return fmt.Errorf("round-trip mismatch: decoded %s", dec)
		}
		fmt.Fprintln(out, "round-trip ok")
	}
	return nil
}
