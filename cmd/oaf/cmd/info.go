package cmd

import (
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command.
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show an archive's header fields and digest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, raw, err := readArchiveFile(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "version:         0x%08x\n", a.Version())
		fmt.Fprintf(w, "entries:         %d\n", a.EntryCount())
		fmt.Fprintf(w, "names size:      %d\n", a.NamesSize())
		fmt.Fprintf(w, "extra data size: %d\n", a.ExtraDataSize())
		fmt.Fprintf(w, "total size:      %d\n", a.UncompressedSize())
		fmt.Fprintf(w, "digest:          %s\n", digest.FromBytes(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
