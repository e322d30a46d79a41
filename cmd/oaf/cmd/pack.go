package cmd

import (
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/meigma/oaf"
)

// packCmd represents the pack command.
var packCmd = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Pack a directory into an archive",
	Long: `Pack a directory tree into a flat binary archive.

With --zstd the output file is wrapped in a zstd stream. The archive
format itself stays uncompressed; other oaf commands un-wrap the
stream transparently.

Example:
  oaf pack ./src -o src.oaf
  oaf pack ./src -o src.oaf.zst --zstd`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		compress, _ := cmd.Flags().GetBool("zstd")

		data, err := oaf.Create(cmd.Context(), args[0], oaf.WithLogger(logger(cmd)))
		if err != nil {
			return err
		}

		if compress {
			enc, err := zstd.NewWriter(nil)
			if err != nil {
				return fmt.Errorf("create zstd encoder: %w", err)
			}
			compressed := enc.EncodeAll(data, make([]byte, 0, len(data)/2))
			if err := enc.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d bytes (%d compressed)\n", len(data), len(compressed))
			data = compressed
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "packed %d bytes\n", len(data))
		}

		return os.WriteFile(out, data, 0o644)
	},
}

func init() {
	packCmd.Flags().StringP("output", "o", "archive.oaf", "Output file")
	packCmd.Flags().Bool("zstd", false, "Wrap the output file in a zstd stream")
	rootCmd.AddCommand(packCmd)
}
