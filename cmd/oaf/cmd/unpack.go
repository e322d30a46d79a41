package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meigma/oaf"
)

// unpackCmd represents the unpack command.
var unpackCmd = &cobra.Command{
	Use:   "unpack <file>",
	Short: "Unpack an archive into a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest, _ := cmd.Flags().GetString("dest")
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		preserveMode, _ := cmd.Flags().GetBool("preserve-mode")
		preserveTimes, _ := cmd.Flags().GetBool("preserve-times")

		a, _, err := readArchiveFile(args[0])
		if err != nil {
			return err
		}

		err = oaf.Extract(cmd.Context(), a, dest,
			oaf.ExtractWithLogger(logger(cmd)),
			oaf.ExtractWithOverwrite(overwrite),
			oaf.ExtractWithPreserveMode(preserveMode),
			oaf.ExtractWithPreserveTimes(preserveTimes),
		)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "unpacked %d records to %s\n", a.Len(), dest)
		return nil
	},
}

func init() {
	unpackCmd.Flags().StringP("dest", "C", ".", "Destination directory")
	unpackCmd.Flags().Bool("overwrite", false, "Overwrite existing files")
	unpackCmd.Flags().Bool("preserve-mode", false, "Restore recorded file modes")
	unpackCmd.Flags().Bool("preserve-times", false, "Restore recorded modification times")
	rootCmd.AddCommand(unpackCmd)
}
