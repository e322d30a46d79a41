package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list <file>",
	Short: "List the records in an archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := readArchiveFile(args[0])
		if err != nil {
			return err
		}
		for e := range a.Entries() {
			fmt.Fprintf(cmd.OutOrStdout(), "%-9s %8d  %s\n", e.Signature(), len(e.Data()), e.Name())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
