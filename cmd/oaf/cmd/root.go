package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/cobra"

	"github.com/meigma/oaf"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "oaf",
	Short: "oaf - flat binary archive tool",
	Long: `oaf packs a directory tree into a flat binary archive and reads
archives back: list their contents, show header details, or unpack
them to a directory.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
}

// logger returns a stderr text logger honoring --verbose, or a discard
// logger.
func logger(cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// zstdMagic is the frame magic of a zstd stream, used to transparently
// un-wrap archives packed with --zstd.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// readArchiveFile reads an archive file, decompressing the outer zstd
// wrapper when present, and parses it.
func readArchiveFile(path string) (*oaf.Archive, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	if bytes.HasPrefix(data, zstdMagic) {
		dec, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("open zstd stream: %w", err)
		}
		defer dec.Close()
		data, err = io.ReadAll(dec)
		if err != nil {
			return nil, nil, fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	a, err := oaf.FromBytes(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return a, data, nil
}
