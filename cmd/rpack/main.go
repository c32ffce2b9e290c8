// Command rpack creates, inspects, and extracts pack containers.
package main

import (
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/meigma/rpack"
)

var (
	verbose     bool
	compression string

	rootCmd = &cobra.Command{
		Use:   "rpack",
		Short: "Pack many files into one seekable, compressed container",
		Long: `rpack bundles a directory tree (or a single file) into one container
with an embedded index, per-entry compression, and content hashes.
Entries are retrieved by path without unpacking the rest of the
container.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&compression, "compression", "c", "zlib", "compression method (none, zlib, lzma, zstd)")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(extractCmd)
}

// newLogger builds the CLI logger, bridged into slog so the library's
// structured output shares the command's formatting.
func newLogger() *slog.Logger {
	opts := charmlog.Options{ReportTimestamp: false}
	if verbose {
		opts.Level = charmlog.DebugLevel
	}
	return slog.New(charmlog.NewWithOptions(os.Stderr, opts))
}

// openOptions returns the options shared by the read-side commands.
func openOptions() ([]rpack.Option, error) {
	method, err := rpack.ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	return []rpack.Option{
		rpack.WithCompression(method),
		rpack.WithLogger(newLogger()),
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		charmlog.Error(err.Error())
		os.Exit(1)
	}
}
