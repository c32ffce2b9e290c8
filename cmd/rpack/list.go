package main

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/meigma/rpack"
)

var listCmd = &cobra.Command{
	Use:   "list <pack>",
	Short: "Print the container's directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := openOptions()
		if err != nil {
			return err
		}
		p, err := rpack.Open(args[0], opts...)
		if err != nil {
			return err
		}
		defer p.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%d files)\n", args[0], p.Len())
		return printTree(cmd.OutOrStdout(), p, "", 1)
	},
}

// printTree renders a directory recursively, directories before their
// contents, everything in the lexical order List guarantees.
func printTree(w io.Writer, p *rpack.Pack, dir string, depth int) error {
	names, err := p.List(dir)
	if err != nil {
		return err
	}
	indent := strings.Repeat("  ", depth)
	for _, name := range names {
		full := path.Join(dir, name)
		isDir, err := p.IsDir(full)
		if err != nil {
			return err
		}
		if isDir {
			fmt.Fprintf(w, "%s%s/\n", indent, name)
			if err := printTree(w, p, full, depth+1); err != nil {
				return err
			}
			continue
		}
		e, ok := p.Entry(full)
		if !ok {
			return fmt.Errorf("missing index entry for %s", full)
		}
		fmt.Fprintf(w, "%s%s (%d bytes, %s)\n", indent, name, e.SizeOriginal, e.Compression)
	}
	return nil
}
