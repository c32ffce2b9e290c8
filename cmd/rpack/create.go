package main

import (
	"github.com/spf13/cobra"

	"github.com/meigma/rpack"
)

var (
	createInput  string
	createOutput string
	createLevel  int

	createCmd = &cobra.Command{
		Use:   "create",
		Short: "Pack a file or directory into a container",
		Example: `  rpack create -i ./assets -o assets.rpack
  rpack create -i notes.txt -o notes.rpack -c lzma -l 9`,
		RunE: func(cmd *cobra.Command, args []string) error {
			method, err := rpack.ParseCompression(compression)
			if err != nil {
				return err
			}
			return rpack.Build(createInput, createOutput,
				rpack.WithCompression(method),
				rpack.WithLevel(createLevel),
				rpack.WithLogger(newLogger()),
			)
		},
	}
)

func init() {
	createCmd.Flags().StringVarP(&createInput, "input", "i", "", "file or directory to pack")
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "", "container file to write")
	createCmd.Flags().IntVarP(&createLevel, "level", "l", rpack.DefaultLevel, "compression level (method default when omitted)")
	createCmd.MarkFlagRequired("input")
	createCmd.MarkFlagRequired("output")
}
