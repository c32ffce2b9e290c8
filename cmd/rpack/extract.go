package main

import (
	"github.com/spf13/cobra"

	"github.com/meigma/rpack"
)

var (
	extractOutput string

	extractCmd = &cobra.Command{
		Use:   "extract <pack>",
		Short: "Extract every entry to a directory",
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
			return p.ExtractAll(extractOutput)
		},
	}
)

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "extracted", "directory to extract into")
}
