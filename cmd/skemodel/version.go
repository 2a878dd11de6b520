package main

import (
	"fmt"

	"github.com/spf13/cobra"

	skemodel "github.com/reoring/skemodel"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of skemodel",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skemodel version %s\n", skemodel.Version)
		},
	}
}
