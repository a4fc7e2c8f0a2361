package main

import (
	"os"

	"github.com/cottand/lattice/cmd"
	"github.com/spf13/cobra"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "lattice [subcommand]",
	Short:        "lattice\n compare, join and meet static types over a universe of declared shapes",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.SubtypeCmd)
	rootCmd.AddCommand(cmd.LubCmd)
	rootCmd.AddCommand(cmd.GlbCmd)
	rootCmd.AddCommand(cmd.LcsCmd)
	rootCmd.AddCommand(cmd.ShapesCmd)
}
