package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"raidcheck/internal/runner"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("raidcheck %s (commit %s, built %s)\n", version, commit, date)
		rn := runner.NewExecRunner("", "")
		if rn.Available() {
			fmt.Printf("storcli: %s (%s)\n", rn.Version(), rn.Command())
		} else {
			fmt.Println("storcli: not found")
		}
	},
}
