package cmd

import (
	"fmt"
	"os"

	npdb "github.com/Don-Green-Here/npdb/pkg"
	"github.com/spf13/cobra"
)

type funcFlag func(cmd *cobra.Command)

func versionFlag(cmd *cobra.Command) {
	hasVersionFlag, _ := cmd.Flags().GetBool("version")
	if hasVersionFlag {
		fmt.Printf("\nversion: %s\nbuild: %s\n\n", npdb.Version, npdb.Build)
		os.Exit(0)
	}
}
