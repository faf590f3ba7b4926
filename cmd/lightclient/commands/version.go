package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is set at release time; left as a plain constant here since
// this module has no build-time ldflags pipeline of its own.
const Version = "0.1.0"

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the lightclient version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(Version)
			return nil
		},
	}
}
