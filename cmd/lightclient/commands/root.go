// Package commands implements the lightclient CLI's cobra commands.
package commands

import (
	"github.com/spf13/cobra"
)

var configPath string

// RootCommand builds the top-level "lightclient" command with its
// subcommands attached.
func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "lightclient",
		Short: "A standalone Tendermint-style light client",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "lightclient.toml", "path to the config file")

	root.AddCommand(verifyCommand())
	root.AddCommand(versionCommand())
	return root
}
