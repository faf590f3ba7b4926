// Command lightclient wires a config.Config into a supervisor.Supervisor
// and drives it from the command line. A CLI wasn't part of spec.md's
// scope (§1), but every example repo in the pack ships one, so this
// exists as the ambient entrypoint a host would actually run.
package main

import (
	"fmt"
	"os"

	"github.com/tm-lightclient/lightclient/cmd/lightclient/commands"
)

func main() {
	root := commands.RootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
