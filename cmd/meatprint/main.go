// Command meatprint estimates the carbon footprint of meat purchases from
// invoices.
package main

import (
	"os"

	"github.com/greenledger/meatprint/internal/cli"
	"github.com/greenledger/meatprint/pkg/version"
)

func main() {
	os.Exit(run())
}

// run executes the root command and returns the process exit status.
// Cobra has already printed the error.
func run() int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetVersionTemplate("meatprint " + version.String() + "\n")
	return cli.ExitCode(root.Execute())
}
