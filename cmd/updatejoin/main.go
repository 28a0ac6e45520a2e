// Command updatejoin assigns values from one table into a column of another
// by joining them.
package main

import (
	"fmt"
	"os"

	"github.com/alexwohletz/pandas-utils/cmd"
	"github.com/alexwohletz/pandas-utils/update"
)

func main() {
	rootCmd := cmd.NewRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		if kind := update.KindOf(err); kind != 0 {
			fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
