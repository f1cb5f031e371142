// Command vgrid is the terminal front end for the grid engine.
package main

import (
	"fmt"
	"os"

	"github.com/chenjieyouge/vgrid/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
