// Command memprobe reports detected system memory and the adaptive sync
// configuration derived from it.
package main

import (
	"fmt"
	"os"

	"github.com/eunmann/memprobe/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
