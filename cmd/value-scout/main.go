// value-scout serves an interactive explorer of actual versus predicted
// football player market values.
package main

import (
	"os"

	"value-scout/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
