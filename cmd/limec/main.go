// Command limec compiles and runs lime source files.
package main

import (
	"os"

	"github.com/limelang/limec/cmd/limec/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
