// cmd/gbt/main.go
package main

import (
	"os"

	"github.com/tamzrod/gbt-tool/cmd/gbt/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
