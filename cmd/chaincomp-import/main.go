// cmd/chaincomp-import/main.go
package main

import (
	"chaincomp/internal/appshell"
	"chaincomp/internal/importapp"
)

func main() {
	appshell.Main(importapp.RunContext)
}
