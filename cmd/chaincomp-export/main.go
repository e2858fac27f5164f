// cmd/chaincomp-export/main.go
package main

import (
	"chaincomp/internal/appshell"
	"chaincomp/internal/exportapp"
)

func main() {
	appshell.Main(exportapp.RunContext)
}
