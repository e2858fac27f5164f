// cmd/chaincomp/main.go
package main

import (
	"chaincomp/internal/app"
	"chaincomp/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
