// cmd/convscan-embed/main.go
package main

import (
	"convscan/internal/appshell"
	"convscan/internal/embedapp"
)

func main() {
	appshell.Main(embedapp.RunContext)
}
