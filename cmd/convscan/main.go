// cmd/convscan/main.go
package main

import (
	"convscan/internal/app"
	"convscan/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
