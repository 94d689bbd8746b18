package main

import (
	"vzchat-backend/cmd/vz-cli/commands"
	"vzchat-backend/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
