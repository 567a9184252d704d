package main

import (
	"cpt/cmd/cpt/commands"
	"cpt/pkg/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
