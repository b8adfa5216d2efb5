package main

import "github.com/kernel/socialpost/cmd"

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cmd.Execute(cmd.Metadata{Version: version, Commit: commit})
}
