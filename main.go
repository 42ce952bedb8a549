package main

import "github.com/teemow/motionmcp/cmd"

// version is stamped by the release build.
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
