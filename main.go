package main

import "github.com/devlog/devlog-cli/cmd"

func main() {
	cmd.Execute()
}
