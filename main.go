package main

import "github.com/lineoa/line-msg-api/cmd"

func main() {
	cmd.Execute()
}
