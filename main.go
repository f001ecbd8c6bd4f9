package main

import "github.com/splitmux/splitmux/cmd"

func main() {
	cmd.Execute()
}
