package main

import "github.com/masmgr/repominer/cmd"

func main() {
	cmd.Run()
}
