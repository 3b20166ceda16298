package main

import "github.com/zinc-sig/gridiff/cmd"

func main() {
	cmd.Execute()
}
