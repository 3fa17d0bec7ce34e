package main

import "github.com/mabhi256/bdiag/cmd"

func main() {
	cmd.Execute()
}
