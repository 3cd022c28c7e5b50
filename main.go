package main

import "github.com/lcastro/nbflow/cmd"

func main() {
	cmd.Execute()
}
