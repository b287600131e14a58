package main

import "messenger-core/cmd"

func main() {
	cmd.Execute()
}
