package main

import "go.coldcutz.net/mococli/cmd"

func main() {
	cmd.Execute()
}
