package main

import "mrp/cmd/api-server/command"

func main() {
	command.Execute()
}
