package main

import "maskkit/cmd"

func main() {
	cmd.Execute()
}
