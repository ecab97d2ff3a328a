package main

import "auditgate/internal/cli"

func main() {
	cli.Execute()
}
