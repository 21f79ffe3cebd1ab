package main

import "catalog-audit/internal/cli"

func main() {
	cli.Execute()
}
