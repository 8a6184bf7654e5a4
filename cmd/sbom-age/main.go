package main

import "sbom-age/internal/cli"

func main() {
	cli.Execute()
}
