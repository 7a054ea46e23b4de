package main

import "github.com/pfrederiksen/airtable-events/internal/cli"

func main() {
	cli.Execute()
}
