package main

import "github.com/idlab-discover/ghtt/internal/cmd"

func main() {
	cmd.Execute()
}
