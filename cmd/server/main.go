package main

import "github.com/meuseventos/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
