package main

import "github.com/meigma/oaf/cmd/oaf/cmd"

func main() {
	cmd.Execute()
}
