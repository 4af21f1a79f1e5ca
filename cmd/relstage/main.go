package main

import (
	"github.com/relstage/relstage/cmd/relstage/cmd"
)

func main() {
	cmd.Execute()
}
