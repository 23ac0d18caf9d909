package main

import (
	"github.com/foomo/otaserver/cmd"
)

func main() {
	cmd.Execute()
}
