package main

import (
	"github.com/dsemenov-dev/dutymeter/internal/cmd"
)

func main() {
	cmd.Execute()
}
