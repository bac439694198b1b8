package main

import (
	"os"

	"github.com/KTest-VN/BarcodeFinder-OGU/cmd"
)

func main() {
	cmd.Execute(os.Args[1:])
}
