package main

import (
	"snapgram/internal/cmd"
)

func main() {
	cmd.Run()
}
