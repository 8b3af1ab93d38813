package main

import (
	"os"

	localragcmder "github.com/NimanthaSupun/localrag/cmd/localrag"
)

func main() {
	cmd := localragcmder.NewLocalragCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
