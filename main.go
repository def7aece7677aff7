package main

import (
	"github.com/hedisam/fabexplorer/cmd/fabexplorer"
)

func main() {
	fabexplorer.Execute()
}
