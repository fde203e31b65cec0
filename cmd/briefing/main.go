package main

import (
	"os"

	"github.com/wonny/briefing/cmd/briefing/commands"
)

// main is the entry point for the briefing CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/briefing [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
