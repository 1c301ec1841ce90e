package seed

import (
	"os"
)

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Diamond season seeder
=====================

Writes a generated season into the configured store, asks a running
server to refresh, then checks its leaderboard against a local computation.
The store is selected with the same DIAMOND_* settings as the server and
must be shared with it (sqlite file or postgres).

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:5000")
  -athletes int
        Number of athletes to generate (default 60)
  -top int
        Number of leaderboard entries to verify (default 25)
  -seed uint
        Generator seed (default: current time)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Write the generated season as JSON to this file
  -verbose
        Log every leaderboard entry
  -help
        Show this help message

Examples:
  DIAMOND_STORE_DSN=file:diamond.db go run ./cmd/seed -athletes 200 -top 50
  go run ./cmd/seed -seed 42 -output season.json
`)
}
