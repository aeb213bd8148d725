package tests

import (
	"flag"
	"fmt"
	"os"
	"testing"
)

// Lowest acceptable value of testing.Coverage() when the suite runs with -cover.
var coverageFloor = flag.Float64(
	"minimum-coverage",
	0.85,
	"fraction of statements the suite must cover, 0.0-1.0",
)

// Gates the whole suite on statement coverage. The gate only engages when the run
// collects coverage, so a plain `go test` is unaffected.
func TestMain(m *testing.M) {
	flag.Parse()

	exitCode := m.Run()

	if exitCode == 0 && testing.CoverMode() != "" {
		covered := testing.Coverage()
		if covered < *coverageFloor {
			fmt.Fprintf(
				os.Stderr,
				"suite covered %.1f%% of statements, floor is %.1f%%\n",
				covered*100,
				*coverageFloor*100,
			)
			exitCode = 1
		}
	}

	os.Exit(exitCode)
}
