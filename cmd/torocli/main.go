// Command torocli runs timing analysis over a cause-effect chain scenario
// described in YAML: maximum end-to-end latency, per-task robustness
// margins, and (on request) a jointly-safe verification re-run.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
