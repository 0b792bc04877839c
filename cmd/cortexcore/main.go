// Command cortexcore is a thin CLI over the indexing core library: status,
// full index, incremental update, rebuild, drift check, and strategy
// switch — nothing else (spec §6).
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
