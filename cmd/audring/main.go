// SPDX-License-Identifier: EPL-2.0

// Command audring decodes audio through lock-free ring buffers and measures
// their throughput.
package main

import (
	"fmt"
	"os"

	"github.com/ik5/audring/cmd/audring/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
