// SPDX-License-Identifier: MPL-2.0

package main

import (
	"os"

	cmd "github.com/invowk/argtree/cmd/argtree"
)

func main() {
	os.Exit(cmd.Main())
}
