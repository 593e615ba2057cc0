// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/swiftpack/swiftpack/cmd/swiftpack"

func main() {
	cmd.Execute()
}
