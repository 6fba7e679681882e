// Command framecheck inspects stereo rig calibrations and recorded camera
// poses through typed frame transforms.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "framecheck:", err)
		os.Exit(1)
	}
}
