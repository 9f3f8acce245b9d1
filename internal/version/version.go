package version

import (
	"fmt"
	"io"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

func IsVersionRequest(args []string) bool {
	return len(args) == 1 && (args[0] == "--version" || args[0] == "-version")
}

func Print(w io.Writer, binaryName string) {
	if w == nil {
		w = io.Discard
	}
	fmt.Fprintf(w, "%s %s\n", binaryName, Version)
}
