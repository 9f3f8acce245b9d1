package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/CoWork-OS/cowork/internal/run"
	"github.com/CoWork-OS/cowork/internal/ui/collab"
	"github.com/CoWork-OS/cowork/internal/version"
	"github.com/CoWork-OS/cowork/internal/workspace"
)

// cowork-feed replays a JSONL file of run envelopes through the view model
// and prints the final render. Used for debugging daemon event captures
// without a live daemon.
func main() {
	os.Exit(RunMain(os.Args[1:], os.Stdout, os.Stderr))
}

func RunMain(args []string, out io.Writer, errOut io.Writer) int {
	if version.IsVersionRequest(args) {
		version.Print(out, "cowork-feed")
		return 0
	}

	fs := flag.NewFlagSet("cowork-feed", flag.ContinueOnError)
	fs.SetOutput(errOut)
	events := fs.String("events", "", "Path to JSONL envelope capture")
	runID := fs.String("run", "", "Run id to replay")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *events == "" {
		fmt.Fprintln(errOut, "--events is required")
		return 1
	}
	if *runID == "" {
		fmt.Fprintln(errOut, "--run is required")
		return 1
	}

	file, err := os.Open(*events)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	defer file.Close()

	vm := run.NewViewModel(*runID, run.PhaseDispatch, nil, nil)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		env, parseErr := workspace.ParseEventEnvelope(line)
		if parseErr != nil {
			fmt.Fprintln(errOut, parseErr)
			return 1
		}
		vm.ApplyEnvelope(env)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	model := collab.NewPlainModel(vm)
	_, _ = io.WriteString(out, model.View()+"\n")
	return 0
}
