package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/urfave/cli/v3"

	"github.com/go-hostgen/hostgen/cmd/hostgen/cmd/generate"
)

var (
	version  = ""
	revision = ""
)

func init() {
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}
	version = build.Main.Version
	for _, s := range build.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		}
	}
	if version == "" {
		version = revision
	}
	if version == "" {
		version = "(none)"
	}
}

// Command is the root CLI command for hostgen, exported for tests that
// want to run it in-process with captured output.
var Command = &cli.Command{
	Name:  "hostgen",
	Usage: "generate a Go wazero host integration layer from a resolved WIT world",
	Commands: []*cli.Command{
		generate.Command,
	},
	Version: version,
}

func main() {
	if err := Command.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
