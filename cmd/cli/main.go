package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/halglue/internal/cli"
)

// main is the entrypoint for the halglue application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}

// run executes the command tree against the given streams. Split out of main
// so tests can drive it with buffers.
func run(outW, logW io.Writer, args []string) error {
	root := cli.NewRootCommand(outW, logW)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
