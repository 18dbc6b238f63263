package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/vk/halglue/internal/app"
	"github.com/vk/halglue/internal/fetch"
)

// options carries the persistent flag values shared by all subcommands.
type options struct {
	projectRoot string
	logLevel    string
	logFormat   string
	workers     int
	apiBaseURL  string
	rawBaseURL  string

	outW io.Writer
	logW io.Writer

	// fetcher overrides the HTTP client in tests.
	fetcher fetch.Fetcher
}

func (o *options) newApp() (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ProjectRoot: o.projectRoot,
		LogLevel:    o.logLevel,
		LogFormat:   o.logFormat,
		Workers:     o.workers,
		APIBaseURL:  o.apiBaseURL,
		RawBaseURL:  o.rawBaseURL,
	})
	if err != nil {
		return nil, err
	}
	return app.New(o.logW, cfg, o.fetcher), nil
}

// NewRootCommand builds the halglue command tree. Reports print to outW,
// structured logs to logW.
func NewRootCommand(outW, logW io.Writer) *cobra.Command {
	opts := &options{outW: outW, logW: logW}
	return newRootCommand(opts)
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "halglue",
		Short:         "Manage multi-target, native-testable embedded workspaces",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(opts.outW)

	pf := root.PersistentFlags()
	pf.StringVar(&opts.projectRoot, "project-root", ".", "Workspace root containing glue.hcl.")
	pf.StringVar(&opts.logLevel, "log-level", "info", "Logging level: debug, info, warn or error.")
	pf.StringVar(&opts.logFormat, "log-format", "text", "Log output format: text or json.")
	pf.IntVar(&opts.workers, "workers", 0, "Concurrent platform analyses. 0 selects the default.")
	pf.StringVar(&opts.apiBaseURL, "api-base-url", "", "Override the repository API endpoint.")
	pf.StringVar(&opts.rawBaseURL, "raw-base-url", "", "Override the raw content endpoint.")
	_ = pf.MarkHidden("api-base-url")
	_ = pf.MarkHidden("raw-base-url")

	root.AddCommand(
		newInitCommand(opts),
		newAddPlatformCommand(opts),
		newListPlatformsCommand(opts),
		newBuildCommand(opts),
		newTestCommand(opts),
		newGlueCommand(opts),
	)
	return root
}
