package cli

import (
	"errors"
	"fmt"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/fetch"
)

// Exit codes surfaced by the halglue process.
const (
	ExitOK           = 0
	ExitReportErrors = 1
	ExitNetwork      = 2
	ExitCorrupt      = 3
)

// ReportError signals that a run completed but its report carries
// error-severity diagnostics.
type ReportError struct {
	Errors int
}

func (e *ReportError) Error() string {
	return fmt.Sprintf("report contains %d error(s)", e.Errors)
}

// ExitCode maps an error to the process exit code contract: 0 success,
// 1 report errors (and any other failure), 2 network failure, 3 corrupt
// configuration.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var corrupt *config.CorruptError
	if errors.As(err, &corrupt) {
		return ExitCorrupt
	}
	var network *fetch.NetworkError
	if errors.As(err, &network) {
		return ExitNetwork
	}
	return ExitReportErrors
}
