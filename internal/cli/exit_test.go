package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/fetch"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitOK},
		{"report errors", &ReportError{Errors: 2}, ExitReportErrors},
		{"generic failure", errors.New("boom"), ExitReportErrors},
		{"network failure", &fetch.NetworkError{Repository: "r", Attempts: 3}, ExitNetwork},
		{
			"wrapped network failure",
			fmt.Errorf("analyze: %w", &fetch.NetworkError{Repository: "r", Attempts: 3}),
			ExitNetwork,
		},
		{"corrupt configuration", &config.CorruptError{Path: "glue.hcl"}, ExitCorrupt},
		{
			"wrapped corrupt configuration",
			fmt.Errorf("load: %w", &config.CorruptError{Path: "glue.hcl"}),
			ExitCorrupt,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestReportErrorMessage(t *testing.T) {
	assert.Equal(t, "report contains 3 error(s)", (&ReportError{Errors: 3}).Error())
}
