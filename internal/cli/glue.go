package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vk/halglue/internal/config"
	"github.com/vk/halglue/internal/validate"
)

func newGlueCommand(opts *options) *cobra.Command {
	glue := &cobra.Command{
		Use:   "glue",
		Short: "Analyze and validate HAL glue configurations",
	}
	glue.AddCommand(
		newGlueInitCommand(opts),
		newGlueListCommand(opts),
		newGlueValidateCommand(opts),
		newGlueRemoveCommand(opts),
	)
	return glue
}

func newGlueInitCommand(opts *options) *cobra.Command {
	var ref string
	cmd := &cobra.Command{
		Use:   "init <platform> <repository-url>",
		Short: "Fetch and analyze a HAL package for a new platform",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			report, err := a.GlueInit(cmd.Context(), args[0], args[1], ref)
			if err != nil {
				return err
			}
			fmt.Fprint(opts.outW, report.String())
			return reportOutcome(report)
		},
	}
	cmd.Flags().StringVar(&ref, "ref", "", "Repository ref to analyze. Defaults to the main branch.")
	return cmd
}

func newGlueListCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured platforms and their native-mockable sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			report, err := a.GlueList(cmd.Context())
			if err != nil {
				return err
			}
			printListing(opts, report)
			return nil
		},
	}
}

func newGlueValidateCommand(opts *options) *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Re-analyze every platform and reconcile the workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			report, err := a.GlueValidate(cmd.Context(), apply)
			if err != nil {
				return err
			}
			fmt.Fprint(opts.outW, report.String())
			return reportOutcome(report)
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the result and advance platforms with zero errors.")
	return cmd
}

func newGlueRemoveCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <platform>",
		Short: "Tombstone a platform, leaving its units for manual cleanup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			if err := a.GlueRemove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(opts.outW, "platform %q removed; its generated units remain until cleaned up\n", args[0])
			return nil
		},
	}
}

// reportOutcome converts a finished report into the exit contract: errors in
// the report map to exit code 1, warnings never fail the command.
func reportOutcome(report *validate.Report) error {
	if n := report.ErrorCount(); n > 0 {
		return &ReportError{Errors: n}
	}
	return nil
}

// printListing renders the condensed per-platform table used by list
// commands: name, target, native-mockable set, warning count.
func printListing(opts *options, report *validate.Report) {
	if len(report.Platforms) == 0 {
		fmt.Fprintln(opts.outW, "no platforms configured")
		return
	}
	for _, p := range report.Platforms {
		targetID := p.Target
		if targetID == "" {
			targetID = "-"
		}
		warnings := 0
		for _, d := range p.Diagnostics {
			if d.Severity == config.SeverityWarning {
				warnings++
			}
		}
		fmt.Fprintf(opts.outW, "%s\t%s\t%s\t[%s]\t%d warning(s)\n",
			p.Name, p.Status, targetID, strings.Join(p.Mockable, ", "), warnings)
	}
}
