package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "init <name>",
		Short: "Initialize a new multi-target workspace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			root, err := a.InitProject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.outW, "workspace %q initialized at %s\n", args[0], root)
			return nil
		},
	}
}

func newAddPlatformCommand(opts *options) *cobra.Command {
	var triple, halCrate string
	cmd := &cobra.Command{
		Use:   "add-platform <name>",
		Short: "Emit HAL-wrapper and application units for a platform",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			if err := a.AddPlatform(cmd.Context(), args[0], triple, halCrate); err != nil {
				return err
			}
			fmt.Fprintf(opts.outW, "platform %q scaffolded\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&triple, "target", "", "Target triple. Defaults to the platform's glue record.")
	cmd.Flags().StringVar(&halCrate, "hal", "", "HAL crate dependency name. Defaults to <name>-hal.")
	return cmd
}

func newListPlatformsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list-platforms",
		Short: "List configured platforms",
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

func newBuildCommand(opts *options) *cobra.Command {
	var platform string
	var useCross bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the workspace or one platform's application unit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			return a.Build(cmd.Context(), platform, useCross)
		},
	}
	cmd.Flags().StringVar(&platform, "platform", "", "Platform to build for. Empty builds the host workspace.")
	cmd.Flags().BoolVar(&useCross, "cross", false, "Use cross instead of cargo.")
	return cmd
}

func newTestCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run the host test harness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			return a.Test(cmd.Context())
		},
	}
}
