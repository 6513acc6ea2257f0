package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"deckflow/internal/config"
	"deckflow/internal/workspace"
)

func newWorkspaceCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workspace",
		Short: "Inspect and clean leftover conversion workspaces",
	}
	cmd.AddCommand(newWorkspaceListCommand(ctx))
	cmd.AddCommand(newWorkspaceCleanCommand(ctx))
	return cmd
}

func newWorkspaceListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list DIR",
		Short: "List workspaces under DIR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			dirs, err := workspace.Find(root, cfg.Conversion.WorkspaceName)
			if err != nil {
				return fmt.Errorf("scan %s: %w", root, err)
			}
			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintln(out, "No workspaces found")
				return nil
			}
			rows := make([][]string, 0, len(dirs))
			var total int64
			for _, d := range dirs {
				total += d.Size
				rows = append(rows, []string{
					d.Path,
					humanize.Bytes(uint64(d.Size)),
					strconv.Itoa(d.Files),
					humanize.Time(d.ModTime),
					yesNo(d.Locked),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Path", "Size", "Files", "Modified", "In use"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d workspace(s), %s total\n", len(dirs), humanize.Bytes(uint64(total)))
			return nil
		},
	}
}

func newWorkspaceCleanCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "clean DIR",
		Short: "Remove workspaces under DIR that no run is using",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			result := workspace.CleanStale(cmd.Context(), root, cfg.Conversion.WorkspaceName, olderThan, logger)

			out := cmd.OutOrStdout()
			for _, path := range result.Removed {
				fmt.Fprintf(out, "removed %s\n", path)
			}
			for _, path := range result.Skipped {
				fmt.Fprintf(out, "skipped %s (in use)\n", path)
			}
			for _, e := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed %s: %v\n", e.Path, e.Error)
			}
			fmt.Fprintf(out, "%d removed, %d skipped, %d failed\n", len(result.Removed), len(result.Skipped), len(result.Errors))
			if len(result.Errors) > 0 {
				return &exitError{code: exitFailed}
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Only remove workspaces last modified before this age (e.g. 24h)")
	return cmd
}
