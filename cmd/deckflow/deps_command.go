package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"deckflow/internal/deps"
	"deckflow/internal/pipeline"
	"deckflow/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Report external programs and stage readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			lookups := preflight.CheckSystemDeps(cfg)
			rows := make([][]string, 0, len(lookups))
			for _, l := range lookups {
				where, detail := l.Command, l.Detail
				if l.Found() {
					where, detail = l.Path, l.Purpose
				}
				rows = append(rows, []string{l.Name, where, yesNo(l.Found()), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Path", "Available", "Detail"}, rows, nil))

			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}
			orchestrator, err := pipeline.NewFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			health := orchestrator.Health(cmd.Context())
			stageRows := make([][]string, 0, len(health))
			for _, h := range health {
				stageRows = append(stageRows, []string{h.Name, yesNo(h.Ready), h.Detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Stage", "Ready", "Detail"}, stageRows, nil))

			if missing := deps.MissingRequired(lookups); len(missing) > 0 {
				return &exitError{code: exitFailed, err: fmt.Errorf("%d required dependency(ies) missing", len(missing))}
			}
			return nil
		},
	}
}
