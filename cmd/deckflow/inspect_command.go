package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"deckflow/internal/config"
	"deckflow/internal/pptx"
)

func newInspectCommand() *cobra.Command {
	var renderDir string

	cmd := &cobra.Command{
		Use:         "inspect DECK",
		Short:       "Print the slide count of a .pptx deck",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if !strings.EqualFold(filepath.Ext(path), ".pptx") {
				return fmt.Errorf("inspect reads .pptx decks only: %s", filepath.Base(path))
			}
			count, err := pptx.SlideCount(path)
			if err != nil {
				return fmt.Errorf("read deck: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d slide(s)\n", filepath.Base(path), count)

			if dir := strings.TrimSpace(renderDir); dir != "" {
				target, err := config.ExpandPath(dir)
				if err != nil {
					return err
				}
				files, err := pptx.RenderSlides(path, target)
				if err != nil {
					return fmt.Errorf("render slides: %w", err)
				}
				fmt.Fprintf(out, "rendered %d preview(s) to %s\n", len(files), target)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&renderDir, "render", "", "Also render slide previews into this directory")
	return cmd
}
