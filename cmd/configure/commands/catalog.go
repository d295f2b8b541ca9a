package commands

import (
	"fmt"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/suggest"
	"github.com/spf13/cobra"
)

// NewCatalogCmd creates the catalog inspection command.
func NewCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the embedded suggestion template catalog",
	}
	cmd.AddCommand(newCatalogListCmd())
	return cmd
}

func newCatalogListCmd() *cobra.Command {
	var mood string
	var titles bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List template counts per mood and category",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := suggest.DefaultCatalog()

			moods := models.Moods
			if mood != "" {
				m, ok := models.ParseMood(mood)
				if !ok {
					return fmt.Errorf("unknown mood %q", mood)
				}
				moods = []models.Mood{m}
			}

			fmt.Printf("Catalog: %d templates\n\n", catalog.Size())
			for _, m := range moods {
				fmt.Printf("%s:\n", m)
				for _, c := range models.Categories {
					candidates := catalog.Candidates(m, c)
					fmt.Printf("  %-14s %d\n", c, len(candidates))
					if titles {
						for _, tmpl := range candidates {
							fmt.Printf("    - %s (%d min)\n", tmpl.Title, tmpl.DurationMinutes)
						}
					}
				}
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "", "Only show templates for this mood")
	cmd.Flags().BoolVar(&titles, "titles", false, "Show template titles")
	return cmd
}
