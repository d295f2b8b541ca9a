package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/suggest"
	"github.com/spf13/cobra"
)

// NewSuggestCmd creates the offline suggestion preview command. It runs the
// template generator locally without touching the database or any provider.
func NewSuggestCmd() *cobra.Command {
	var mood string
	var categories []string
	var count int
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Preview template suggestions for a mood",
		Long:  "Generate suggestions from the embedded catalog, the same way the API does when the remote provider is unavailable.",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, ok := models.ParseMood(mood)
			if !ok {
				return fmt.Errorf("unknown mood %q (valid: %v)", mood, models.Moods)
			}

			var preferred []models.Category
			for _, raw := range categories {
				c, ok := models.ParseCategory(raw)
				if !ok {
					return fmt.Errorf("unknown category %q (valid: %v)", raw, models.Categories)
				}
				preferred = append(preferred, c)
			}

			generator := suggest.NewGenerator()
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			for i := 0; i < count; i++ {
				suggestion := generator.Generate(m, preferred)
				if err := enc.Encode(suggestion); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mood, "mood", "stressed", "Current mood")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Preferred categories (comma separated)")
	cmd.Flags().IntVar(&count, "count", 1, "Number of suggestions to generate")
	return cmd
}
