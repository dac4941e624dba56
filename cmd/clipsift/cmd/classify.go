package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/clipsift/clipsift/internal/query"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Classify a query and show the selected fusion weights",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")

		dir, closeDir, err := openDirectory()
		if err != nil {
			return err
		}
		defer closeDir()

		classifier := query.NewClassifier(dir, keywordSets(), logger)
		c := classifier.Classify(cmd.Context(), text)
		weights := query.SelectWeights(c, text, cfg.Params().DefaultWeights)

		return printJSON(map[string]any{
			"query":   text,
			"kind":    c.Kind,
			"person":  c.Person,
			"weights": weights,
		})
	},
}

// keywordSets builds classifier keyword overrides from config.
func keywordSets() query.KeywordSets {
	return query.KeywordSets{
		Visual: cfg.Classifier.VisualKeywords,
		Audio:  cfg.Classifier.AudioKeywords,
		Speech: cfg.Classifier.SpeechKeywords,
	}
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
