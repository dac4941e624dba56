package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/clipsift/clipsift/internal/fusion"
	"github.com/clipsift/clipsift/internal/query"
	"github.com/clipsift/clipsift/internal/telemetry"
)

var (
	fuseVisualPath string
	fuseAudioPath  string
	fuseSpeechPath string
	fuseQuery      string
)

var fuseCmd = &cobra.Command{
	Use:   "fuse",
	Short: "Fuse timestamped match lists into ranked time windows",
	Long: `Fuse reads per-modality timestamped match lists from JSON files and
prints the ranked fused timestamps. When --query is given, fusion weights
are selected from the query classification; otherwise defaults apply.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		visual, err := loadMatches(fuseVisualPath)
		if err != nil {
			return err
		}
		audio, err := loadMatches(fuseAudioPath)
		if err != nil {
			return err
		}
		speech, err := loadMatches(fuseSpeechPath)
		if err != nil {
			return err
		}

		params := cfg.Params()
		weights := params.DefaultWeights
		kind := query.KindMixed
		if fuseQuery != "" {
			dir, closeDir, err := openDirectory()
			if err != nil {
				return err
			}
			defer closeDir()

			classifier := query.NewClassifier(dir, keywordSets(), logger)
			c := classifier.Classify(cmd.Context(), fuseQuery)
			kind = c.Kind
			weights = query.SelectWeights(c, fuseQuery, params.DefaultWeights)
			logger.Info("selected weights", "kind", c.Kind, "weights", weights)
		}

		engine := fusion.NewTemporalEngine(params, logger)
		start := time.Now()
		fused := engine.Fuse(visual, audio, speech, weights)
		elapsed := time.Since(start)

		metrics.Record(telemetry.FusionEvent{
			Query:          fuseQuery,
			Classification: string(kind),
			ResultCount:    len(fused),
			Latency:        elapsed,
			Timestamp:      time.Now(),
		})
		logger.Debug("fusion completed",
			"results", len(fused), "bucket", telemetry.LatencyToBucket(elapsed))

		return printJSON(fused)
	},
}

// loadMatches reads a validated match list from a JSON file. An empty path
// yields an empty list.
func loadMatches(path string) ([]fusion.TimestampMatch, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return fusion.DecodeTimestampMatches(f)
}

var filefuseCmd = &cobra.Command{
	Use:   "filefuse <results.json>",
	Short: "Fuse file-level results across modalities",
	Long: `Filefuse reads a JSON array of per-modality file results, groups them by
modality, and prints one ranked entry per file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		results, err := fusion.DecodeSearchResults(f)
		if err != nil {
			return err
		}

		perModality := make(map[string][]fusion.SearchResult)
		for _, r := range results {
			perModality[r.Modality] = append(perModality[r.Modality], r)
		}

		engine := fusion.NewCrossModalEngine(cfg.Params(), logger)
		fused := engine.Fuse(perModality, fuseQuery, nil)
		if filefuseRerank {
			fused = engine.Rerank(fused)
		}
		return printJSON(fused)
	},
}

var filefuseRerank bool

func init() {
	fuseCmd.Flags().StringVar(&fuseVisualPath, "visual", "", "JSON file with visual matches")
	fuseCmd.Flags().StringVar(&fuseAudioPath, "audio", "", "JSON file with audio matches")
	fuseCmd.Flags().StringVar(&fuseSpeechPath, "speech", "", "JSON file with speech matches")
	fuseCmd.Flags().StringVarP(&fuseQuery, "query", "q", "", "query text for weight selection")

	filefuseCmd.Flags().StringVarP(&fuseQuery, "query", "q", "", "query text (logged with results)")
	filefuseCmd.Flags().BoolVar(&filefuseRerank, "rerank", false, "apply secondary re-ranking from metadata factors")

	rootCmd.AddCommand(fuseCmd)
	rootCmd.AddCommand(filefuseCmd)
}
