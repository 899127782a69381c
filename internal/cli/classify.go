package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/justestif/go-spotify-taste-profile/internal/logging"
	"github.com/justestif/go-spotify-taste-profile/internal/profile"
)

func newClassifyCommand(opts *globalOptions) *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "classify <track-id>...",
		Short: "Classify a list of Spotify track IDs",
		Long:  `Classify prints the listener group, its explanation and a table of the aggregate statistics.`,
		Args:  cobra.RangeArgs(1, 50),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("concurrency") {
				cfg.Classifier.Concurrency = concurrency
			}

			ctx := logging.ContextWithRequestID(cmd.Context(), logging.GenerateRequestID())
			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.service.Classify(ctx, trackIDs(args))
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 1, "tracks extracted in parallel")
	return cmd
}

// trackIDs accepts bare IDs, spotify:track: URIs and open.spotify.com links.
func trackIDs(args []string) []string {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id := strings.TrimSpace(arg)
		id = strings.TrimPrefix(id, "spotify:track:")
		if _, rest, ok := strings.Cut(id, "/track/"); ok {
			id = rest
		}
		id, _, _ = strings.Cut(id, "?")
		ids = append(ids, id)
	}
	return ids
}

func printResult(w io.Writer, res profile.Result) error {
	fmt.Fprintf(w, "Group: %s\n\n%s\n", res.Group, res.Explanation)
	if res.Summary == nil {
		return nil
	}
	fmt.Fprintln(w)
	if err := renderStats(w, *res.Summary); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return renderGroups(w, *res.Summary)
}

func renderStats(w io.Writer, s profile.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Metric", "Mean", "Std dev")

	rows := []struct {
		name string
		stat profile.Stat
	}{
		{"popularity", s.Popularity},
		{"duration", s.Duration},
		{"explicit", s.Explicit},
		{"tempo", s.Tempo},
		{"sentiment", s.Sentiment},
		{"release year", s.ReleaseYear},
	}
	for _, r := range rows {
		if err := table.Append(r.name, fmt.Sprintf("%.2f", r.stat.Mean), fmt.Sprintf("%.2f", r.stat.StdDev)); err != nil {
			return err
		}
	}
	if err := table.Append("genre diversity", fmt.Sprintf("%.2f", s.GenreDiversity), "-"); err != nil {
		return err
	}
	return table.Render()
}

func renderGroups(w io.Writer, s profile.Summary) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Genre", "Decade", "Final", "")

	for _, g := range profile.Groups() {
		mark := ""
		if g == s.Predicted {
			mark = "predicted"
		}
		err := table.Append(
			g.String(),
			fmt.Sprintf("%.2f", s.AvgGenre.Get(g)),
			fmt.Sprintf("%.2f", s.AvgDecade.Get(g)),
			fmt.Sprintf("%.2f", s.Final.Get(g)),
			mark,
		)
		if err != nil {
			return err
		}
	}
	return table.Render()
}
