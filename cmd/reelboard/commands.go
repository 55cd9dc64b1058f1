package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rpggio/reelboard/internal/domain/activity"
	"github.com/rpggio/reelboard/internal/domain/movie"
	"github.com/spf13/cobra"
)

func newBoardCmd(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the three board columns",
		Example: `  reelboard board
  reelboard board --query war`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeWith(&err, s)

			s.app.Store.SetSearchQuery(query)
			board := s.app.Store.SelectBoard()
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), board)
			}
			printBoard(cmd.OutOrStdout(), board)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only movies whose name contains this text")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var query, status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List movies, optionally in one column",
		Example: `  reelboard list
  reelboard list --status watching`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			var parsed movie.Status
			if status != "" {
				var err error
				if parsed, err = movie.ParseStatus(status); err != nil {
					return fmt.Errorf("%w: %q", err, status)
				}
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeWith(&err, s)

			s.app.Store.SetSearchQuery(query)
			movies := s.app.Store.SelectFiltered()
			if parsed != "" {
				movies = s.app.Store.SelectByStatus(parsed)
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), nonNilMovies(movies))
			}
			printMovies(cmd.OutOrStdout(), movies)
			return nil
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "only movies whose name contains this text")
	cmd.Flags().StringVarP(&status, "status", "s", "", "watchlist, watching or watched")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var status, review string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add a movie (to the watchlist unless --status is given)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			req := movie.AddRequest{Name: args[0], Review: review}
			if status != "" {
				parsed, err := movie.ParseStatus(status)
				if err != nil {
					return fmt.Errorf("%w: %q", err, status)
				}
				req.Status = parsed
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeWith(&err, s)

			m, err := s.app.Store.AddMovie(cmd.Context(), req)
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), m)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added #%d %s (%s)\n", m.ID, m.Name, m.Status)
			return nil
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "initial column")
	cmd.Flags().StringVarP(&review, "review", "r", "", "review text")
	return cmd
}

func newMoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "move ID STATUS",
		Short:   "Move a movie to another column",
		Example: "  reelboard move 3 watched",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			status, err := movie.ParseStatus(args[1])
			if err != nil {
				return fmt.Errorf("%w: %q", err, args[1])
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeWith(&err, s)

			res, err := s.app.Store.UpdateStatus(cmd.Context(), id, status)
			if err != nil {
				return err
			}
			return reportUpdate(cmd.OutOrStdout(), opts.jsonOutput, id, res, "moved to "+string(status))
		},
	}
}

func newReviewCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "review ID TEXT",
		Short:   "Replace a movie's review",
		Example: `  reelboard review 3 "worth the wait"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeWith(&err, s)

			res, err := s.app.Store.UpdateReview(cmd.Context(), id, args[1])
			if err != nil {
				return err
			}
			return reportUpdate(cmd.OutOrStdout(), opts.jsonOutput, id, res, "review updated")
		},
	}
}

func newActivityCmd(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent board activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			s, err := opts.openSession(cmd)
			if err != nil {
				return err
			}
			defer closeWith(&err, s)

			if s.app.Activity == nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "activity log is not available with this storage driver")
				return nil
			}
			entries, err := s.app.Activity.GetRecentActivity(cmd.Context(), activity.ListOptions{Limit: limit})
			if err != nil {
				return err
			}
			if opts.jsonOutput {
				if entries == nil {
					entries = []activity.Entry{}
				}
				return writeJSON(cmd.OutOrStdout(), entries)
			}
			printActivity(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries")
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", movie.ErrInvalidID, raw)
	}
	return id, nil
}

// reportUpdate prints the outcome. An unknown id is reported but is not a failure.
func reportUpdate(w io.Writer, asJSON bool, id int64, res movie.UpdateResult, action string) error {
	if asJSON {
		return writeJSON(w, res)
	}
	switch {
	case !res.Found:
		fmt.Fprintf(w, "no movie with id %d\n", id)
	case !res.Changed:
		fmt.Fprintf(w, "#%d %s unchanged\n", id, res.Movie.Name)
	default:
		fmt.Fprintf(w, "#%d %s %s\n", id, res.Movie.Name, action)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printBoard(w io.Writer, board movie.Board) {
	if board.Query != "" {
		fmt.Fprintf(w, "search: %q\n\n", board.Query)
	}
	for i, status := range movie.Statuses() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		column := board.Column(status)
		fmt.Fprintf(w, "%s (%d)\n", strings.ToUpper(string(status)), len(column))
		for _, m := range column {
			line := fmt.Sprintf("  #%d %s", m.ID, m.Name)
			if m.Review != "" {
				line += " - " + m.Review
			}
			fmt.Fprintln(w, line)
		}
	}
}

func printMovies(w io.Writer, movies []movie.Movie) {
	if len(movies) == 0 {
		fmt.Fprintln(w, "No movies found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS\tREVIEW")
	for _, m := range movies {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Name, m.Status, m.Review)
	}
	tw.Flush()
}

func printActivity(w io.Writer, entries []activity.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No activity yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tTYPE\tSUMMARY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Type, e.Summary)
	}
	tw.Flush()
}

func nonNilMovies(movies []movie.Movie) []movie.Movie {
	if movies == nil {
		return []movie.Movie{}
	}
	return movies
}
