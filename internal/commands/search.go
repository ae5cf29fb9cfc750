package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/liasse/internal/model"
	"github.com/cleared-dev/liasse/internal/reference"
)

func newSearchCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search accounts, functional rules and operation chapters",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := a.index()
			if err != nil {
				return err
			}
			results := ix.Search(cmd.Context(), strings.Join(args, " "), limit)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SCORE\tTYPE\tCODE\tHIGHLIGHT")
			for _, r := range results {
				code := r.Code
				if r.Type == reference.TypeChapter {
					code = fmt.Sprintf("ch.%d", r.Chapter)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.Score, r.Type, code, r.Highlight)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results (config default when 0)")
	return cmd
}

func newLookupCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <code>",
		Short: "Show an account with its parent, children, rule and chapters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ix, err := a.index()
			if err != nil {
				return err
			}
			code := model.NormalizeCode(args[0])
			d, ok := ix.AccountDetail(cmd.Context(), code)
			if !ok {
				reg, err := a.registry()
				if err != nil {
					return err
				}
				if m, ok := reg.Closest(code); ok {
					fmt.Fprintf(cmd.OutOrStdout(), "closest: %s  %s (%.2f)\n", m.Code, m.Label, m.Score)
				}
				return fmt.Errorf("account %s is not in the chart", code)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s  %s\n", d.Account.Code, d.Account.Label)
			fmt.Fprintf(w, "class %d, %s, normal side %s, mandatory %t\n",
				d.Account.Class, d.Account.Nature, d.Account.NormalSide, d.Account.Mandatory)
			if d.Parent != nil {
				fmt.Fprintf(w, "parent: %s  %s\n", d.Parent.Code, d.Parent.Label)
			}
			for _, c := range d.Children {
				fmt.Fprintf(w, "child: %s  %s\n", c.Code, c.Label)
			}
			if d.Rule != nil {
				fmt.Fprintf(w, "rule %s: %s\n", d.Rule.Code, d.Rule.Content)
			}
			for _, ch := range d.Chapters {
				fmt.Fprintf(w, "chapter %d: %s\n", ch.Number, ch.Title)
			}
			return nil
		},
	}
}

func newChaptersCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List the operation chapters of the reference corpus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s := a.cfg.Search
			lib := reference.NewLibrary(reference.Embedded(), s.LoadTimeout)
			chapters, err := lib.Chapters(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CHAPTER\tSECTIONS\tACCOUNTS\tTITLE")
			for _, ch := range chapters {
				fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", ch.Number, ch.Sections, strings.Join(ch.Accounts, ","), ch.Title)
			}
			return tw.Flush()
		},
	}
}
