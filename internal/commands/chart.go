package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/liasse/internal/accounts"
	"github.com/cleared-dev/liasse/internal/model"
)

func newChartCommand(a *app) *cobra.Command {
	var (
		class     int
		nature    string
		sector    string
		mandatory bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Summarise the chart of accounts by class, or list the accounts matching filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			var preds []accounts.Predicate
			if class != 0 {
				preds = append(preds, accounts.InClass(class))
			}
			if nature != "" {
				n := model.Nature(strings.ToUpper(nature))
				if !n.Valid() {
					return fmt.Errorf("unknown nature %q", nature)
				}
				preds = append(preds, accounts.WithNature(n))
			}
			if sector != "" {
				preds = append(preds, accounts.InSector(sector))
			}
			if cmd.Flags().Changed("mandatory") {
				preds = append(preds, accounts.IsMandatory(mandatory))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(preds) > 0 {
				fmt.Fprintln(tw, "CODE\tNATURE\tMANDATORY\tLABEL")
				for _, acct := range reg.Filter(preds...) {
					fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", acct.Code, acct.Nature, acct.Mandatory, acct.Label)
				}
				return tw.Flush()
			}

			st := reg.Stats()
			fmt.Fprintln(tw, "CLASS\tLABEL\tACCOUNTS")
			for _, c := range reg.Classes() {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", c.Number, c.Label, st.ByClass[c.Number])
			}
			fmt.Fprintf(tw, "\t%s\t%d\n", "total", st.Total)
			fmt.Fprintf(tw, "\t%s\t%d\n", "mandatory", st.Mandatory)
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&class, "class", 0, "only accounts of this class")
	cmd.Flags().StringVar(&nature, "nature", "", "only accounts of this nature (asset, liability, expense, revenue, special)")
	cmd.Flags().StringVar(&sector, "sector", "", "only accounts usable in this sector, e.g. COMMERCE")
	cmd.Flags().BoolVar(&mandatory, "mandatory", false, "only mandatory accounts, or optional ones with --mandatory=false")
	return cmd
}
