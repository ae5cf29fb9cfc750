package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/liasse/internal/accounts"
	"github.com/cleared-dev/liasse/internal/coherence"
	"github.com/cleared-dev/liasse/internal/engine"
	"github.com/cleared-dev/liasse/internal/ledger"
	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/model"
	"github.com/cleared-dev/liasse/internal/report"
)

// ErrIncoherent is returned by compute --strict when a coherence check fails.
var ErrIncoherent = errors.New("statements are not coherent")

func newComputeCommand(a *app) *cobra.Command {
	var (
		currentPath string
		priorPath   string
		period      string
		priorPeriod string
		outDir      string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute every statement from a trial balance and check coherence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := ledger.Options{MergeDuplicates: a.cfg.Engine.MergeDuplicates}

			current, err := readSnapshot(currentPath, period, opts)
			if err != nil {
				return err
			}
			var prior *model.Snapshot
			if priorPath != "" {
				if prior, err = readSnapshot(priorPath, priorPeriod, opts); err != nil {
					return err
				}
			}

			reg, err := a.registry()
			if err != nil {
				return err
			}
			log := logging.FromContext(cmd.Context())
			audit(log, reg, current)
			if prior != nil {
				audit(log, reg, prior)
			}

			eng, err := a.engine()
			if err != nil {
				return err
			}
			res, err := eng.Run(cmd.Context(), current, prior)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := report.WriteDir(outDir, res.Statements, res.Coherence.Discrepancies); err != nil {
					return err
				}
			} else if err := printResult(cmd.OutOrStdout(), res); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "coherence: %d discrepancies\n", len(res.Coherence.Discrepancies))
			if strict && !res.Coherence.OK {
				return ErrIncoherent
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&currentPath, "current", "", "trial balance CSV of the current period (required)")
	_ = cmd.MarkFlagRequired("current")
	cmd.Flags().StringVar(&priorPath, "prior", "", "trial balance CSV of the prior period")
	cmd.Flags().StringVar(&period, "period", "N", "label of the current period")
	cmd.Flags().StringVar(&priorPeriod, "prior-period", "N-1", "label of the prior period")
	cmd.Flags().StringVar(&outDir, "out", "", "write one CSV per statement into this directory instead of stdout")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when a coherence check fails")

	return cmd
}

func (a *app) engine() (*engine.Engine, error) {
	cat, err := a.catalog()
	if err != nil {
		return nil, err
	}
	rules, err := coherence.RulesFor(a.sys)
	if err != nil {
		return nil, err
	}
	eps, err := a.cfg.Engine.EpsilonValue()
	if err != nil {
		return nil, err
	}
	return engine.New(cat, rules, engine.Options{
		Precision:          a.cfg.Engine.Precision,
		VariationPrecision: a.cfg.Engine.VariationPrecision,
		Epsilon:            eps,
		Parallel:           a.cfg.Engine.Parallel,
	}), nil
}

// audit logs what the statements cannot account for: an unbalanced trial
// balance, and codes the chart only knows by their class digit.
func audit(log *slog.Logger, reg *accounts.Registry, snap *model.Snapshot) {
	log = log.With(slog.String("period", snap.Period()))

	debit, credit := snap.Totals()
	if !debit.Equal(credit) {
		log.Warn("trial balance is not balanced",
			slog.String("debit", debit.String()),
			slog.String("credit", credit.String()),
			slog.String("difference", debit.Sub(credit).String()))
	}

	for _, e := range snap.Entries() {
		if reg.Exists(e.Account) {
			continue
		}
		m, ok := reg.Closest(e.Account)
		switch {
		case !ok:
			log.Warn("account outside the chart", slog.String("account", e.Account))
		case m.IsClass:
			log.Warn("account outside the chart", slog.String("account", e.Account), slog.String("class", m.Code))
		default:
			log.Debug("account resolved to chart position",
				slog.String("account", e.Account),
				slog.String("closest", m.Code),
				slog.Float64("score", m.Score))
		}
	}
}

func readSnapshot(path, period string, opts ledger.Options) (*model.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trial balance: %w", err)
	}
	defer f.Close()

	entries, err := ledger.ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ledger.Build(period, entries, opts)
}

func printResult(w io.Writer, res *engine.Result) error {
	for _, name := range res.Names {
		fmt.Fprintf(w, "# %s\n", name)
		if err := report.WriteLines(w, res.Statements[name]); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "# coherence")
	return report.WriteDiscrepancies(w, res.Coherence.Discrepancies)
}
