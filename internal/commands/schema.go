package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/liasse/internal/aggregate"
	"github.com/cleared-dev/liasse/internal/logging"
	"github.com/cleared-dev/liasse/internal/statement"
)

func newSchemaCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect statement schemas",
	}
	cmd.AddCommand(newSchemaCheckCommand(a), newSchemaShowCommand(a))
	return cmd
}

func newSchemaCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check [directory]",
		Short: "Validate the built-in schemas of the system, or a directory overriding them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.SchemasDir
			if len(args) > 0 {
				dir = args[0]
			}
			cat, err := a.catalogWith(dir)
			if err != nil {
				return err
			}
			reg, err := a.registry()
			if err != nil {
				return err
			}
			log := logging.FromContext(cmd.Context())

			w := cmd.OutOrStdout()
			for _, name := range cat.Names() {
				s, _ := cat.Get(name)
				var unknown [][2]string
				for _, leaf := range s.Leaves() {
					for _, p := range aggregate.UnknownPrefixes(leaf, reg) {
						unknown = append(unknown, [2]string{leaf.Ref, p})
						log.Warn("unknown account prefix", slog.String("statement", name), slog.String("ref", leaf.Ref), slog.String("prefix", p))
					}
				}
				if len(unknown) == 0 {
					fmt.Fprintf(w, "%s: %d lines, %d leaves, ok\n", name, s.Len(), len(s.Leaves()))
					continue
				}
				fmt.Fprintf(w, "%s: %d lines, %d leaves, %d unknown prefixes\n", name, s.Len(), len(s.Leaves()), len(unknown))
				for _, u := range unknown {
					fmt.Fprintf(w, "  %s: %s\n", u[0], u[1])
				}
			}
			return nil
		},
	}
}

func newSchemaShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <statement>",
		Short: "Print a schema as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			s, err := cat.Get(args[0])
			if err != nil {
				return err
			}
			data, err := statement.Marshal(s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
