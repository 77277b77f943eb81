package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/aboxer/aboxer"
	"github.com/c360studio/aboxer/closure"
	"github.com/c360studio/aboxer/ontology"
	"github.com/c360studio/aboxer/pipeline"
)

const (
	engineWorklist = "worklist"
	engineDatalog  = "datalog"
)

func blacklistCmd(g *globalFlags) *cobra.Command {
	var (
		engine             string
		expandEquivalences bool
	)

	cmd := &cobra.Command{
		Use:   "blacklist <input>",
		Short: "Print the classes that stay classes",
		Long: `Print the IRIs of the blacklisted classes of an ontology, one per line,
sorted. Blacklisted classes are not turned into individuals by convert.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			o, err := pipeline.ReadOntology(args[0])
			if err != nil {
				return err
			}

			axioms := o.Axioms()
			if expandEquivalences || cfg.Conversion.ExpandEquivalences {
				axioms = ontology.ExpandEquivalences(axioms)
			}

			var classes []ontology.Class
			switch engine {
			case engineWorklist:
				b := aboxer.NewBlacklister(logger)
				b.ProcessAll(axioms)
				classes = b.Blacklisted().Sorted()
			case engineDatalog:
				classes, err = closure.Compute(axioms)
				if err != nil {
					return fmt.Errorf("compute blacklist: %w", err)
				}
			default:
				return fmt.Errorf("unknown engine %q (want %s or %s)", engine, engineWorklist, engineDatalog)
			}

			out := cmd.OutOrStdout()
			for _, c := range classes {
				fmt.Fprintln(out, c.IRI)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&engine, "engine", engineWorklist, "Blacklist engine (worklist, datalog)")
	cmd.Flags().BoolVar(&expandEquivalences, "expand-equivalences", false, "Rewrite EquivalentClasses into SubClassOf pairs first")
	return cmd
}
