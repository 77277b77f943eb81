package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/aboxer/storage"
)

type runsFlags struct {
	natsURL string
	bucket  string
	limit   int
	json    bool
}

func runsCmd(g *globalFlags) *cobra.Command {
	f := &runsFlags{}

	cmd := &cobra.Command{
		Use:   "runs [input]",
		Short: "List recorded conversion runs",
		Long: `List the conversion runs recorded in NATS KV, most recent first.
With an input argument only the runs of that input are listed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, cfg, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("nats-url") {
				cfg.NATS.URL = f.natsURL
			}
			if cmd.Flags().Changed("bucket") {
				cfg.NATS.RunsBucket = f.bucket
			}
			if cfg.NATS.URL == "" {
				return errors.New("runs needs a NATS server: set nats.url or --nats-url")
			}

			ctx := cmd.Context()
			natsClient, err := connectToNATS(ctx, cfg.NATS.URL, logger)
			if err != nil {
				return err
			}
			defer natsClient.Close(context.Background())

			store, err := openRunStore(ctx, natsClient, cfg.NATS.RunsBucket)
			if err != nil {
				return err
			}

			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return listRuns(ctx, cmd.OutOrStdout(), store, input, f)
		},
	}

	cmd.Flags().StringVar(&f.natsURL, "nats-url", "", "NATS server holding the runs")
	cmd.Flags().StringVar(&f.bucket, "bucket", "", "KV bucket holding the runs (default "+storage.BucketRuns+")")
	cmd.Flags().IntVar(&f.limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolVar(&f.json, "json", false, "Print runs as JSON")
	return cmd
}

func listRuns(ctx context.Context, w io.Writer, store *storage.Store, input string, f *runsFlags) error {
	runs, err := store.ListRuns(ctx, input)
	if err != nil {
		return err
	}
	if f.limit > 0 && len(runs) > f.limit {
		runs = runs[:f.limit]
	}

	if f.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if runs == nil {
			runs = []*storage.Run{}
		}
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tINPUT\tSTARTED\tAXIOMS\tBLACKLISTED\tINDIVIDUALS\tERROR")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.ID, r.Status, r.Input, r.StartedAt.Format(time.RFC3339),
			r.Axioms, len(r.Blacklisted), r.Stats.NewIndividuals+r.Stats.AnonymousIndividuals, r.Error)
	}
	return tw.Flush()
}
