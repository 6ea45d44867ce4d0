package main

import (
	"context"
	"encoding/json"
	"io"
	"iter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

// maxConcurrentFetches bounds the requests issued by a multi-id get.
const maxConcurrentFetches = 4

type app struct {
	client *gopay.Client
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "gopay",
		Short:         "Read customers, payments and balance history from the payments API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			a.client, err = gopay.New(s.clientConfig())
			return err
		},
	}
	addConfigFlags(root.PersistentFlags())

	root.AddCommand(a.customersCmd())
	root.AddCommand(a.subscriptionsCmd())
	root.AddCommand(a.paymentIntentsCmd())
	root.AddCommand(a.balanceTransactionsCmd())
	root.AddCommand(a.balanceCmd())
	root.AddCommand(a.eventsCmd())
	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// fetchAll retrieves every id concurrently and writes the result in argument
// order: a single object for one id, an array otherwise.
func fetchAll[T any](cmd *cobra.Command, ids []string,
	get func(ctx context.Context, id string) (*T, error)) error {
	results := make([]*T, len(ids))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(maxConcurrentFetches)
	for i, id := range ids {
		g.Go(func() error {
			v, err := get(ctx, id)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if len(results) == 1 {
		return writeJSON(cmd.OutOrStdout(), results[0])
	}
	return writeJSON(cmd.OutOrStdout(), results)
}

// writeList writes one page, or every page when all is set.
func writeList[T any](cmd *cobra.Command, all bool,
	page func() (*gopay.List[T], error), seq func() iter.Seq2[*T, error]) error {
	if !all {
		l, err := page()
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), l)
	}
	items := []*T{}
	for item, err := range seq() {
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	return writeJSON(cmd.OutOrStdout(), items)
}

func addListFlags(cmd *cobra.Command, lp *gopay.ListParams, all *bool) {
	cmd.Flags().Int64P("limit", "n", 10, "Page size (1-100)")
	cmd.Flags().String("starting-after", "", "Cursor: id of the last object of the previous page")
	cmd.Flags().BoolVar(all, "all", false, "Follow has_more and print every page")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("limit") {
			n, _ := cmd.Flags().GetInt64("limit")
			lp.Limit = gopay.Int64(n)
		}
		if cursor, _ := cmd.Flags().GetString("starting-after"); cursor != "" {
			lp.StartingAfter = gopay.String(cursor)
		}
		return nil
	}
}
