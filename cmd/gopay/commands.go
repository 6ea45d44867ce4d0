package main

import (
	"context"
	"iter"

	"github.com/spf13/cobra"

	"github.com/mihaimyh/gopay/pkg/gopay"
)

func (a *app) customersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "customers", Short: "Manage customers"}

	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Retrieve one or more customers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAll(cmd, args, func(ctx context.Context, id string) (*gopay.Customer, error) {
				return a.client.Customers.Retrieve(ctx, gopay.CustomerID(id), nil)
			})
		},
	}

	var all bool
	params := &gopay.CustomerListParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List customers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email, _ := cmd.Flags().GetString("email"); email != "" {
				params.Email = gopay.String(email)
			}
			ctx := cmd.Context()
			return writeList(cmd, all,
				func() (*gopay.List[gopay.Customer], error) { return a.client.Customers.List(ctx, params) },
				func() iter.Seq2[*gopay.Customer, error] { return a.client.Customers.ListAll(ctx, params) })
		},
	}
	addListFlags(list, &params.ListParams, &all)
	list.Flags().String("email", "", "Only customers with this email")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.client.Customers.Delete(cmd.Context(), gopay.CustomerID(args[0]))
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), d)
		},
	}

	cmd.AddCommand(get, list, del)
	return cmd
}

func (a *app) subscriptionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "subscriptions", Short: "Manage subscriptions"}

	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Retrieve one or more subscriptions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAll(cmd, args, func(ctx context.Context, id string) (*gopay.Subscription, error) {
				return a.client.Subscriptions.Retrieve(ctx, gopay.SubscriptionID(id), nil)
			})
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a subscription immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params := &gopay.SubscriptionCancelParams{}
			if cmd.Flags().Changed("invoice-now") {
				v, _ := cmd.Flags().GetBool("invoice-now")
				params.InvoiceNow = gopay.Bool(v)
			}
			if cmd.Flags().Changed("prorate") {
				v, _ := cmd.Flags().GetBool("prorate")
				params.Prorate = gopay.Bool(v)
			}
			sub, err := a.client.Subscriptions.Cancel(cmd.Context(), gopay.SubscriptionID(args[0]), params)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sub)
		},
	}
	cancel.Flags().Bool("invoice-now", false, "Invoice pending usage now")
	cancel.Flags().Bool("prorate", false, "Credit unused time")

	cmd.AddCommand(get, cancel)
	return cmd
}

func (a *app) paymentIntentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "payment-intents", Short: "Inspect payment intents"}

	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Retrieve one or more payment intents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAll(cmd, args, func(ctx context.Context, id string) (*gopay.PaymentIntent, error) {
				return a.client.PaymentIntents.Retrieve(ctx, gopay.PaymentIntentID(id), nil)
			})
		},
	}

	var all bool
	params := &gopay.PaymentIntentListParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List payment intents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if customer, _ := cmd.Flags().GetString("customer"); customer != "" {
				params.Customer = gopay.String(customer)
			}
			ctx := cmd.Context()
			return writeList(cmd, all,
				func() (*gopay.List[gopay.PaymentIntent], error) {
					return a.client.PaymentIntents.List(ctx, params)
				},
				func() iter.Seq2[*gopay.PaymentIntent, error] {
					return a.client.PaymentIntents.ListAll(ctx, params)
				})
		},
	}
	addListFlags(list, &params.ListParams, &all)
	list.Flags().String("customer", "", "Only payment intents of this customer")

	cmd.AddCommand(get, list)
	return cmd
}

func (a *app) balanceTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "balance-transactions", Short: "Inspect balance history"}

	var expandSource bool
	get := &cobra.Command{
		Use:   "get ID...",
		Short: "Retrieve one or more balance transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAll(cmd, args, func(ctx context.Context, id string) (*gopay.BalanceTransaction, error) {
				params := &gopay.Params{}
				if expandSource {
					params.AddExpand("source")
				}
				return a.client.BalanceTransactions.Retrieve(ctx, gopay.BalanceTransactionID(id), params)
			})
		},
	}
	get.Flags().BoolVar(&expandSource, "expand-source", false, "Inline the source object")

	var all bool
	params := &gopay.BalanceTransactionListParams{}
	list := &cobra.Command{
		Use:   "list",
		Short: "List balance transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if t, _ := cmd.Flags().GetString("type"); t != "" {
				params.Type = gopay.Ptr(gopay.BalanceTransactionType(t))
			}
			if payout, _ := cmd.Flags().GetString("payout"); payout != "" {
				params.Payout = gopay.String(payout)
			}
			ctx := cmd.Context()
			return writeList(cmd, all,
				func() (*gopay.List[gopay.BalanceTransaction], error) {
					return a.client.BalanceTransactions.List(ctx, params)
				},
				func() iter.Seq2[*gopay.BalanceTransaction, error] {
					return a.client.BalanceTransactions.ListAll(ctx, params)
				})
		},
	}
	addListFlags(list, &params.ListParams, &all)
	list.Flags().String("type", "", "Only transactions of this type, e.g. charge or payout")
	list.Flags().String("payout", "", "Only transactions paid out in this payout")

	cmd.AddCommand(get, list)
	return cmd
}

func (a *app) balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Show the account balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.client.Balance.Retrieve(cmd.Context(), nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), b)
		},
	}
}

func (a *app) eventsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "events", Short: "Inspect events"}
	cmd.AddCommand(&cobra.Command{
		Use:   "get ID...",
		Short: "Retrieve one or more events",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return fetchAll(cmd, args, func(ctx context.Context, id string) (*gopay.Event, error) {
				return a.client.Events.Retrieve(ctx, gopay.EventID(id), nil)
			})
		},
	})
	return cmd
}
