package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/gotracker/internal/adapter/http/dto"
	"github.com/iho/gotracker/internal/client"
	"github.com/iho/gotracker/internal/domain"
	"github.com/iho/gotracker/internal/infrastructure/idgen"
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "gotracker",
		Short:         "GoTracker CLI tool",
		Long:          `A command line interface for recording income and expenses against the GoTracker API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:3000", "Base URL of the GoTracker API")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", client.DefaultTimeout, "Request timeout")

	rootCmd.AddCommand(
		listCmd(opts),
		showCmd(opts),
		addCmd(opts),
		editCmd(opts),
		deleteCmd(opts),
		summaryCmd(opts),
		categoriesCmd(opts),
	)
	return rootCmd
}

func (o *options) api() *client.APIClient {
	return client.NewAPIClient(o.baseURL, &http.Client{Timeout: o.timeout})
}

func (o *options) cache() *client.Cache {
	return client.NewCache(client.CacheConfig{
		API:         o.api(),
		IDGenerator: idgen.NewULIDGenerator(),
	})
}

type filterFlags struct {
	txType   string
	category string
	search   string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.txType, "type", "all", "Filter by type: all, income or expense")
	cmd.Flags().StringVar(&f.category, "category", "", "Filter by category id")
	cmd.Flags().StringVarP(&f.search, "search", "q", "", "Case-insensitive title search")
}

func (f *filterFlags) state() (domain.FilterState, error) {
	typeFilter, err := domain.ParseTypeFilter(f.txType)
	if err != nil {
		return domain.FilterState{}, err
	}
	return domain.FilterState{Type: typeFilter, Category: f.category, Search: f.search}, nil
}

func listCmd(opts *options) *cobra.Command {
	var (
		filters filterFlags
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := filters.state()
			if err != nil {
				return err
			}

			cache := opts.cache()
			if err := cache.Load(cmd.Context()); err != nil {
				return err
			}
			cache.SetTypeFilter(state.Type)
			cache.SetCategoryFilter(state.Category)
			cache.SetSearchQuery(state.Search)

			list := cache.Filtered()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), dto.TransactionsFromDomain(list))
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No transactions found")
				return nil
			}
			return printTransactions(cmd.OutOrStdout(), list)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func showCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := opts.api().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), []*domain.Transaction{t})
		},
	}
}

type formFlags struct {
	title    string
	amount   string
	category string
	income   bool
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Transaction title")
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount, without sign")
	cmd.Flags().StringVar(&f.category, "category", "", "Category id (see the categories command)")
	cmd.Flags().BoolVar(&f.income, "income", false, "Record as income instead of expense")
}

func addCmd(opts *options) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := opts.cache().Create(cmd.Context(), client.FormInput{
				Title:    form.title,
				Amount:   form.amount,
				Category: form.category,
				Expense:  !form.income,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", created.ID)
			return nil
		},
	}

	form.register(cmd)
	return cmd
}

func editCmd(opts *options) *cobra.Command {
	var form formFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an existing transaction",
		Long:  `Flags that are not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := opts.api().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			in := client.FormInput{
				Title:    current.Title,
				Amount:   current.Amount.Abs().String(),
				Category: form.category,
				Expense:  current.Type == domain.TypeExpense,
			}
			flags := cmd.Flags()
			if flags.Changed("title") {
				in.Title = form.title
			}
			if flags.Changed("amount") {
				in.Amount = form.amount
			}
			if flags.Changed("income") {
				in.Expense = !form.income
			}

			updated, err := opts.cache().Update(cmd.Context(), current.ID, in)
			if err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), []*domain.Transaction{updated})
		},
	}

	form.register(cmd)
	return cmd
}

func deleteCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a transaction",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.cache().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func summaryCmd(opts *options) *cobra.Command {
	var (
		filters filterFlags
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show income, expenses and balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := filters.state()
			if err != nil {
				return err
			}

			s, err := opts.api().Summary(cmd.Context(), state)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), dto.SummaryFromDomain(s))
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Transactions:\t%d\n", s.Count)
			fmt.Fprintf(w, "Income:\t%s\n", formatMoney(s.Income))
			fmt.Fprintf(w, "Expenses:\t%s\n", formatMoney(s.Expenses))
			fmt.Fprintf(w, "Balance:\t%s\n", formatMoney(s.Balance))
			return w.Flush()
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print raw JSON")
	return cmd
}

func categoriesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the category catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := opts.api().Categories(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tICON")
			for _, c := range categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Icon)
			}
			return w.Flush()
		},
	}
}

func printTransactions(out io.Writer, list []*domain.Transaction) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tAMOUNT\tCREATED\t")
	for _, t := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			t.ID,
			truncate(t.Title, 32),
			domain.LookupCategory(t.Category).Name,
			formatMoney(t.Amount),
			humanize.Time(t.CreatedAt),
		)
	}
	return w.Flush()
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatMoney renders two decimals with thousands separators.
func formatMoney(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return humanize.FormatFloat("#,###.##", f)
}

// truncate shortens s to at most max runes.
func truncate(s string, max int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= max {
		return string(runes)
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
