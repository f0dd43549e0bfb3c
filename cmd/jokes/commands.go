package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/jokeshelf/internal/client"
	"github.com/briangreenhill/jokeshelf/internal/models"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [count]",
		Short: "Show the current page of jokes, optionally asking for count jokes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := 0
			if len(args) == 1 {
				var err error
				if n, err = parsePositive(args[0], "count"); err != nil {
					return err
				}
			}
			a.store.EnterHome()
			if err := a.store.LoadJokes(cmd.Context(), n); err != nil {
				return err
			}
			return a.printPage()
		},
	}
}

func newRandomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "random",
		Short: "Add one random joke the server does not have yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.LoadJokes(cmd.Context(), 0); err != nil {
				return err
			}
			j, err := a.store.LoadJoke(cmd.Context())
			if err != nil || j == nil {
				return err
			}
			return a.printJokes([]models.Joke{*j})
		},
	}
}

func newSortCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "sort [asc|desc]",
		Short:     "Show the jokes sorted by type",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"asc", "desc"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := client.SortAsc
			if len(args) == 1 {
				switch strings.ToLower(args[0]) {
				case "asc":
				case "desc":
					dir = client.SortDesc
				default:
					return fmt.Errorf("sort direction must be asc or desc, got %q", args[0])
				}
			}
			a.store.EnterHome()
			if err := a.store.LoadJokes(cmd.Context(), 0); err != nil {
				return err
			}
			a.store.SetSortDirection(dir)
			a.store.ToggleSorting()
			return a.printPage()
		},
	}
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove one joke",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid joke id %q", args[0])
			}
			if err := a.store.RemoveJoke(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "removed joke %d\n", id)
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every joke",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.RemoveJokes(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "removed all jokes")
			return nil
		},
	}
}

func newRateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rate <id> <rating>",
		Short: "Rate a joke from 0 (none) to 3 (great)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid joke id %q", args[0])
			}
			n, err := strconv.Atoi(args[1])
			rating := models.Rating(n)
			if err != nil || !rating.Valid() {
				return fmt.Errorf("rating must be 0, 1, 2 or 3, got %q", args[1])
			}

			if err := a.store.LoadJokes(cmd.Context(), 0); err != nil {
				return err
			}
			for _, j := range a.store.Jokes() {
				if j.ID != id {
					continue
				}
				j.Rating = rating
				if err := a.store.UpdateJokeRating(cmd.Context(), j); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "rated joke %d: %d\n", id, rating)
				return nil
			}
			return fmt.Errorf("joke %d is not on the shelf", id)
		},
	}
}

func newResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <count>",
		Short: "Replace every joke with count fresh ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePositive(args[0], "count")
			if err != nil {
				return err
			}
			if err := a.store.ResetJokes(cmd.Context(), n); err != nil {
				return err
			}
			a.pages.ResetPage()
			return a.printPage()
		},
	}
}

func newPageSizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "page-size <n>",
		Short: "Set how many jokes a page shows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parsePositive(args[0], "page size")
			if err != nil {
				return err
			}
			if err := a.pages.SetPageSize(n); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "page size set to %d\n", n)
			return nil
		},
	}
}

func parsePositive(raw, what string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", what, raw)
	}
	return n, nil
}

func (a *app) printPage() error {
	if err := a.printJokes(a.store.Page()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "page %d of %d (%d jokes, %d per page)\n",
		a.pages.CurrentPage(), a.store.TotalPages(), len(a.store.Jokes()), a.pages.PageSize())
	return err
}

func (a *app) printJokes(jokes []models.Joke) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tRATING\tJOKE")
	for _, j := range jokes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\n", j.ID, j.Type, stars(j.Rating), j.Setup, j.Punchline)
	}
	return tw.Flush()
}

func stars(r models.Rating) string {
	if r == models.RatingNone {
		return "-"
	}
	return strings.Repeat("*", int(r))
}
