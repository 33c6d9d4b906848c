package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"alcyxob/gym-backoffice/internal/apierr"
	"alcyxob/gym-backoffice/internal/config"
	"alcyxob/gym-backoffice/internal/directory"
	"alcyxob/gym-backoffice/internal/mutation"
)

// listFlags are the paging, sorting and search flags of every list command.
type listFlags struct {
	page   int
	size   int
	sort   string
	order  string
	search string
}

func (lf *listFlags) register(fs *flag.FlagSet, pageSize int, sortKey string, order directory.Order) {
	fs.IntVar(&lf.page, "page", 1, "page number, starting at 1")
	fs.IntVar(&lf.size, "size", pageSize, "rows per page (10, 25, 50 or 100)")
	fs.StringVar(&lf.sort, "sort", sortKey, "sort key")
	fs.StringVar(&lf.order, "order", string(order), "sort order, asc or desc")
	fs.StringVar(&lf.search, "search", "", "only show rows of the page matching this term")
}

func (lf *listFlags) options(name string) ([]directory.Option, error) {
	if !config.ValidPageSize(lf.size) {
		return nil, config.ErrInvalidPageSize
	}
	order := directory.Order(strings.ToLower(lf.order))
	if order != directory.Asc && order != directory.Desc {
		return nil, fmt.Errorf("order must be asc or desc, got %q", lf.order)
	}
	if lf.page < 1 {
		return nil, fmt.Errorf("page must be 1 or more, got %d", lf.page)
	}
	return []directory.Option{
		directory.WithName(name),
		directory.WithPageSize(lf.size),
		directory.WithSort(lf.sort, order),
	}, nil
}

// browse loads the requested page through a directory controller and
// returns what a list screen would render.
func browse[T directory.Record](ctx context.Context, name string, fetcher directory.Fetcher[T], lf listFlags) (directory.View[T], error) {
	opts, err := lf.options(name)
	if err != nil {
		return directory.View[T]{}, err
	}
	ctrl := directory.New(fetcher, opts...)
	defer ctrl.Close()

	if err := ctrl.Load(ctx); err != nil {
		return ctrl.View(), err
	}
	if lf.page > 1 {
		if v := ctrl.View(); lf.page > v.TotalPages {
			return v, fmt.Errorf("page %d is out of range, %s", lf.page, strings.ToLower(v.Label()))
		}
		if err := ctrl.SetPage(ctx, lf.page-1); err != nil {
			return ctrl.View(), err
		}
	}
	ctrl.SetSearch(lf.search)
	return ctrl.View(), nil
}

// printTable writes rows under headers, or the empty text when there are none.
func printTable[T directory.Record](w io.Writer, v directory.View[T], headers []string, row func(T) []string) {
	if text := v.EmptyText(); text != "" {
		fmt.Fprintln(w, text)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		for _, r := range v.Items {
			fmt.Fprintln(tw, strings.Join(row(r), "\t"))
		}
		tw.Flush()
	}
	fmt.Fprintf(w, "\n%s  %s\n", v.Summary(), v.Label())
}

// printError renders err the way the screens do: field messages next to
// their field, everything else as a banner line.
func printError(w io.Writer, err error) {
	if fields := apierr.FieldErrors(err); len(fields) > 0 {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, fields[name])
		}
		return
	}
	if b, ok := apierr.Banner(err); ok {
		fmt.Fprintf(w, "Error: %s\n", b.Text)
		return
	}
	fmt.Fprintf(w, "gymctl: %v\n", err)
}

// stdinConfirmer asks on the terminal; yes skips the question.
func stdinConfirmer(yes bool) mutation.Confirmer {
	return mutation.ConfirmFunc(func(prompt string) bool {
		if yes {
			return true
		}
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		answer, _ := readLine(os.Stdin)
		answer = strings.ToLower(answer)
		return answer == "y" || answer == "yes"
	})
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
