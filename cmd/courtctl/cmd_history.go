package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var historyFlags struct {
	limit  int
	offset int
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded searches, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVar(&historyFlags.limit, "limit", 0, "Rows per page (default HISTORY_PAGE_SIZE, max 100)")
	f.IntVar(&historyFlags.offset, "offset", 0, "Rows to skip")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	page, err := app.svc.ListHistory(cmd.Context(), historyFlags.limit, historyFlags.offset)
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if len(page.Queries) == 0 {
		fmt.Fprintf(out, "No searches recorded.\n")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tCASE\tRESULT")
	for _, q := range page.Queries {
		result := q.ErrorKind
		if q.Success && q.CaseStatus != nil {
			result = *q.CaseStatus
		}
		fmt.Fprintf(w, "%d\t%s\t%s %s/%d\t%s\n",
			q.ID,
			q.QueryTimestamp.Local().Format("2006-01-02 15:04"),
			q.CaseType, q.CaseNumber, q.FilingYear,
			result,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "Showing %d-%d of %d\n", page.Offset+1, page.Offset+len(page.Queries), page.Total)
	return nil
}
