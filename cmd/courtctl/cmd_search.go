package main

import (
	"errors"
	"fmt"

	"github.com/JustJay7/court-case-lookup/internal/lookup"
	"github.com/spf13/cobra"
)

var searchFlags struct {
	caseType   string
	caseNumber string
	year       int
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Look a case up and record the search",
	Args:  cobra.NoArgs,
	RunE:  runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.caseType, "type", "", "Case type code, e.g. W.P.(C) (required)")
	f.StringVar(&searchFlags.caseNumber, "number", "", "Case number (required)")
	f.IntVar(&searchFlags.year, "year", 0, "Filing year (required)")

	_ = searchCmd.MarkFlagRequired("type")
	_ = searchCmd.MarkFlagRequired("number")
	_ = searchCmd.MarkFlagRequired("year")
}

func runSearch(cmd *cobra.Command, _ []string) error {
	outcome, err := app.svc.SubmitSearch(cmd.Context(), lookup.SearchRequest{
		CaseType:   searchFlags.caseType,
		CaseNumber: searchFlags.caseNumber,
		FilingYear: searchFlags.year,
	})
	out := cmd.OutOrStdout()
	if err != nil {
		var lerr *lookup.Error
		if errors.As(err, &lerr) && lerr.QueryID != 0 {
			fmt.Fprintf(out, "Query:   #%d (recorded)\n", lerr.QueryID)
		}
		return userError(err)
	}

	r := outcome.Result
	fmt.Fprintf(out, "Query:   #%d\n", outcome.QueryID)
	if outcome.FromCache {
		fmt.Fprintf(out, "Source:  cache\n")
	}
	fmt.Fprintf(out, "Parties: %s\n", r.Parties)
	fmt.Fprintf(out, "Status:  %s\n", r.Status)
	fmt.Fprintf(out, "Filed:   %s\n", formatDate(r.FilingDate))
	fmt.Fprintf(out, "Next:    %s\n", formatDate(r.NextHearing))
	if len(r.PDFLinks) > 0 {
		fmt.Fprintf(out, "Documents:\n")
		for _, link := range r.PDFLinks {
			fmt.Fprintf(out, "  %s\n", link)
		}
	}
	return nil
}
