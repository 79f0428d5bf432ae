package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/spf13/cobra"
)

var showFlags struct {
	raw bool
}

var showCmd = &cobra.Command{
	Use:   "show <query-id>",
	Short: "Show one recorded search",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showFlags.raw, "raw", false, "Also print the court page as Markdown")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := parseQueryID(args[0])
	if err != nil {
		return err
	}

	q, err := app.svc.GetQuery(cmd.Context(), id)
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Query:   #%d\n", q.ID)
	fmt.Fprintf(out, "Case:    %s %s/%d\n", q.CaseType, q.CaseNumber, q.FilingYear)
	fmt.Fprintf(out, "When:    %s\n", q.QueryTimestamp.Local().Format(time.RFC1123))
	if q.Success {
		fmt.Fprintf(out, "Parties: %s\n", deref(q.PartiesName))
		fmt.Fprintf(out, "Status:  %s\n", deref(q.CaseStatus))
		fmt.Fprintf(out, "Filed:   %s\n", formatDate(q.FilingDate))
		fmt.Fprintf(out, "Next:    %s\n", formatDate(q.NextHearingDate))
		for _, link := range q.PDFLinks {
			fmt.Fprintf(out, "  %s\n", link)
		}
	} else {
		fmt.Fprintf(out, "Failed:  %s (%s)\n", q.ErrorMessage, q.ErrorKind)
	}

	if showFlags.raw && q.RawResponse != nil {
		md, err := rawToMarkdown(*q.RawResponse, app.cfg.CourtBaseURL)
		if err != nil {
			return fmt.Errorf("convert raw response: %w", err)
		}
		fmt.Fprintf(out, "\n%s\n", md)
	}
	return nil
}

// rawToMarkdown renders a stored court page as Markdown, resolving relative
// links against domain.
func rawToMarkdown(html, domain string) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return conv.ConvertString(html, converter.WithDomain(domain))
}

func parseQueryID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid query id %q", s)
	}
	return uint(id), nil
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02-01-2006")
}
