package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var downloadsCmd = &cobra.Command{
	Use:   "downloads <query-id>",
	Short: "List document download attempts of a search",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownloads,
}

var downloadFlags struct {
	output string
}

var downloadCmd = &cobra.Command{
	Use:   "download <query-id> <pdf-url>",
	Short: "Download one of a search's documents and record the attempt",
	Args:  cobra.ExactArgs(2),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadFlags.output, "output", "o", "", "Output file (default: name from the URL)")
}

func runDownloads(cmd *cobra.Command, args []string) error {
	id, err := parseQueryID(args[0])
	if err != nil {
		return err
	}

	downloads, err := app.svc.ListDownloads(cmd.Context(), id)
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if len(downloads) == 0 {
		fmt.Fprintf(out, "No downloads recorded for query #%d.\n", id)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tOK\tBYTES\tPAGES\tURL")
	for _, d := range downloads {
		size, pages := "-", "-"
		if d.ByteSize != nil {
			size = fmt.Sprint(*d.ByteSize)
		}
		if d.PageCount != nil {
			pages = fmt.Sprint(*d.PageCount)
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%s\t%s\t%s\n",
			d.ID,
			d.DownloadTimestamp.Local().Format("2006-01-02 15:04"),
			d.Success, size, pages, d.SourceURL,
		)
	}
	return w.Flush()
}

func runDownload(cmd *cobra.Command, args []string) error {
	id, err := parseQueryID(args[0])
	if err != nil {
		return err
	}

	doc, err := app.svc.DownloadDocument(cmd.Context(), id, args[1])
	if err != nil {
		return userError(err)
	}

	path := downloadFlags.output
	if path == "" {
		path = doc.Filename
	}
	if err := os.WriteFile(path, doc.Content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s (%d bytes)\n", path, doc.Size)
	return nil
}
