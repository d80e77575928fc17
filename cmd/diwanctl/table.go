package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/diwan-maarifa/diwan-backend/pkg/client"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

const stampLayout = "2006-01-02 15:04"

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderSubmissions(out io.Writer, items []client.Submission, meta *client.Meta) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No submissions")
		return
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Type", "Status", "Author", "Updated"})
	for _, s := range items {
		tw.AppendRow(table.Row{s.ID, s.Title, s.ContentType, s.Status, s.AuthorID, stamp(s.UpdatedAt)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, WidthMax: 48},
		{Number: 5, Align: text.AlignRight},
	})
	if meta != nil {
		tw.AppendFooter(table.Row{"", fmt.Sprintf("page %d/%d", meta.Page, meta.TotalPages), "", "", "total", meta.Total})
	}
	tw.Render()
}

func renderDetail(out io.Writer, d *client.Detail) {
	fmt.Fprintf(out, "#%d %s\n", d.ID, d.Title)
	fmt.Fprintf(out, "Slug:    %s\n", d.Slug)
	fmt.Fprintf(out, "Status:  %s\n", d.Status)
	fmt.Fprintf(out, "Type:    %s\n", d.ContentType)
	fmt.Fprintf(out, "Author:  %d\n", d.AuthorID)
	if d.PublishedAt != nil {
		fmt.Fprintf(out, "Published: %s (%d views)\n", stamp(*d.PublishedAt), d.ViewCount)
	}
	if len(d.History) == 0 {
		fmt.Fprintln(out, "History: none")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"When", "Action", "From", "To", "By", "Comments"})
	for _, r := range d.History {
		by := strconv.FormatUint(r.ReviewerID, 10)
		if r.ReviewerRole != "" {
			by += " (" + r.ReviewerRole + ")"
		}
		tw.AppendRow(table.Row{stamp(r.CreatedAt), r.Decision, r.FromStatus, r.ToStatus, by, r.Comments})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{{Number: 6, WidthMax: 40}})
	tw.Render()
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(stampLayout)
}
