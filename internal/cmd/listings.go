package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"copartwatch/internal/copart"
	"copartwatch/internal/export"
	"copartwatch/internal/filter"
	"copartwatch/internal/models"
	"github.com/muesli/termenv"
)

type ListingsCmd struct {
	All     bool   `help:"Print everything the search returns, not just criteria matches."`
	Limit   int    `help:"Maximum listings to print."`
	Format  string `help:"Output format: csv, json, md." enum:",csv,json,md" default:""`
	Links   string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output  string `name:"output" short:"o" help:"Write output to a file."`
	Out     string `name:"out" help:"Alias for --output."`
	Proxies string `help:"Comma-separated proxy URLs."`
}

func (l *ListingsCmd) Run(ctx *Context) error {
	client, err := buildNetworkClient(l.Proxies)
	if err != nil {
		return err
	}
	fetcher := copart.NewClient(client, ctx.Logger)
	criteria := ctx.Config.SearchCriteria()

	stopIndicator := startProgressIndicator(ctx, "Fetching listings")
	result, err := fetcher.Fetch(context.Background(), criteria)
	if stopIndicator != nil {
		stopIndicator()
	}
	if err != nil {
		return err
	}

	matches := filter.Apply(result.Listings, criteria)
	listings := matches
	if l.All {
		listings = result.Listings
	}
	listings = limitListings(listings, l.Limit)

	outputPath := resolveOutputPath(l.Output, l.Out)
	format, err := resolveFormat(ctx, l.Format, outputPath)
	if err != nil {
		return err
	}

	writer := ctx.Out
	var file *os.File
	if outputPath != "" {
		file, err = os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	hyperlinks := colorEnabled && isTTY(writer)
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(l.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	if err := export.WriteListings(writer, listings, format, export.WriteOptions{
		ColorEnabled: colorEnabled,
		Hyperlinks:   hyperlinks,
		LinkStyle:    linkStyle,
	}); err != nil {
		return err
	}

	printListingsSummary(ctx, len(listings), len(matches), result)
	return nil
}

func printListingsSummary(ctx *Context, shown int, matching int, result models.SearchResult) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "summary: shown=%d matching=%d total=%d source=%s\n",
		shown, matching, result.Total, result.Source)
}

func limitListings(listings []models.Listing, limit int) []models.Listing {
	if limit <= 0 || len(listings) <= limit {
		return listings
	}
	return listings[:limit]
}

func resolveOutputPath(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func resolveFormat(ctx *Context, flagValue string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if flagValue != "" {
		return parseFormat(flagValue)
	}
	if outputPath != "" {
		return export.FormatCSV, nil
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

func startProgressIndicator(ctx *Context, label string) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil {
		return nil
	}
	if !isTTY(ctx.Err) {
		return nil
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2K%s... %ds %s", label, seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
