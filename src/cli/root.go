// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ctscout/ct-cert-search/internal/analysis"
	"github.com/ctscout/ct-cert-search/internal/ctlog"
	"github.com/ctscout/ct-cert-search/internal/helper/posix"
	"github.com/ctscout/ct-cert-search/src/logger"
)

var (
	matchMode  string
	limit      int
	jsonOutput bool
	tableView  bool
	sourceURL  string
)

// newEngine builds the search engine against the configured CT log service.
// The --source flag wins over the CTSEARCH_SOURCE_URL environment variable.
func newEngine(version string) *ctlog.Engine {
	baseURL := sourceURL
	if baseURL == "" {
		baseURL = os.Getenv("CTSEARCH_SOURCE_URL")
	}
	return ctlog.NewEngine(ctlog.NewHTTPSource(baseURL, version))
}

// Execute runs the root command and returns any execution error.
//
// Parameters:
//   - ctx: Context for cancellation, wired into every subcommand
//   - version: Version string shown by --version and sent in User-Agent headers
//   - log: Logger for error reporting
//
// Returns:
//   - error: The error from the executed subcommand, or nil
func Execute(ctx context.Context, version string, log logger.Logger) error {
	rootCmd := &cobra.Command{
		Use:           posix.GetExecutableName(),
		Short:         "Search Certificate Transparency logs by domain",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&matchMode, "mode", "m", "exact", "match mode: exact, wildcard, or subdomain")
	rootCmd.PersistentFlags().IntVarP(&limit, "limit", "l", 100, "maximum records (1-1000)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	rootCmd.PersistentFlags().BoolVarP(&tableView, "table", "t", false, "output a markdown table")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "source", "", "CT log search service URL (default: https://crt.sh)")

	rootCmd.AddCommand(
		newSearchCmd(version),
		newDetailCmd(version),
		newAnalyzeCmd(version),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Printf("Error: %v", err)
		return err
	}
	return nil
}

// newSearchCmd builds the "search" subcommand.
func newSearchCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "search [DOMAIN]",
		Short: "Search CT logs for certificates issued to a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := ctlog.ParseMatchMode(matchMode)
			if err != nil {
				return err
			}

			result, err := newEngine(version).Search(cmd.Context(), args[0], mode, limit)
			if err != nil {
				return err
			}

			return printSearchResult(cmd.OutOrStdout(), result)
		},
	}
}

// newDetailCmd builds the "detail" subcommand.
func newDetailCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "detail [CERT_ID]",
		Short: "Fetch the raw detail text for one CT log record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			certID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return &ctlog.InvalidInputError{Field: "certID", Reason: "must be an integer"}
			}

			detail, err := newEngine(version).GetDetail(cmd.Context(), certID)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

// newAnalyzeCmd builds the "analyze" subcommand.
func newAnalyzeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [DOMAIN]",
		Short: "Summarize a domain's certificates: issuers, identities, validity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Analysis looks at the whole namespace unless told otherwise
			if !cmd.Flags().Changed("mode") {
				matchMode = string(ctlog.MatchSubdomain)
			}
			mode, err := ctlog.ParseMatchMode(matchMode)
			if err != nil {
				return err
			}

			result, err := newEngine(version).Search(cmd.Context(), args[0], mode, limit)
			if err != nil {
				return err
			}

			report := analysis.NewAnalyzer().Analyze(args[0], result.Records)
			return printReport(cmd.OutOrStdout(), report)
		},
	}
}

// printSearchResult writes a search result in the selected output format.
func printSearchResult(w io.Writer, result *ctlog.SearchResult) error {
	switch {
	case jsonOutput:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case tableView:
		fmt.Fprintf(w, "Found %d records for %q (mode: %s)\n\n", result.Total, result.Query, result.MatchMode)
		fmt.Fprintln(w, analysis.RenderRecordsTable(result.Records))
		return nil
	default:
		fmt.Fprintf(w, "Found %d records for %q (mode: %s)\n", result.Total, result.Query, result.MatchMode)
		if result.Truncated() {
			fmt.Fprintf(w, "Showing first %d records\n", len(result.Records))
		}
		for _, rec := range result.Records {
			fmt.Fprintf(w, "%12d  %-40s  %s\n", rec.ID, rec.CommonName, rec.IssuerName)
		}
		return nil
	}
}

// printReport writes an analysis report in the selected output format.
func printReport(w io.Writer, report *analysis.Report) error {
	switch {
	case jsonOutput:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case tableView:
		fmt.Fprintln(w, report.RenderText())
		if !report.NoData {
			fmt.Fprintln(w, report.RenderTable())
		}
		return nil
	default:
		fmt.Fprintln(w, report.RenderText())
		return nil
	}
}
