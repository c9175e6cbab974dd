package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/grantscope/internal/crawler"
)

var abstractCmd = &cobra.Command{
	Use:   "abstract <doi>...",
	Short: "Resolve abstracts for DOIs",
	Long: `Abstract resolves each DOI through the vendor content API (10.1016/...)
or the landing page description of the DOI resolver and prints one
tab-separated line per DOI. Unresolved DOIs print an empty abstract.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveEach(cmd, args, (*crawler.Crawler).ExtractAbstract)
	},
}

var fulltextCmd = &cobra.Command{
	Use:   "fulltext <url-or-doi>...",
	Short: "Extract open-access full texts",
	Long: `Fulltext extracts the article body for vendor DOIs and for MDPI, Nature,
and Frontiers article URLs. Other publishers print an empty text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveEach(cmd, args, (*crawler.Crawler).ExtractFulltext)
	},
}

var pdfCmd = &cobra.Command{
	Use:   "pdf <url>...",
	Short: "Extract text from PDF articles",
	Long:  `Pdf downloads each PDF and extracts its text up to the acknowledgements.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return resolveEach(cmd, args, (*crawler.Crawler).ExtractPDF)
	},
}

func init() {
	rootCmd.AddCommand(abstractCmd, fulltextCmd, pdfCmd)
}

// resolveEach runs resolve sequentially over keys and prints key and text.
func resolveEach(cmd *cobra.Command, keys []string, resolve func(*crawler.Crawler, context.Context, string) string) error {
	c := newCrawler(crawlConfig())
	out := cmd.OutOrStdout()
	for _, key := range keys {
		fmt.Fprintf(out, "%s\t%s\n", key, resolve(c, cmd.Context(), key))
	}
	return nil
}
