package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/grantscope/internal/crawler"
	"github.com/pdiddy/grantscope/internal/fetch"
	"github.com/pdiddy/grantscope/internal/httputil"
	"github.com/pdiddy/grantscope/internal/metadata"
	"github.com/pdiddy/grantscope/internal/secrets"
	"github.com/pdiddy/grantscope/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Resolve abstracts and full texts for the metadata table",
	Long: `Enrich reads the metadata table, resolves missing abstracts through the
vendor content API or the DOI resolver, extracts open-access full texts from
supported publishers, and writes the enrichment table. Per-publication
failures are logged and leave the cell empty.`,
	RunE: runEnrich,
}

func init() {
	enrichCmd.Flags().String("metadata", metadata.DefaultPath, "metadata table to enrich")
	enrichCmd.Flags().String("out", metadata.DefaultEnrichmentPath, "enrichment table path")
	enrichCmd.Flags().Int("concurrency", fetch.DefaultLimit, "maximum in-flight requests")

	bindFlags(enrichCmd.Flags(), map[string]string{
		"enrich.metadata_path": "metadata",
		"crawl.output_path":    "out",
		"crawl.concurrency":    "concurrency",
	})
	rootCmd.AddCommand(enrichCmd)
}

// crawlConfig returns enrichment settings from viper and the secrets store.
func crawlConfig() types.CrawlConfig {
	key := viper.GetString("elsevier_api_key")
	if key == "" {
		key = loadedSecrets.Lookup(secrets.ElsevierAPIKey, "ELSEVIER_API_KEY")
	}
	return types.CrawlConfig{
		HTTPConfig:     httpConfig(),
		ElsevierAPIKey: key,
		Concurrency:    viper.GetInt("crawl.concurrency"),
		OutputPath:     viper.GetString("crawl.output_path"),
	}
}

func newCrawler(cfg types.CrawlConfig) *crawler.Crawler {
	return crawler.New(httputil.NewClient(cfg.HTTPConfig), cfg, log)
}

func runEnrich(cmd *cobra.Command, args []string) error {
	path := viper.GetString("enrich.metadata_path")
	records, err := metadata.ReadFile(path)
	if err != nil {
		return err
	}

	c := newCrawler(crawlConfig())
	summary := c.Enrich(cmd.Context(), records)
	if err := c.WriteEnrichment(summary); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Enriched %d publication(s): %d abstract(s), %d full text(s), %d failure(s)\n",
		summary.Total(), summary.Abstracts, summary.Fulltexts, summary.Failed)
	return nil
}
