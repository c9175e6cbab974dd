package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/grantscope/internal/cluster"
	"github.com/pdiddy/grantscope/internal/registry"
	"github.com/pdiddy/grantscope/pkg/types"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Cluster grant topics",
	Long: `Cluster selects the Thema column of registry rows for the configured
Ressort, vectorizes the topics, clusters them, prints topic and label, and
logs the silhouette score.`,
	RunE: runCluster,
}

func init() {
	f := clusterCmd.Flags()
	f.String("clusterer", cluster.DefaultClusterer, "kmeans, DBSCAN, or agglomerativeclustering")
	f.String("vectorizer", cluster.DefaultVectorizer, "countVectorizer or tfidfVectorizer")
	f.Bool("preprocess", false, "remove German stopwords and punctuation")
	f.Int("n-clusters", cluster.DefaultNClusters, "number of clusters (kmeans, agglomerative)")
	f.Float64("eps", cluster.DefaultEps, "neighbourhood radius (DBSCAN)")
	f.Int("min-samples", cluster.DefaultMinSamples, "core point threshold (DBSCAN)")
	f.String("linkage", cluster.DefaultLinkage, "ward, complete, average, or single (agglomerative)")
	f.Int64("random-state", 0, "seed for k-means++ initialisation")
	f.Int("n-samples", cluster.DefaultNSamples, "number of topics to cluster (0 for all)")
	f.String("data", defaultRegistryFile, "registry export")
	f.String("ressort", registry.DefaultRessort, "Ressort whose topics are clustered")

	bindFlags(f, map[string]string{
		"cluster.clusterer":    "clusterer",
		"cluster.vectorizer":   "vectorizer",
		"cluster.preprocess":   "preprocess",
		"cluster.n_clusters":   "n-clusters",
		"cluster.eps":          "eps",
		"cluster.min_samples":  "min-samples",
		"cluster.linkage":      "linkage",
		"cluster.random_state": "random-state",
		"cluster.n_samples":    "n-samples",
		"registry.data_file":   "data",
		"registry.ressort":     "ressort",
	})
	rootCmd.AddCommand(clusterCmd)
}

func runCluster(cmd *cobra.Command, args []string) error {
	cfg := types.ClusterConfig{
		Clusterer:   viper.GetString("cluster.clusterer"),
		Vectorizer:  viper.GetString("cluster.vectorizer"),
		Preprocess:  viper.GetBool("cluster.preprocess"),
		NClusters:   viper.GetInt("cluster.n_clusters"),
		Eps:         viper.GetFloat64("cluster.eps"),
		MinSamples:  viper.GetInt("cluster.min_samples"),
		Linkage:     viper.GetString("cluster.linkage"),
		RandomState: viper.GetInt64("cluster.random_state"),
		NSamples:    viper.GetInt("cluster.n_samples"),
	}
	cluster.ApplyDefaults(&cfg)
	// Validate names before reading the registry.
	if _, err := cluster.NewVectorizer(cfg.Vectorizer, cfg.Preprocess); err != nil {
		return err
	}
	if _, err := cluster.NewClusterer(cfg); err != nil {
		return err
	}

	reg := types.RegistryConfig{
		DataFile: viper.GetString("registry.data_file"),
		Ressort:  viper.GetString("registry.ressort"),
	}
	t, err := loadRegistry(reg)
	if err != nil {
		return err
	}
	topics, err := t.Topics(reg.Ressort)
	if err != nil {
		return err
	}

	res, err := cluster.Run(topics, cfg)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Thema\tCluster")
	for _, a := range res.Assignments {
		fmt.Fprintf(tw, "%s\t%d\n", a.Topic, a.Label)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	entry := log.WithField("clusterer", cfg.Clusterer).WithField("topics", len(res.Assignments))
	if math.IsNaN(res.Silhouette) {
		entry.Warn("silhouette score undefined for a single cluster")
		return nil
	}
	entry.WithField("silhouette", res.Silhouette).Info("silhouette score")
	return nil
}
