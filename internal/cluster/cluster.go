// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cluster groups grant topics by text similarity. Vectorizers and
// clusterers are looked up by the names used on the command line; an
// unknown name is a configuration error.
package cluster

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/pdiddy/grantscope/pkg/types"
)

// ErrUnknownName is returned for an unregistered vectorizer or clusterer.
var ErrUnknownName = errors.New("unknown name")

// Defaults applied by ApplyDefaults.
const (
	DefaultClusterer  = "kmeans"
	DefaultVectorizer = "tfidfVectorizer"
	DefaultNClusters  = 8
	DefaultEps        = 0.5
	DefaultMinSamples = 5
	DefaultLinkage    = "ward"
	DefaultNSamples   = 500
)

var vectorizers = map[string]func(preprocess func(string) string) Vectorizer{
	"countVectorizer": func(p func(string) string) Vectorizer { return CountVectorizer{Preprocess: p} },
	"tfidfVectorizer": func(p func(string) string) Vectorizer { return TFIDFVectorizer{Preprocess: p} },
}

var clusterers = map[string]func(cfg types.ClusterConfig) Clusterer{
	"kmeans": func(cfg types.ClusterConfig) Clusterer {
		return KMeans{NClusters: cfg.NClusters, RandomState: cfg.RandomState}
	},
	"DBSCAN": func(cfg types.ClusterConfig) Clusterer {
		return DBSCAN{Eps: cfg.Eps, MinSamples: cfg.MinSamples}
	},
	"agglomerativeclustering": func(cfg types.ClusterConfig) Clusterer {
		return Agglomerative{NClusters: cfg.NClusters, Linkage: cfg.Linkage}
	},
}

// Names returns the registered vectorizer and clusterer names, sorted.
func Names() (vectorizerNames, clustererNames []string) {
	for n := range vectorizers {
		vectorizerNames = append(vectorizerNames, n)
	}
	for n := range clusterers {
		clustererNames = append(clustererNames, n)
	}
	sort.Strings(vectorizerNames)
	sort.Strings(clustererNames)
	return vectorizerNames, clustererNames
}

// ApplyDefaults fills zero-valued fields of cfg.
func ApplyDefaults(cfg *types.ClusterConfig) {
	if cfg.Clusterer == "" {
		cfg.Clusterer = DefaultClusterer
	}
	if cfg.Vectorizer == "" {
		cfg.Vectorizer = DefaultVectorizer
	}
	if cfg.NClusters == 0 {
		cfg.NClusters = DefaultNClusters
	}
	if cfg.Eps == 0 {
		cfg.Eps = DefaultEps
	}
	if cfg.MinSamples == 0 {
		cfg.MinSamples = DefaultMinSamples
	}
	if cfg.Linkage == "" {
		cfg.Linkage = DefaultLinkage
	}
}

// NewVectorizer returns the named vectorizer.
func NewVectorizer(name string, preprocess bool) (Vectorizer, error) {
	mk, ok := vectorizers[name]
	if !ok {
		return nil, fmt.Errorf("%w: vectorizer %q", ErrUnknownName, name)
	}
	var p func(string) string
	if preprocess {
		p = PreprocessGerman
	}
	return mk(p), nil
}

// NewClusterer returns the named clusterer configured from cfg.
func NewClusterer(cfg types.ClusterConfig) (Clusterer, error) {
	mk, ok := clusterers[cfg.Clusterer]
	if !ok {
		return nil, fmt.Errorf("%w: clusterer %q", ErrUnknownName, cfg.Clusterer)
	}
	return mk(cfg), nil
}

// Assignment pairs a topic with its cluster label.
type Assignment struct {
	Topic string
	Label int
}

// Result is the outcome of clustering a set of topics.
type Result struct {
	Assignments []Assignment
	// Silhouette is NaN when fewer than two or more than n-1 labels exist.
	Silhouette float64
}

// Run vectorizes topics and clusters them. When cfg.NSamples is positive
// only the first NSamples topics are used.
func Run(topics []string, cfg types.ClusterConfig) (Result, error) {
	vec, err := NewVectorizer(cfg.Vectorizer, cfg.Preprocess)
	if err != nil {
		return Result{}, err
	}
	clu, err := NewClusterer(cfg)
	if err != nil {
		return Result{}, err
	}
	if cfg.NSamples > 0 && len(topics) > cfg.NSamples {
		topics = topics[:cfg.NSamples]
	}
	if len(topics) == 0 {
		return Result{}, fmt.Errorf("no topics to cluster")
	}

	x := vec.FitTransform(topics)
	labels, err := clu.Fit(x)
	if err != nil {
		return Result{}, err
	}

	res := Result{Assignments: make([]Assignment, len(topics)), Silhouette: Silhouette(x, labels)}
	for i, t := range topics {
		res.Assignments[i] = Assignment{Topic: t, Label: labels[i]}
	}
	return res, nil
}

// Silhouette returns the mean silhouette coefficient with euclidean
// distance. Every label, noise included, counts as a cluster.
func Silhouette(x [][]float64, labels []int) float64 {
	n := len(x)
	members := make(map[int][]int)
	for i, l := range labels {
		members[l] = append(members[l], i)
	}
	if len(members) < 2 || len(members) > n-1 {
		return math.NaN()
	}

	var total float64
	for i := range x {
		own := members[labels[i]]
		if len(own) == 1 {
			continue
		}
		var a float64
		for _, j := range own {
			a += euclidean(x[i], x[j])
		}
		a /= float64(len(own) - 1)

		b := math.Inf(1)
		for l, other := range members {
			if l == labels[i] {
				continue
			}
			var d float64
			for _, j := range other {
				d += euclidean(x[i], x[j])
			}
			b = math.Min(b, d/float64(len(other)))
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}
