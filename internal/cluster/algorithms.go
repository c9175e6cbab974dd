// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

// Noise labels DBSCAN points that belong to no cluster.
const Noise = -1

// Clusterer assigns a label to every row of a matrix.
type Clusterer interface {
	Fit(x [][]float64) ([]int, error)
}

// KMeans is Lloyd's algorithm with k-means++ seeding.
type KMeans struct {
	NClusters   int
	RandomState int64
	MaxIter     int
}

// DBSCAN is density-based clustering with euclidean distance.
type DBSCAN struct {
	Eps        float64
	MinSamples int
}

// Agglomerative is bottom-up hierarchical clustering with euclidean distance.
type Agglomerative struct {
	NClusters int
	Linkage   string
}

// Fit implements Clusterer.
func (k KMeans) Fit(x [][]float64) ([]int, error) {
	n := len(x)
	if k.NClusters <= 0 || k.NClusters > n {
		return nil, fmt.Errorf("kmeans: n_clusters %d out of range for %d samples", k.NClusters, n)
	}
	maxIter := k.MaxIter
	if maxIter <= 0 {
		maxIter = 300
	}
	rng := rand.New(rand.NewSource(k.RandomState))
	centers := seedPlusPlus(x, k.NClusters, rng)

	labels := make([]int, n)
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range x {
			if best := nearest(p, centers); iter == 0 || best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
		centers = recenter(x, labels, centers)
	}
	return labels, nil
}

func seedPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := [][]float64{clone(x[rng.Intn(len(x))])}
	d2 := make([]float64, len(x))
	for len(centers) < k {
		var total float64
		for i, p := range x {
			d2[i] = sqDist(p, centers[nearest(p, centers)])
			total += d2[i]
		}
		if total == 0 {
			centers = append(centers, clone(x[rng.Intn(len(x))]))
			continue
		}
		target := rng.Float64() * total
		pick := len(x) - 1
		for i, d := range d2 {
			target -= d
			if target <= 0 {
				pick = i
				break
			}
		}
		centers = append(centers, clone(x[pick]))
	}
	return centers
}

func recenter(x [][]float64, labels []int, old [][]float64) [][]float64 {
	dim := len(x[0])
	centers := make([][]float64, len(old))
	counts := make([]int, len(old))
	for c := range centers {
		centers[c] = make([]float64, dim)
	}
	for i, p := range x {
		counts[labels[i]]++
		for j, v := range p {
			centers[labels[i]][j] += v
		}
	}
	for c := range centers {
		if counts[c] == 0 {
			centers[c] = old[c]
			continue
		}
		for j := range centers[c] {
			centers[c][j] /= float64(counts[c])
		}
	}
	return centers
}

// Fit implements Clusterer. Cluster ids are assigned in order of discovery.
func (d DBSCAN) Fit(x [][]float64) ([]int, error) {
	if d.Eps <= 0 || d.MinSamples <= 0 {
		return nil, fmt.Errorf("DBSCAN: eps and min_samples must be positive")
	}
	n := len(x)
	neighbours := func(i int) []int {
		var out []int
		for j := 0; j < n; j++ {
			if euclidean(x[i], x[j]) <= d.Eps {
				out = append(out, j)
			}
		}
		return out
	}

	const unvisited = -2
	labels := make([]int, n)
	for i := range labels {
		labels[i] = unvisited
	}
	next := 0
	for i := 0; i < n; i++ {
		if labels[i] != unvisited {
			continue
		}
		nb := neighbours(i)
		if len(nb) < d.MinSamples {
			labels[i] = Noise
			continue
		}
		labels[i] = next
		queue := nb
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == Noise {
				labels[j] = next
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = next
			if jn := neighbours(j); len(jn) >= d.MinSamples {
				queue = append(queue, jn...)
			}
		}
		next++
	}
	return labels, nil
}

// Fit implements Clusterer. Merges follow the Lance-Williams update for the
// configured linkage; ward operates on squared distances.
func (a Agglomerative) Fit(x [][]float64) ([]int, error) {
	n := len(x)
	if a.NClusters <= 0 || a.NClusters > n {
		return nil, fmt.Errorf("agglomerative: n_clusters %d out of range for %d samples", a.NClusters, n)
	}
	linkage := a.Linkage
	if linkage == "" {
		linkage = "ward"
	}
	switch linkage {
	case "ward", "complete", "average", "single":
	default:
		return nil, fmt.Errorf("agglomerative: unknown linkage %q", linkage)
	}

	dist := make([][]float64, n)
	for i := range dist {
		dist[i] = make([]float64, n)
		for j := range dist[i] {
			d := euclidean(x[i], x[j])
			if linkage == "ward" {
				d *= d
			}
			dist[i][j] = d
		}
	}
	size := make([]int, n)
	active := make([]bool, n)
	members := make([][]int, n)
	for i := range x {
		size[i] = 1
		active[i] = true
		members[i] = []int{i}
	}

	for clusters := n; clusters > a.NClusters; clusters-- {
		bi, bj := -1, -1
		best := math.Inf(1)
		for i := 0; i < n; i++ {
			if !active[i] {
				continue
			}
			for j := i + 1; j < n; j++ {
				if active[j] && dist[i][j] < best {
					best, bi, bj = dist[i][j], i, j
				}
			}
		}

		for k := 0; k < n; k++ {
			if !active[k] || k == bi || k == bj {
				continue
			}
			d := lanceWilliams(linkage, dist[bi][k], dist[bj][k], dist[bi][bj], size[bi], size[bj], size[k])
			dist[bi][k], dist[k][bi] = d, d
		}
		size[bi] += size[bj]
		members[bi] = append(members[bi], members[bj]...)
		active[bj] = false
		members[bj] = nil
	}

	labels := make([]int, n)
	next := 0
	for i := 0; i < n; i++ {
		if !active[i] {
			continue
		}
		for _, m := range members[i] {
			labels[m] = next
		}
		next++
	}
	return labels, nil
}

func lanceWilliams(linkage string, dik, djk, dij float64, ni, nj, nk int) float64 {
	switch linkage {
	case "single":
		return math.Min(dik, djk)
	case "complete":
		return math.Max(dik, djk)
	case "average":
		return (float64(ni)*dik + float64(nj)*djk) / float64(ni+nj)
	default:
		t := float64(ni + nj + nk)
		return (float64(ni+nk)*dik + float64(nj+nk)*djk - float64(nk)*dij) / t
	}
}

func nearest(p []float64, centers [][]float64) int {
	best, bestD := 0, math.Inf(1)
	for c, ctr := range centers {
		if d := sqDist(p, ctr); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func euclidean(a, b []float64) float64 {
	return math.Sqrt(sqDist(a, b))
}

func clone(p []float64) []float64 {
	return append([]float64(nil), p...)
}
