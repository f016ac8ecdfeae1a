package cardseg

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/muesli/clusters"
)

// KMeansConfig controls a KMeans run.
type KMeansConfig struct {
	K          int
	Iterations int
	// Seed drives the choice of initial centroids. Equal seeds on equal
	// input give equal results.
	Seed uint64
}

// KMeansResult holds the final centroids and, for every observation, the
// index of the centroid it was assigned to in the last iteration.
type KMeansResult struct {
	Centroids []clusters.Coordinates
	Labels    []int
}

// KMeans runs Lloyd's algorithm for a fixed number of iterations. Initial
// centroids are K distinct observations picked at random. A centroid that
// loses all its members keeps its previous position.
func KMeans(data clusters.Observations, cfg KMeansConfig) (KMeansResult, error) {
	if cfg.K < 1 {
		return KMeansResult{}, fmt.Errorf("k must be at least 1, got %d", cfg.K)
	}
	if cfg.Iterations < 1 {
		return KMeansResult{}, fmt.Errorf("iterations must be at least 1, got %d", cfg.Iterations)
	}
	n := len(data)
	if n < cfg.K {
		return KMeansResult{}, fmt.Errorf("%w: %d observations for k=%d", ErrInsufficientData, n, cfg.K)
	}
	dim := len(data[0].Coordinates())

	centroids := initialCentroids(data, cfg.K, cfg.Seed)

	labels := make([]int, n)
	sums := make([]float64, cfg.K*dim)
	counts := make([]int, cfg.K)
	for range cfg.Iterations {
		for i, o := range data {
			labels[i] = nearest(o, centroids)
		}

		clear(sums)
		clear(counts)
		for i, o := range data {
			ci := labels[i]
			for d, v := range o.Coordinates() {
				sums[ci*dim+d] += v
			}
			counts[ci]++
		}
		for ci := range centroids {
			if counts[ci] == 0 {
				continue
			}
			inv := 1.0 / float64(counts[ci])
			for d := range dim {
				centroids[ci][d] = sums[ci*dim+d] * inv
			}
		}
	}
	return KMeansResult{Centroids: centroids, Labels: labels}, nil
}

// initialCentroids walks a seeded permutation of the data and takes the
// first k observations with pairwise distinct coordinates. When the data
// holds fewer than k distinct values the remaining slots repeat earlier
// picks, which lose nearest-centroid ties to the originals.
func initialCentroids(data clusters.Observations, k int, seed uint64) []clusters.Coordinates {
	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(len(data))

	out := make([]clusters.Coordinates, 0, k)
	var skipped []int
	for _, idx := range perm {
		if len(out) == k {
			break
		}
		c := data[idx].Coordinates()
		if slices.ContainsFunc(out, func(o clusters.Coordinates) bool { return slices.Equal(o, c) }) {
			if len(skipped) < k {
				skipped = append(skipped, idx)
			}
			continue
		}
		out = append(out, slices.Clone(c))
	}
	for _, idx := range skipped {
		if len(out) == k {
			break
		}
		out = append(out, slices.Clone(data[idx].Coordinates()))
	}
	return out
}

// nearest returns the index of the closest centroid; ties go to the lower
// index.
func nearest(o clusters.Observation, centroids []clusters.Coordinates) int {
	best := 0
	bestD := o.Distance(centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := o.Distance(centroids[i]); d < bestD {
			bestD = d
			best = i
		}
	}
	return best
}

// labObservations wraps Lab triples as clustering input.
func labObservations(samples []PixelSample) clusters.Observations {
	obs := make(clusters.Observations, len(samples))
	for i, s := range samples {
		obs[i] = clusters.Coordinates{s.Lab[0], s.Lab[1], s.Lab[2]}
	}
	return obs
}
