// Package cluster partitions order batches into geographically and
// temporally coherent groups.
package cluster

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/thebowwman/fleetflow/internals/domain"
)

const (
	minClusters      = 2
	maxClusters      = 8
	ordersPerCluster = 6
	maxIterations    = 100

	// Fixed seed keeps centroid initialization reproducible across runs.
	seed = 42
)

// NumClusters returns the cluster count for a batch of n orders:
// n/6 clamped to [2, 8].
func NumClusters(n int) int {
	k := n / ordersPerCluster
	if k < minClusters {
		k = minClusters
	}
	if k > maxClusters {
		k = maxClusters
	}
	return k
}

// Assign runs k-means over the feature vector (latitude, longitude, slot
// code) and returns a copy of the batch with Cluster set on every order,
// plus the cluster count. Batches with fewer than two orders skip clustering
// and are returned unmodified with k = 0.
//
// Orders must carry finite coordinates and a valid slot code; callers
// validate before invoking (see Order.FiniteFeatures).
func Assign(orders []domain.Order) ([]domain.Order, int) {
	if len(orders) < 2 {
		return orders, 0
	}

	k := NumClusters(len(orders))
	points := make([][]float64, len(orders))
	for i, o := range orders {
		points[i] = []float64{o.Latitude, o.Longitude, float64(o.SlotCode)}
	}

	assignment := kmeans(points, k)

	out := make([]domain.Order, len(orders))
	copy(out, orders)
	for i := range out {
		out[i].Cluster = assignment[i]
	}
	return out, k
}

// kmeans assigns every point an index in [0, k) by iterative
// nearest-centroid partitioning with mean recomputation.
func kmeans(points [][]float64, k int) []int {
	dims := len(points[0])
	rng := rand.New(rand.NewSource(seed))

	centroids := initialCentroids(points, k, rng)

	assignment := make([]int, len(points))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				if d := floats.Distance(p, centroid, 2); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if iter > 0 && !changed {
			break
		}

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			floats.Add(sums[assignment[i]], p)
			counts[assignment[i]]++
		}
		for c := range centroids {
			// An emptied cluster keeps its previous centroid.
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}
	return assignment
}

// initialCentroids seeds k centroids by the maximin rule: a seeded random
// first pick, then repeatedly the point farthest from its nearest chosen
// centroid. Deterministic for a fixed seed and keeps initial centroids
// spread across the batch.
func initialCentroids(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))

	nearest := make([]float64, len(points))
	for len(centroids) < k {
		last := centroids[len(centroids)-1]
		farthest, farthestDist := 0, -1.0
		for i, p := range points {
			d := floats.Distance(p, last, 2)
			if len(centroids) == 1 || d < nearest[i] {
				nearest[i] = d
			}
			if nearest[i] > farthestDist {
				farthest, farthestDist = i, nearest[i]
			}
		}
		centroids = append(centroids, append([]float64(nil), points[farthest]...))
	}
	return centroids
}
