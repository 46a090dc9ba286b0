package similarity

import (
	"math"
	"sort"

	"github.com/GriffinAtlas/clawtriage/internal/cache"
	"github.com/GriffinAtlas/clawtriage/pkg/models"
)

// unionFind is a disjoint-set over item numbers with path compression
// and union by rank.
type unionFind struct {
	parent map[int]int
	rank   map[int]int
}

func newUnionFind(elements []int) *unionFind {
	uf := &unionFind{
		parent: make(map[int]int, len(elements)),
		rank:   make(map[int]int, len(elements)),
	}
	for _, e := range elements {
		uf.parent[e] = e
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	p, found := uf.parent[x]
	if !found {
		return x
	}
	if p != x {
		uf.parent[x] = uf.find(p)
	}
	return uf.parent[x]
}

func (uf *unionFind) union(x, y int) {
	rootX := uf.find(x)
	rootY := uf.find(y)
	if rootX == rootY {
		return
	}

	switch {
	case uf.rank[rootX] < uf.rank[rootY]:
		uf.parent[rootX] = rootY
	case uf.rank[rootX] > uf.rank[rootY]:
		uf.parent[rootY] = rootX
	default:
		uf.parent[rootY] = rootX
		uf.rank[rootX]++
	}
}

type pairKey struct {
	lo, hi int
}

func makePair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a, b}
}

// ClusterDuplicates groups entries whose pairwise cosine similarity meets the
// threshold, using union-find so transitively-linked items land in one
// cluster. Entries with an empty embedding are excluded entirely (not yet
// embedded, not zero-similarity). Each surviving cluster has at least two
// members, canonical = min(members), and an average similarity over all pairs
// in the final group, rounded to 3 decimals. Clusters come back sorted by
// canonical number.
//
// The pair pass is O(n²) in valid entries, which is fine at batch scale
// (hundreds of items, not millions).
func ClusterDuplicates(entries []cache.Entry, threshold float64) []models.DuplicateCluster {
	valid := make([]cache.Entry, 0, len(entries))
	for _, e := range entries {
		if len(e.Embedding) > 0 {
			valid = append(valid, e)
		}
	}
	if len(valid) < 2 {
		return []models.DuplicateCluster{}
	}

	numbers := make([]int, len(valid))
	byNumber := make(map[int]cache.Entry, len(valid))
	for i, e := range valid {
		numbers[i] = e.Number
		byNumber[e.Number] = e
	}

	uf := newUnionFind(numbers)
	pairSims := make(map[pairKey]float64)
	for i := 0; i < len(valid); i++ {
		for j := i + 1; j < len(valid); j++ {
			sim := Cosine(valid[i].Embedding, valid[j].Embedding)
			if sim >= threshold {
				uf.union(valid[i].Number, valid[j].Number)
				pairSims[makePair(valid[i].Number, valid[j].Number)] = sim
			}
		}
	}

	groups := make(map[int][]int)
	for _, e := range valid {
		root := uf.find(e.Number)
		groups[root] = append(groups[root], e.Number)
	}

	clusters := make([]models.DuplicateCluster, 0, len(groups))
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)

		// Average over every pair in the final group. Pairs that merged only
		// via transitivity were never cached, so recompute them on demand.
		var total float64
		var pairs int
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				sim, cached := pairSims[makePair(members[i], members[j])]
				if !cached {
					sim = Cosine(byNumber[members[i]].Embedding, byNumber[members[j]].Embedding)
				}
				total += sim
				pairs++
			}
		}

		avg := 0.0
		if pairs > 0 {
			avg = math.Round(total/float64(pairs)*1000) / 1000
		}

		clusters = append(clusters, models.DuplicateCluster{
			Canonical:     members[0],
			Members:       members,
			AvgSimilarity: avg,
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Canonical < clusters[j].Canonical
	})
	return clusters
}
