package cardseg

import (
	"fmt"
	"math"
)

// MinClusters is the number of non-empty clusters a region needs before
// roles can be assigned.
const MinClusters = 3

// Cluster summarises the samples that share a k-means label.
type Cluster struct {
	Index    int
	Count    int
	Centroid [3]float64
	MeanLab  [3]float64
	MeanRGB  [3]float64
	// Chroma is the distance of MeanLab from the neutral L* axis.
	Chroma  float64
	Members []int
}

// Lightness is the mean L* of the cluster members.
func (c Cluster) Lightness() float64 { return c.MeanLab[0] }

// Hex is the mean source colour as #rrggbb.
func (c Cluster) Hex() string { return hexFromMean(c.MeanRGB) }

// RoleAssignment maps the three semantic roles onto clusters of one region.
// Background and Text may refer to the same cluster.
type RoleAssignment struct {
	Background Cluster
	Accent     Cluster
	Text       Cluster
}

// BuildClusters groups samples by label and drops empty clusters. The
// result is ordered by cluster index.
func BuildClusters(samples []PixelSample, res KMeansResult) []Cluster {
	k := len(res.Centroids)
	all := make([]Cluster, k)
	for i := range all {
		all[i].Index = i
		copy(all[i].Centroid[:], res.Centroids[i])
	}
	for si, label := range res.Labels {
		c := &all[label]
		s := samples[si]
		c.Members = append(c.Members, si)
		c.Count++
		for d := range 3 {
			c.MeanLab[d] += s.Lab[d]
			c.MeanRGB[d] += float64(s.RGB[d])
		}
	}

	out := make([]Cluster, 0, k)
	for _, c := range all {
		if c.Count == 0 {
			continue
		}
		n := float64(c.Count)
		for d := range 3 {
			c.MeanLab[d] /= n
			c.MeanRGB[d] /= n
		}
		c.Chroma = math.Hypot(c.MeanLab[1], c.MeanLab[2])
		out = append(out, c)
	}
	return out
}

// Classify picks the background (lightest), text (darkest) and accent
// (most chromatic apart from the background) clusters. Ties prefer the
// larger cluster, then the lower index.
func Classify(cs []Cluster) (RoleAssignment, error) {
	if len(cs) < MinClusters {
		return RoleAssignment{}, fmt.Errorf("%w: %d non-empty clusters, need %d",
			ErrInsufficientData, len(cs), MinClusters)
	}

	bg := pick(cs, func(c Cluster) float64 { return c.Lightness() }, nil)
	text := pick(cs, func(c Cluster) float64 { return -c.Lightness() }, nil)
	accent := pick(cs, func(c Cluster) float64 { return c.Chroma },
		func(c Cluster) bool { return c.Index != bg.Index })

	return RoleAssignment{Background: bg, Accent: accent, Text: text}, nil
}

// pick returns the cluster with the highest score among those accepted by
// keep (all when keep is nil).
func pick(cs []Cluster, score func(Cluster) float64, keep func(Cluster) bool) Cluster {
	var best Cluster
	found := false
	for _, c := range cs {
		if keep != nil && !keep(c) {
			continue
		}
		if !found || better(c, best, score) {
			best = c
			found = true
		}
	}
	return best
}

func better(a, b Cluster, score func(Cluster) float64) bool {
	sa, sb := score(a), score(b)
	if sa != sb {
		return sa > sb
	}
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Index < b.Index
}
