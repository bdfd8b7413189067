package edit

import "github.com/rivo/uniseg"

// splitFirstCluster returns the first grapheme cluster of s and the rest.
func splitFirstCluster(s string) (cluster, rest string) {
	cluster, rest, _, _ = uniseg.FirstGraphemeClusterInString(s, -1)
	return cluster, rest
}

// splitLastCluster returns s without its last grapheme cluster, and that
// cluster.
func splitLastCluster(s string) (head, cluster string) {
	g := uniseg.NewGraphemes(s)
	last := 0
	for g.Next() {
		start, _ := g.Positions()
		last = start
	}
	return s[:last], s[last:]
}
