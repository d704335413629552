package fastslic

// EnforceConnectivity (C7) relabels orphaned connected fragments of the
// label raster into a neighboring fragment. A fragment is a maximal
// 4-connected region sharing one label, found by BFS flood fill in the
// style of a generic grid connected-components scan. Fragments smaller
// than minSizeFactor*(H*W/K) are folded into an adjacent fragment's label.
//
// This does not update Cluster.NumMembers; call RecomputeMembership
// afterward if per-cluster counts are needed.
func EnforceConnectivity(h, w, k int, minSizeFactor float64, assignment Assignment) error {
	if err := assignment.validate(h, w); err != nil {
		return err
	}
	if k <= 0 {
		return invalidArgf("k", "must be positive, got %d", k)
	}
	if minSizeFactor < 0 {
		return invalidArgf("minSizeFactor", "must be non-negative, got %v", minSizeFactor)
	}

	minSize := int(minSizeFactor * float64(h*w) / float64(k))

	total := h * w
	seen := make([]bool, total)
	queue := make([]int, 0, total)

	for start := 0; start < total; start++ {
		if seen[start] {
			continue
		}
		home := assignment.Labels[start] & 0xFFFF
		seen[start] = true
		queue = queue[:0]
		queue = append(queue, start)

		var boundaryLabel uint32 = UnassignedLabel
		haveBoundary := false

		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			uy, ux := u/w, u%w

			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				vy, vx := uy+d[0], ux+d[1]
				if vy < 0 || vy >= h || vx < 0 || vx >= w {
					continue
				}
				v := vy*w + vx
				vLabel := assignment.Labels[v] & 0xFFFF
				if vLabel != home {
					if !haveBoundary {
						boundaryLabel = vLabel
						haveBoundary = true
					}
					continue
				}
				if !seen[v] {
					seen[v] = true
					queue = append(queue, v)
				}
			}
		}

		if len(queue) < minSize && haveBoundary {
			for _, p := range queue {
				assignment.Labels[p] = boundaryLabel
			}
		}
	}

	return nil
}

// RecomputeMembership recounts Cluster.NumMembers from assignment without
// touching centroid or color, for use after EnforceConnectivity moves
// pixels between clusters.
func RecomputeMembership(h, w, k int, assignment Assignment, clusters []Cluster) {
	counts := make([]int, k)
	for _, word := range assignment.Labels {
		label := word & 0xFFFF
		if label == UnassignedLabel || int(label) >= k {
			continue
		}
		counts[label]++
	}
	for i := range clusters {
		clusters[i].NumMembers = counts[i]
	}
}
