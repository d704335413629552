package fastslic

import "math"

// InitializeClusters places k cluster centers on an as-square-as-possible
// grid over img and samples each center's initial color from the image,
// so the first cluster-update pass (C3) has a real color to compare
// against rather than zero.
func InitializeClusters(img Image, k int) ([]Cluster, error) {
	if k <= 0 {
		return nil, invalidArgf("k", "must be positive, got %d", k)
	}
	if k > img.H*img.W {
		return nil, invalidArgf("k", "exceeds pixel count %d", img.H*img.W)
	}

	gridCols := int(math.Ceil(math.Sqrt(float64(k) * float64(img.W) / float64(img.H))))
	if gridCols < 1 {
		gridCols = 1
	}
	if gridCols > k {
		gridCols = k
	}
	gridRows := (k + gridCols - 1) / gridCols

	stepY := img.H / gridRows
	if stepY < 1 {
		stepY = 1
	}
	stepX := img.W / gridCols
	if stepX < 1 {
		stepX = 1
	}

	clusters := make([]Cluster, 0, k)
	for row := 0; row < gridRows && len(clusters) < k; row++ {
		for col := 0; col < gridCols && len(clusters) < k; col++ {
			cy := row*stepY + stepY/2
			cx := col*stepX + stepX/2
			if cy >= img.H {
				cy = img.H - 1
			}
			if cx >= img.W {
				cx = img.W - 1
			}

			r, g, b := img.At(cy, cx)
			clusters = append(clusters, Cluster{
				Number: uint16(len(clusters)),
				Y:      uint16(cy),
				X:      uint16(cx),
				R:      uint16(r),
				G:      uint16(g),
				B:      uint16(b),
			})
		}
	}
	return clusters, nil
}
