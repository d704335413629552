package fastslic

import (
	"fmt"

	"github.com/hupe1980/fastslic/internal/conv"
)

// UnassignedLabel is the sentinel cluster id stored in the low 16 bits of
// an Assignment word for a pixel no cluster ever claimed.
const UnassignedLabel = 0xFFFF

// Image is an immutable H×W array of 8-bit interleaved RGB pixels in
// row-major order: pixel (i,j) occupies Pix[3*(i*W+j) : 3*(i*W+j)+3].
type Image struct {
	Pix  []byte
	H, W int
}

// NewImage validates pix and wraps it as an Image. pix is borrowed, not
// copied; callers must not mutate it while an Image built from it is in
// use by Iterate or any connectivity operation.
func NewImage(pix []byte, h, w int) (Image, error) {
	if h <= 0 {
		return Image{}, invalidArgf("h", "must be positive, got %d", h)
	}
	if w <= 0 {
		return Image{}, invalidArgf("w", "must be positive, got %d", w)
	}
	if _, err := conv.IntToUint16(h); err != nil {
		return Image{}, invalidArgf("h", "must fit in 16 bits: %v", err)
	}
	if _, err := conv.IntToUint16(w); err != nil {
		return Image{}, invalidArgf("w", "must fit in 16 bits: %v", err)
	}
	want := h * w * 3
	if len(pix) != want {
		return Image{}, invalidArgf("pix", "length %d does not match h*w*3=%d", len(pix), want)
	}
	return Image{Pix: pix, H: h, W: w}, nil
}

// At returns the RGB triple at pixel (i, j).
func (img Image) At(i, j int) (r, g, b uint8) {
	off := 3 * (i*img.W + j)
	return img.Pix[off], img.Pix[off+1], img.Pix[off+2]
}

// Cluster is a mutable superpixel descriptor.
type Cluster struct {
	Number     uint16
	Y, X       uint16
	R, G, B    uint16
	NumMembers int
}

// Assignment is a per-pixel label map, one word per pixel in row-major
// order. During an assignment pass a word holds a packed
// (distance<<16 | cluster_number) value; afterward only the low 16 bits
// are meaningful.
type Assignment struct {
	Labels []uint32
	H, W   int
}

// NewAssignment allocates an Assignment for an H×W image, with every
// pixel initialized to UnassignedLabel.
func NewAssignment(h, w int) Assignment {
	labels := make([]uint32, h*w)
	for i := range labels {
		labels[i] = UnassignedLabel
	}
	return Assignment{Labels: labels, H: h, W: w}
}

// Label returns the cluster id (or UnassignedLabel) at pixel (i, j).
func (a Assignment) Label(i, j int) uint32 {
	return a.Labels[i*a.W+j] & 0xFFFF
}

// SetLabel overwrites pixel (i, j) with a plain (non-packed) cluster id.
func (a Assignment) SetLabel(i, j int, label uint32) {
	a.Labels[i*a.W+j] = label & 0xFFFF
}

func (a Assignment) validate(h, w int) error {
	if a.H != h || a.W != w {
		return invalidArgf("assignment", "dimensions %dx%d do not match %dx%d", a.H, a.W, h, w)
	}
	if len(a.Labels) != h*w {
		return invalidArgf("assignment", "label count %d does not match %d", len(a.Labels), h*w)
	}
	return nil
}

// Connectivity is a flat adjacency list: NeighborsOf(k) returns cluster
// k's neighbor ids. Offsets has length K+1 (prefix sums); Neighbors has
// length Offsets[K]. Lists built by GetConnectivity are symmetric; lists
// built by KNNConnectivity need not be mutual.
type Connectivity struct {
	Offsets   []int32
	Neighbors []int32
}

// NeighborsOf returns the neighbor ids of cluster k.
func (c *Connectivity) NeighborsOf(k int) []int32 {
	return c.Neighbors[c.Offsets[k]:c.Offsets[k+1]]
}

// Degree returns the number of neighbors cluster k has.
func (c *Connectivity) Degree(k int) int {
	return int(c.Offsets[k+1] - c.Offsets[k])
}

func (c Cluster) String() string {
	return fmt.Sprintf("Cluster{#%d @(%d,%d) rgb(%d,%d,%d) n=%d}",
		c.Number, c.Y, c.X, c.R, c.G, c.B, c.NumMembers)
}
