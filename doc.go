// Package fastslic computes a superpixel segmentation of a color image using
// a fast, integer-arithmetic variant of Simple Linear Iterative Clustering
// (SLIC).
//
// Given an H×W image of 8-bit RGB pixels and a desired superpixel count K,
// Iterate produces a per-pixel label map assigning each pixel to exactly one
// of K clusters, plus the final cluster descriptors (centroid position and
// mean color). The design target is throughput, not exact correspondence to
// floating-point SLIC: colors and spatial penalties are quantized into
// 16-bit integers, and the combined distance is packed together with the
// winning cluster id into a single 32-bit word so the inner assignment loop
// reduces to one unsigned comparison per pixel.
//
// # Quick start
//
//	img, _ := fastslic.NewImage(pixels, h, w)
//	clusters, _ := fastslic.InitializeClusters(img, 200)
//	assignment := fastslic.NewAssignment(h, w)
//	err := fastslic.Iterate(context.Background(), img, clusters, assignment, fastslic.DefaultConfig())
//	conn, _ := fastslic.GetConnectivity(h, w, 200, assignment, nil)
//
// # Pipeline
//
//	image, K → InitializeClusters → clusters₀ → repeat MaxIter times:
//	    (assign pixels to nearest cluster window) ; (recompute cluster means)
//	  → EnforceConnectivity → GetConnectivity / KNNConnectivity
//
// # What this package does not do
//
// There is no GPU offload, no streaming/online segmentation, no support for
// images with channel counts other than three 8-bit channels, no sub-pixel
// centroids, no exact L2 color distance, and no exact median-based L1
// update — the mean is used deliberately, for speed, at a small bias the
// quantization already absorbs. There is also no image codec: callers
// decode PNG/JPEG/etc. themselves and hand this package raw interleaved
// RGB bytes.
package fastslic
