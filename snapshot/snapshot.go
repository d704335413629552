// Package snapshot is an ambient binary export/import format for a
// finished SLIC segmentation, layered on top of the core algorithm for
// golden-file tests and optional persistence. It is not part of the
// segmentation contract itself.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"
)

// Codec selects the compression applied to the encoded payload.
type Codec int

const (
	// CodecNone stores the payload uncompressed.
	CodecNone Codec = iota
	// CodecGzip compresses the payload with gzip (klauspost/compress).
	CodecGzip
	// CodecLZ4 compresses the payload with LZ4 (pierrec/lz4).
	CodecLZ4
)

const magic = "FSLC"

// Cluster mirrors fastslic.Cluster's fields without importing the root
// package, keeping this package dependency-free of the core types.
type Cluster struct {
	Number     uint16
	Y, X       uint16
	R, G, B    uint16
	NumMembers uint32
}

// Snapshot is a self-contained, encodable segmentation result.
type Snapshot struct {
	H, W, K  int
	Clusters []Cluster
	Labels   []uint32
}

// NewSnapshot bundles a finished segmentation for encoding.
func NewSnapshot(h, w, k int, clusters []Cluster, labels []uint32) *Snapshot {
	return &Snapshot{H: h, W: w, K: k, Clusters: clusters, Labels: labels}
}

// WriteTo encodes s to w under the given codec, returning the number of
// bytes written to w.
func (s *Snapshot) WriteTo(w io.Writer, codec Codec) (int64, error) {
	var raw bytes.Buffer
	raw.WriteString(magic)

	header := [3]int32{int32(s.H), int32(s.W), int32(s.K)}
	if err := binary.Write(&raw, binary.LittleEndian, header); err != nil {
		return 0, fmt.Errorf("snapshot: write header: %w", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, int32(len(s.Clusters))); err != nil {
		return 0, fmt.Errorf("snapshot: write cluster count: %w", err)
	}
	for _, c := range s.Clusters {
		if err := binary.Write(&raw, binary.LittleEndian, c); err != nil {
			return 0, fmt.Errorf("snapshot: write cluster: %w", err)
		}
	}
	if err := binary.Write(&raw, binary.LittleEndian, int32(len(s.Labels))); err != nil {
		return 0, fmt.Errorf("snapshot: write label count: %w", err)
	}
	if err := binary.Write(&raw, binary.LittleEndian, s.Labels); err != nil {
		return 0, fmt.Errorf("snapshot: write labels: %w", err)
	}

	n, err := writeCompressed(w, codec, raw.Bytes())
	if err != nil {
		return n, fmt.Errorf("snapshot: %w", err)
	}
	return n, nil
}

func writeCompressed(w io.Writer, codec Codec, payload []byte) (int64, error) {
	if err := binary.Write(w, binary.LittleEndian, uint8(codec)); err != nil {
		return 0, err
	}
	counter := &countingWriter{w: w}

	switch codec {
	case CodecNone:
		if _, err := counter.Write(payload); err != nil {
			return counter.n + 1, err
		}
	case CodecGzip:
		gz := gzip.NewWriter(counter)
		if _, err := gz.Write(payload); err != nil {
			return counter.n + 1, err
		}
		if err := gz.Close(); err != nil {
			return counter.n + 1, err
		}
	case CodecLZ4:
		lzw := lz4.NewWriter(counter)
		if _, err := lzw.Write(payload); err != nil {
			return counter.n + 1, err
		}
		if err := lzw.Close(); err != nil {
			return counter.n + 1, err
		}
	default:
		return counter.n + 1, fmt.Errorf("unknown codec %d", codec)
	}
	return counter.n + 1, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// ReadSnapshot decodes a Snapshot previously produced by WriteTo.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var codecByte uint8
	if err := binary.Read(r, binary.LittleEndian, &codecByte); err != nil {
		return nil, fmt.Errorf("snapshot: read codec: %w", err)
	}

	var payload io.Reader
	switch Codec(codecByte) {
	case CodecNone:
		payload = r
	case CodecGzip:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("snapshot: gzip reader: %w", err)
		}
		defer gz.Close()
		payload = gz
	case CodecLZ4:
		payload = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("snapshot: unknown codec %d", codecByte)
	}

	var magicBuf [4]byte
	if _, err := io.ReadFull(payload, magicBuf[:]); err != nil {
		return nil, fmt.Errorf("snapshot: read magic: %w", err)
	}
	if string(magicBuf[:]) != magic {
		return nil, fmt.Errorf("snapshot: bad magic %q", magicBuf)
	}

	var header [3]int32
	if err := binary.Read(payload, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("snapshot: read header: %w", err)
	}

	var numClusters int32
	if err := binary.Read(payload, binary.LittleEndian, &numClusters); err != nil {
		return nil, fmt.Errorf("snapshot: read cluster count: %w", err)
	}
	clusters := make([]Cluster, numClusters)
	for i := range clusters {
		if err := binary.Read(payload, binary.LittleEndian, &clusters[i]); err != nil {
			return nil, fmt.Errorf("snapshot: read cluster %d: %w", i, err)
		}
	}

	var numLabels int32
	if err := binary.Read(payload, binary.LittleEndian, &numLabels); err != nil {
		return nil, fmt.Errorf("snapshot: read label count: %w", err)
	}
	labels := make([]uint32, numLabels)
	if err := binary.Read(payload, binary.LittleEndian, labels); err != nil {
		return nil, fmt.Errorf("snapshot: read labels: %w", err)
	}

	return &Snapshot{
		H: int(header[0]), W: int(header[1]), K: int(header[2]),
		Clusters: clusters,
		Labels:   labels,
	}, nil
}
