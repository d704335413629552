package fastslic

import (
	"context"
	"io"

	"github.com/hupe1980/fastslic/snapshot"
)

// ToSnapshot converts a finished segmentation into the ambient snapshot
// package's encodable form.
func ToSnapshot(h, w, k int, clusters []Cluster, assignment Assignment) *snapshot.Snapshot {
	sc := make([]snapshot.Cluster, len(clusters))
	for i, c := range clusters {
		sc[i] = snapshot.Cluster{
			Number: c.Number, Y: c.Y, X: c.X,
			R: c.R, G: c.G, B: c.B,
			NumMembers: uint32(c.NumMembers),
		}
	}
	return snapshot.NewSnapshot(h, w, k, sc, assignment.Labels)
}

// FromSnapshot recovers clusters and an Assignment from a decoded
// snapshot.
func FromSnapshot(s *snapshot.Snapshot) ([]Cluster, Assignment) {
	clusters := make([]Cluster, len(s.Clusters))
	for i, c := range s.Clusters {
		clusters[i] = Cluster{
			Number: c.Number, Y: c.Y, X: c.X,
			R: c.R, G: c.G, B: c.B,
			NumMembers: int(c.NumMembers),
		}
	}
	return clusters, Assignment{Labels: s.Labels, H: s.H, W: s.W}
}

// WriteSnapshot encodes snap to w under codec and logs the outcome via
// logger (nil is accepted and behaves as NoopLogger).
func WriteSnapshot(logger *Logger, w io.Writer, snap *snapshot.Snapshot, codec snapshot.Codec) (int64, error) {
	if logger == nil {
		logger = NoopLogger()
	}
	n, err := snap.WriteTo(w, codec)
	logger.LogSnapshot(context.Background(), "write", n, err)
	return n, err
}

// ReadSnapshotLogged decodes a Snapshot from r and logs the outcome via
// logger (nil is accepted and behaves as NoopLogger).
func ReadSnapshotLogged(logger *Logger, r io.Reader) (*snapshot.Snapshot, error) {
	if logger == nil {
		logger = NoopLogger()
	}
	snap, err := snapshot.ReadSnapshot(r)
	var size int64
	if snap != nil {
		size = int64(len(snap.Labels))*4 + int64(len(snap.Clusters))*16
	}
	logger.LogSnapshot(context.Background(), "read", size, err)
	return snap, err
}
