package domain

import (
	"context"
	"io"
)

// ClusterAPI is how we talk to the external cluster server.
type ClusterAPI interface {
	CreateCluster(ctx context.Context, req CreateClusterRequest) (Cluster, error)
	FetchQRCode(ctx context.Context, id ClusterID) (QRCode, error)
	ImportCSV(ctx context.Context, filename string, r io.Reader, meta ImportMetadata) (ImportResult, error)
	GetCluster(ctx context.Context, id ClusterID) (Cluster, error)
}

// JournalStore keeps the local history of created clusters.
// An empty passphrase means the journal is stored in plain JSON.
type JournalStore interface {
	Append(passphrase string, e JournalEntry) error
	List(passphrase string) ([]JournalEntry, error)
	Find(passphrase string, id ClusterID) (JournalEntry, bool, error)
}

// LabelService creates clusters and their QR labels.
type LabelService interface {
	Create(ctx context.Context, passphrase string, req CreateClusterRequest) (Cluster, error)
	QRCode(ctx context.Context, id ClusterID, outDir string) (string, error)
	Import(ctx context.Context, passphrase string, req ImportRequest) (ImportOutcome, error)
}

// QueryService looks clusters up and exports their contents.
type QueryService interface {
	Lookup(ctx context.Context, input string) (Cluster, error)
	LookupMany(ctx context.Context, inputs []string, limit int) ([]Cluster, error)
	Export(c Cluster, dir string) (string, error)
}

// ImportRequest describes one bulk upload.
type ImportRequest struct {
	Path        string
	Name        string
	Description string
	FetchQR     bool
	OutDir      string
}

// ImportOutcome is what an upload produced.
type ImportOutcome struct {
	Result ImportResult
	QRPath string
	QRErr  error // a failed QR download does not fail the import
}
