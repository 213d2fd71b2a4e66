package label

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"warehouse/internal/domain"
	"warehouse/internal/imei"
	"warehouse/internal/logging"
	"warehouse/internal/report"
	"warehouse/internal/validation"
)

var (
	// ErrNoCluster is returned when a QR is requested without a cluster id.
	ErrNoCluster = errors.New("no cluster id")
	// ErrNameRequired is returned when a batch upload has no cluster name.
	ErrNameRequired = errors.New("cluster name is required")
)

// Service creates clusters and downloads their labels.
type Service struct {
	api     domain.ClusterAPI
	journal domain.JournalStore
	log     *zap.Logger
}

func New(api domain.ClusterAPI, journal domain.JournalStore, log *zap.Logger) *Service {
	return &Service{api: api, journal: journal, log: logging.OrNop(log)}
}

var _ domain.LabelService = (*Service)(nil)

// Create validates req, creates the cluster and journals it. IMEIs are
// normalized to their digits first. A journal failure is logged, not
// returned: the cluster already exists on the server.
func (s *Service) Create(ctx context.Context, passphrase string, req domain.CreateClusterRequest) (domain.Cluster, error) {
	imeis := make([]string, len(req.IMEIs))
	for i, v := range req.IMEIs {
		imeis[i] = imei.Normalize(v)
	}
	req.IMEIs = imeis

	if err := validation.Struct(req); err != nil {
		return domain.Cluster{}, err
	}

	c, err := s.api.CreateCluster(ctx, req)
	if err != nil {
		return domain.Cluster{}, err
	}
	s.log.Info("cluster created", zap.String("cluster_id", c.ID.String()), zap.Int("imeis", len(req.IMEIs)))

	if c.ID == "" {
		s.log.Warn("api returned a cluster without id; not journaled")
		return c, nil
	}
	s.record(passphrase, domain.JournalEntry{
		ClusterID:   c.ID,
		Name:        req.Name,
		Description: req.Description,
		IMEIs:       req.IMEIs,
		Source:      domain.SourceManual,
	})
	return c, nil
}

// QRCode downloads the cluster's label into outDir and returns the file path.
func (s *Service) QRCode(ctx context.Context, id domain.ClusterID, outDir string) (string, error) {
	if strings.TrimSpace(id.String()) == "" {
		return "", ErrNoCluster
	}
	qr, err := s.api.FetchQRCode(ctx, id)
	if err != nil {
		return "", err
	}
	if outDir == "" {
		outDir = "."
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, QRFileName(id))
	if err := os.WriteFile(path, qr.PNG, 0o644); err != nil {
		return "", fmt.Errorf("write qr code: %w", err)
	}
	s.log.Info("qr code saved", zap.String("cluster_id", id.String()), zap.String("path", path), zap.Int("bytes", len(qr.PNG)))
	return path, nil
}

// Import uploads a CSV or ZIP batch asking the server to create a cluster
// for it. When the server answers with a cluster id the cluster is journaled
// and, if requested, its QR code is downloaded.
func (s *Service) Import(ctx context.Context, passphrase string, req domain.ImportRequest) (domain.ImportOutcome, error) {
	if strings.TrimSpace(req.Name) == "" {
		return domain.ImportOutcome{}, ErrNameRequired
	}
	f, err := os.Open(req.Path)
	if err != nil {
		return domain.ImportOutcome{}, err
	}
	defer f.Close()

	res, err := s.api.ImportCSV(ctx, req.Path, f, domain.ImportMetadata{
		AutoCreateCluster:  true,
		ClusterName:        req.Name,
		ClusterDescription: req.Description,
	})
	if err != nil {
		return domain.ImportOutcome{}, err
	}
	out := domain.ImportOutcome{Result: res}
	s.log.Info("batch imported", zap.String("file", req.Path), zap.String("cluster_id", res.ClusterID.String()))

	if res.ClusterID == "" {
		return out, nil
	}
	if req.FetchQR {
		out.QRPath, out.QRErr = s.QRCode(ctx, res.ClusterID, req.OutDir)
		if out.QRErr != nil {
			s.log.Warn("qr download after import failed", zap.Error(out.QRErr))
		}
	}
	name := res.ClusterName
	if name == "" {
		name = req.Name
	}
	s.record(passphrase, domain.JournalEntry{
		ClusterID:   res.ClusterID,
		Name:        name,
		Description: req.Description,
		Source:      domain.SourceCSV,
		QRPath:      out.QRPath,
	})
	return out, nil
}

// QRFileName is the file name used for a cluster's label.
func QRFileName(id domain.ClusterID) string {
	return "qr-cluster-" + report.SafeName(id.String()) + ".png"
}

func (s *Service) record(passphrase string, e domain.JournalEntry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(passphrase, e); err != nil {
		s.log.Warn("journal append failed", zap.String("cluster_id", e.ClusterID.String()), zap.Error(err))
	}
}
