package query

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"warehouse/internal/domain"
	"warehouse/internal/logging"
	"warehouse/internal/report"
	"warehouse/internal/scan"
)

// DefaultParallel bounds LookupMany when the caller passes no limit.
const DefaultParallel = 4

// Service resolves operator input to clusters.
type Service struct {
	api domain.ClusterAPI
	log *zap.Logger
}

func New(api domain.ClusterAPI, log *zap.Logger) *Service {
	return &Service{api: api, log: logging.OrNop(log)}
}

var _ domain.QueryService = (*Service)(nil)

// Lookup extracts the cluster id from input (manual id, QR URL or JSON
// payload), fetches the cluster and fills the fields the API may omit.
func (s *Service) Lookup(ctx context.Context, input string) (domain.Cluster, error) {
	id, err := scan.ClusterID(input)
	if err != nil {
		return domain.Cluster{}, err
	}
	s.log.Debug("looking up cluster", zap.String("cluster_id", id.String()))
	c, err := s.api.GetCluster(ctx, id)
	if err != nil {
		return domain.Cluster{}, err
	}
	return report.Normalize(c, id), nil
}

// LookupMany runs Lookup for every input with at most limit requests in
// flight. Results keep the input order. The first failure cancels the rest.
func (s *Service) LookupMany(ctx context.Context, inputs []string, limit int) ([]domain.Cluster, error) {
	if limit <= 0 {
		limit = DefaultParallel
	}
	out := make([]domain.Cluster, len(inputs))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)
	for i, in := range inputs {
		eg.Go(func() error {
			c, err := s.Lookup(egCtx, in)
			if err != nil {
				return fmt.Errorf("lookup %q: %w", in, err)
			}
			out[i] = c
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Export writes the cluster's device list into dir and returns the file path.
func (s *Service) Export(c domain.Cluster, dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, report.FileName(c))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := report.WriteCSV(f, c); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("export %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	s.log.Info("cluster exported", zap.String("cluster_id", c.ID.String()), zap.String("path", path))
	return path, nil
}
