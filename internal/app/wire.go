package app

import (
	"net/http"
	"os"

	"go.uber.org/zap"

	"warehouse/internal/api"
	"warehouse/internal/domain"
	"warehouse/internal/logging"
	"warehouse/internal/services/label"
	"warehouse/internal/services/query"
	"warehouse/internal/store"
)

// Wire bundles the stores, services and clients for the CLI.
type Wire struct {
	Config  Config
	Log     *zap.Logger
	API     domain.ClusterAPI
	Journal domain.JournalStore
	Labels  domain.LabelService
	Query   domain.QueryService
	HTTP    *http.Client
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log *zap.Logger) (*Wire, error) {
	log = logging.OrNop(log)
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, err
	}

	httpClient := cfg.HTTP
	if httpClient == nil {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.MaxIdleConnsPerHost = query.DefaultParallel * 2
		httpClient = &http.Client{Transport: tr, Timeout: cfg.Timeout}
	}

	client := api.New(cfg.APIURL, cfg.QRURL, httpClient, log.Named("api"))
	journal := store.NewJournalFileStore(cfg.Home)

	return &Wire{
		Config:  cfg,
		Log:     log,
		API:     client,
		Journal: journal,
		Labels:  label.New(client, journal, log.Named("label")),
		Query:   query.New(client, log.Named("query")),
		HTTP:    httpClient,
	}, nil
}
