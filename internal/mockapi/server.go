package mockapi

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"warehouse/internal/batch"
	"warehouse/internal/domain"
	"warehouse/internal/imei"
	"warehouse/internal/logging"
)

const (
	maxUploadBytes = 32 << 20
	qrSize         = 256
)

var errNoCSV = errors.New("zip archive has no .csv entry")

// Server serves the cluster API from memory.
type Server struct {
	publicURL string
	log       *zap.Logger
	store     *memoryStore
	metrics   *metrics
	registry  *prometheus.Registry
	router    *mux.Router
}

// New builds a server. publicURL is the base encoded into QR labels; when
// empty the scheme and host of each QR request are used.
func New(publicURL string, log *zap.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		publicURL: strings.TrimRight(strings.TrimSpace(publicURL), "/"),
		log:       logging.OrNop(log),
		store:     newMemoryStore(),
		metrics:   newMetrics(reg),
		registry:  reg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)

	m := s.metrics
	r.HandleFunc("/health", m.instrument("health", s.handleHealth)).Methods(http.MethodGet)
	r.HandleFunc("/clusters", m.instrument("create_cluster", s.handleCreateCluster)).Methods(http.MethodPost)
	r.HandleFunc("/clusters/", m.instrument("create_cluster", s.handleCreateCluster)).Methods(http.MethodPost)
	r.HandleFunc("/clusters/{id}/qrcode", m.instrument("qrcode", s.handleQRCode)).Methods(http.MethodGet)
	r.HandleFunc("/processar-csv", m.instrument("import_csv", s.handleImportCSV)).Methods(http.MethodPost)
	r.HandleFunc("/api/clusters/{id}", m.instrument("get_cluster", s.handleGetCluster)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		s.log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.String("request_id", r.Header.Get("X-Request-ID")),
			zap.Int("status", rw.statusCode),
			zap.Int("bytes", rw.bytes),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_, _ = io.WriteString(w, "OK\n")
}

func (s *Server) handleCreateCluster(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	name := strings.TrimSpace(r.URL.Query().Get("nome"))
	if name == "" {
		writeError(w, http.StatusUnprocessableEntity, "nome do cluster é obrigatório")
		return
	}
	var imeis []string
	if err := json.NewDecoder(r.Body).Decode(&imeis); err != nil {
		writeError(w, http.StatusBadRequest, "corpo deve ser uma lista JSON de IMEIs")
		return
	}
	if len(imeis) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "informe ao menos um IMEI")
		return
	}
	details := make([]domain.IMEIDetail, 0, len(imeis))
	for _, v := range imeis {
		if !imei.Valid(v) {
			s.metrics.imeisRejected.Inc()
			writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("IMEI inválido: %s", v))
			return
		}
		details = append(details, domain.IMEIDetail{IMEI: v})
	}

	c := s.store.create(name, r.URL.Query().Get("descricao"), details)
	s.metrics.clustersCreated.Inc()
	s.log.Debug("cluster created", zap.String("id", c.ID.String()), zap.Int("imeis", c.TotalIMEIs))
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleQRCode(w http.ResponseWriter, r *http.Request) {
	id := domain.ClusterID(mux.Vars(r)["id"])
	if _, ok := s.store.get(id); !ok {
		writeError(w, http.StatusNotFound, "cluster não encontrado")
		return
	}
	png, err := qrcode.Encode(s.baseURL(r)+"/clusters/"+id.String(), qrcode.Medium, qrSize)
	if err != nil {
		s.log.Error("qr encode failed", zap.String("id", id.String()), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "falha ao gerar QR code")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "upload multipart inválido")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `campo "file" ausente`)
		return
	}
	defer f.Close()

	var meta domain.ImportMetadata
	if raw := r.FormValue("metadata"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &meta); err != nil {
			writeError(w, http.StatusBadRequest, "metadata inválido")
			return
		}
	}

	recs, err := readUpload(f, hdr)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	seen := make(map[string]bool, len(recs))
	details := make([]domain.IMEIDetail, 0, len(recs))
	rejected := 0
	for _, rec := range recs {
		if !imei.Valid(rec.IMEI) {
			rejected++
			continue
		}
		if seen[rec.IMEI] {
			continue
		}
		seen[rec.IMEI] = true
		details = append(details, domain.IMEIDetail{
			IMEI:         rec.IMEI,
			Model:        rec.Model,
			Status:       rec.Status,
			Manufacturer: rec.Manufacturer,
		})
	}
	s.metrics.imeisRejected.Add(float64(rejected))
	if len(details) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "nenhum IMEI válido no arquivo")
		return
	}

	res := domain.ImportResult{
		Message: fmt.Sprintf("%d IMEIs processados, %d inválidos", len(details), rejected),
	}
	if meta.AutoCreateCluster {
		name := strings.TrimSpace(meta.ClusterName)
		if name == "" {
			name = strings.TrimSuffix(hdr.Filename, path.Ext(hdr.Filename))
		}
		c := s.store.create(name, meta.ClusterDescription, details)
		s.metrics.clustersCreated.Inc()
		res.ClusterID = c.ID
		res.ClusterName = c.Name
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetCluster(w http.ResponseWriter, r *http.Request) {
	c, ok := s.store.get(domain.ClusterID(mux.Vars(r)["id"]))
	if !ok {
		writeError(w, http.StatusNotFound, "cluster não encontrado")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) baseURL(r *http.Request) string {
	if s.publicURL != "" {
		return s.publicURL
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// readUpload parses a CSV upload, or every .csv entry of a ZIP upload.
func readUpload(f multipart.File, hdr *multipart.FileHeader) ([]batch.Record, error) {
	isZip := strings.EqualFold(path.Ext(hdr.Filename), ".zip") ||
		hdr.Header.Get("Content-Type") == "application/zip"
	if !isZip {
		return batch.Read(f)
	}

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("zip inválido: %w", err)
	}
	var out []batch.Record
	found := false
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || !strings.EqualFold(path.Ext(zf.Name), ".csv") {
			continue
		}
		found = true
		rc, err := zf.Open()
		if err != nil {
			return nil, err
		}
		recs, err := batch.Read(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", zf.Name, err)
		}
		out = append(out, recs...)
	}
	if !found {
		return nil, errNoCSV
	}
	return out, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}
