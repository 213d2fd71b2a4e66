package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"warehouse/internal/domain"
	"warehouse/internal/logging"
)

const (
	// Tunnels in front of the API serve an HTML interstitial unless this is set.
	skipWarningHeader = "ngrok-skip-browser-warning"

	maxQRBytes = 10 << 20
)

var errEmptyQR = errors.New("api returned an empty QR image")

// Client talks to the cluster API over HTTP.
type Client struct {
	Base   string // e.g. http://127.0.0.1:8000
	QRBase string // defaults to Base
	HTTP   *http.Client
	Log    *zap.Logger

	now func() time.Time
}

// New returns a client for base. Trailing slashes are trimmed from both URLs.
func New(base, qrBase string, hc *http.Client, log *zap.Logger) *Client {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	qrBase = strings.TrimRight(strings.TrimSpace(qrBase), "/")
	if qrBase == "" {
		qrBase = base
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{Base: base, QRBase: qrBase, HTTP: hc, Log: logging.OrNop(log), now: time.Now}
}

var _ domain.ClusterAPI = (*Client)(nil)

// CreateCluster posts the IMEIs as a JSON array; name and description travel
// in the query string.
func (c *Client) CreateCluster(ctx context.Context, req domain.CreateClusterRequest) (domain.Cluster, error) {
	q := url.Values{}
	q.Set("nome", req.Name)
	q.Set("descricao", req.Description)
	u := c.Base + "/clusters/?" + q.Encode()

	imeis := req.IMEIs
	if imeis == nil {
		imeis = []string{}
	}
	var out domain.Cluster
	if err := c.doJSON(ctx, http.MethodPost, u, imeis, &out); err != nil {
		return domain.Cluster{}, fmt.Errorf("create cluster: %w", err)
	}
	return out, nil
}

// FetchQRCode downloads the cluster's QR label. A timestamp parameter keeps
// intermediaries from serving a stale image.
func (c *Client) FetchQRCode(ctx context.Context, id domain.ClusterID) (domain.QRCode, error) {
	stamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	q := url.Values{}
	q.Set(skipWarningHeader, "true")
	q.Set("t", stamp)
	u := c.QRBase + "/clusters/" + url.PathEscape(id.String()) + "/qrcode?" + q.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.QRCode{}, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.send(req)
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("fetch qr code: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domain.QRCode{}, fmt.Errorf("fetch qr code: %w", newStatusError(req, resp))
	}
	png, err := io.ReadAll(io.LimitReader(resp.Body, maxQRBytes))
	if err != nil {
		return domain.QRCode{}, fmt.Errorf("fetch qr code: %w", err)
	}
	if len(png) == 0 {
		return domain.QRCode{}, errEmptyQR
	}
	return domain.QRCode{ClusterID: id, PNG: png, Stamp: stamp}, nil
}

// ImportCSV uploads a batch file as multipart form data with a JSON metadata
// part. The response body is optional; anything that is not a JSON object is
// treated as an empty result.
func (c *Client) ImportCSV(ctx context.Context, filename string, r io.Reader, meta domain.ImportMetadata) (domain.ImportResult, error) {
	body, contentType, err := multipartBody(filename, r, meta)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("import csv: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, c.Base+"/processar-csv", body)
	if err != nil {
		return domain.ImportResult{}, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.send(req)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("import csv: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return domain.ImportResult{}, fmt.Errorf("import csv: %w", newStatusError(req, resp))
	}

	var out domain.ImportResult
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("import csv: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		c.Log.Debug("import response is not a JSON object", zap.Error(err))
		return domain.ImportResult{}, nil
	}
	return out, nil
}

// GetCluster fetches a cluster and its per-IMEI details.
func (c *Client) GetCluster(ctx context.Context, id domain.ClusterID) (domain.Cluster, error) {
	u := c.Base + "/api/clusters/" + url.PathEscape(id.String())
	var out domain.Cluster
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return domain.Cluster{}, fmt.Errorf("get cluster %s: %w", id, err)
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := c.newRequest(ctx, method, u, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return newStatusError(req, resp)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(skipWarningHeader, "true")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	start := c.now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.Log.Debug("api request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Error(err))
		return nil, err
	}
	c.Log.Debug("api request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", c.now().Sub(start)))
	return resp, nil
}

func multipartBody(filename string, r io.Reader, meta domain.ImportMetadata) (io.Reader, string, error) {
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(filename)))
	h.Set("Content-Type", uploadContentType(filename))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", err
	}

	m, err := json.Marshal(meta)
	if err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("metadata", string(m)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

func uploadContentType(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".zip") {
		return "application/zip"
	}
	return "text/csv"
}
