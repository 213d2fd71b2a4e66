package mockapi_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/api"
	"warehouse/internal/domain"
	"warehouse/internal/mockapi"
)

const (
	goodIMEI  = "490154203237518"
	otherIMEI = "356938035643809"
)

func newClient(t *testing.T) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(mockapi.New("https://labels.example", nil))
	t.Cleanup(srv.Close)
	return api.New(srv.URL, "", srv.Client(), nil), srv
}

func TestCreateThenGet(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	created, err := c.CreateCluster(ctx, domain.CreateClusterRequest{
		Name:        "Pallet 7",
		Description: "dock B",
		IMEIs:       []string{goodIMEI, otherIMEI},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClusterID("1"), created.ID)
	assert.Equal(t, 2, created.TotalIMEIs)

	got, err := c.GetCluster(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pallet 7", got.Name)
	assert.Equal(t, "dock B", got.Description)
	assert.Contains(t, got.Details, goodIMEI)
	assert.Contains(t, got.Details, otherIMEI)
}

func TestCreate_InvalidIMEI(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.CreateCluster(context.Background(), domain.CreateClusterRequest{
		Name:  "x",
		IMEIs: []string{"490154203237519"},
	})
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
	assert.Contains(t, se.Message, "490154203237519")
}

func TestCreate_BlankName(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.CreateCluster(context.Background(), domain.CreateClusterRequest{
		Name:  "  ",
		IMEIs: []string{goodIMEI},
	})
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
}

func TestGetCluster_NotFound(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.GetCluster(context.Background(), "99")
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.NotFound())
	assert.Equal(t, "cluster não encontrado", se.Message)
}

func TestQRCode(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	created, err := c.CreateCluster(ctx, domain.CreateClusterRequest{Name: "a", IMEIs: []string{goodIMEI}})
	require.NoError(t, err)

	qr, err := c.FetchQRCode(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(qr.PNG, []byte("\x89PNG\r\n\x1a\n")))

	_, err = c.FetchQRCode(ctx, "42")
	assert.Error(t, err)
}

func TestImportCSV_AutoCreate(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	csv := "IMEI;Modelo;Status;Fabricante\n" +
		goodIMEI + ";X1;ATIVO;ACME\n" +
		goodIMEI + ";X1;ATIVO;ACME\n" +
		"123;bad;;\n" +
		otherIMEI + ";Z9;INATIVO;Other\n"
	res, err := c.ImportCSV(ctx, "batch.csv", strings.NewReader(csv), domain.ImportMetadata{
		AutoCreateCluster: true,
		ClusterName:       "Lote 3",
	})
	require.NoError(t, err)
	assert.Equal(t, "2 IMEIs processados, 1 inválidos", res.Text())
	require.NotEmpty(t, res.ClusterID)
	assert.Equal(t, "Lote 3", res.ClusterName)

	got, err := c.GetCluster(ctx, res.ClusterID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalIMEIs)
	assert.Equal(t, "X1", got.Details[goodIMEI].Model)
	assert.Equal(t, "INATIVO", got.Details[otherIMEI].Status)
}

func TestImportCSV_WithoutAutoCreate(t *testing.T) {
	c, _ := newClient(t)

	res, err := c.ImportCSV(context.Background(), "batch.csv", strings.NewReader(goodIMEI+"\n"), domain.ImportMetadata{})
	require.NoError(t, err)
	assert.Empty(t, res.ClusterID)
}

func TestImportCSV_Zip(t *testing.T) {
	c, _ := newClient(t)

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	f, err := zw.Create("lote/a.csv")
	require.NoError(t, err)
	_, _ = io.WriteString(f, goodIMEI+"\n")
	f, err = zw.Create("readme.txt")
	require.NoError(t, err)
	_, _ = io.WriteString(f, "ignored")
	require.NoError(t, zw.Close())

	res, err := c.ImportCSV(context.Background(), "lote.zip", buf, domain.ImportMetadata{AutoCreateCluster: true})
	require.NoError(t, err)
	assert.Equal(t, "lote", res.ClusterName)
}

func TestImportCSV_NothingValid(t *testing.T) {
	c, _ := newClient(t)

	_, err := c.ImportCSV(context.Background(), "batch.csv", strings.NewReader("imei\n123\n"), domain.ImportMetadata{})
	var se *api.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	c, srv := newClient(t)
	_, _ = c.GetCluster(context.Background(), "1")

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(b), `mockapi_http_requests_total{handler="get_cluster",method="GET",status="404"} 1`)
}
