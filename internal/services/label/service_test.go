package label_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/domain"
	"warehouse/internal/services/label"
	"warehouse/internal/store"
	"warehouse/internal/validation"
)

type fakeAPI struct {
	created  []domain.CreateClusterRequest
	uploaded string
	meta     domain.ImportMetadata
	result   domain.ImportResult
	qrErr    error
}

func (f *fakeAPI) CreateCluster(_ context.Context, req domain.CreateClusterRequest) (domain.Cluster, error) {
	f.created = append(f.created, req)
	return domain.Cluster{ID: "10", Name: req.Name}, nil
}

func (f *fakeAPI) FetchQRCode(_ context.Context, id domain.ClusterID) (domain.QRCode, error) {
	if f.qrErr != nil {
		return domain.QRCode{}, f.qrErr
	}
	return domain.QRCode{ClusterID: id, PNG: []byte("png-" + id.String())}, nil
}

func (f *fakeAPI) ImportCSV(_ context.Context, _ string, r io.Reader, meta domain.ImportMetadata) (domain.ImportResult, error) {
	b, _ := io.ReadAll(r)
	f.uploaded = string(b)
	f.meta = meta
	return f.result, nil
}

func (f *fakeAPI) GetCluster(context.Context, domain.ClusterID) (domain.Cluster, error) {
	return domain.Cluster{}, errors.New("not used")
}

func TestCreate_NormalizesAndJournals(t *testing.T) {
	api := &fakeAPI{}
	journal := store.NewJournalFileStore(t.TempDir())
	svc := label.New(api, journal, nil)

	c, err := svc.Create(context.Background(), "", domain.CreateClusterRequest{
		Name:  "Pallet 7",
		IMEIs: []string{"49015420-3237518"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ClusterID("10"), c.ID)
	require.Len(t, api.created, 1)
	assert.Equal(t, []string{"490154203237518"}, api.created[0].IMEIs)

	e, ok, err := journal.Find("", "10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.SourceManual, e.Source)
	assert.Equal(t, "Pallet 7", e.Name)
}

func TestCreate_InvalidNeverCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	svc := label.New(api, nil, nil)

	_, err := svc.Create(context.Background(), "", domain.CreateClusterRequest{
		Name:  "Pallet 7",
		IMEIs: []string{"490154203237519"},
	})
	var verrs *validation.Errors
	require.True(t, errors.As(err, &verrs))
	assert.Empty(t, api.created)

	_, err = svc.Create(context.Background(), "", domain.CreateClusterRequest{IMEIs: []string{"490154203237518"}})
	require.Error(t, err)
	assert.Empty(t, api.created)
}

func TestQRCode(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "labels")
	svc := label.New(&fakeAPI{}, nil, nil)

	path, err := svc.QRCode(context.Background(), "a/b", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "qr-cluster-a_b.png"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-a/b", string(b))

	_, err = svc.QRCode(context.Background(), " ", dir)
	assert.ErrorIs(t, err, label.ErrNoCluster)
}

func TestImport_WithQRAndJournal(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("imei\n490154203237518\n"), 0o600))

	api := &fakeAPI{result: domain.ImportResult{Message: "ok", ClusterID: "77"}}
	journal := store.NewJournalFileStore(dir)
	svc := label.New(api, journal, nil)

	out, err := svc.Import(context.Background(), "", domain.ImportRequest{
		Path: csvPath, Name: "Lote", Description: "d", FetchQR: true, OutDir: dir,
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out.Result.Text())
	assert.Equal(t, filepath.Join(dir, "qr-cluster-77.png"), out.QRPath)
	assert.NoError(t, out.QRErr)

	assert.Equal(t, "imei\n490154203237518\n", api.uploaded)
	assert.True(t, api.meta.AutoCreateCluster)
	assert.Equal(t, "Lote", api.meta.ClusterName)
	assert.Equal(t, "d", api.meta.ClusterDescription)

	e, ok, err := journal.Find("", "77")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.SourceCSV, e.Source)
	assert.Equal(t, out.QRPath, e.QRPath)
}

func TestImport_QRFailureDoesNotFail(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("490154203237518\n"), 0o600))

	api := &fakeAPI{result: domain.ImportResult{ClusterID: "77"}, qrErr: errors.New("boom")}
	out, err := label.New(api, nil, nil).Import(context.Background(), "", domain.ImportRequest{
		Path: csvPath, Name: "Lote", FetchQR: true, OutDir: dir,
	})
	require.NoError(t, err)
	assert.Error(t, out.QRErr)
	assert.Empty(t, out.QRPath)
	assert.Equal(t, domain.DefaultImportMessage, out.Result.Text())
}

func TestImport_RequiresName(t *testing.T) {
	_, err := label.New(&fakeAPI{}, nil, nil).Import(context.Background(), "", domain.ImportRequest{Path: "x.csv"})
	assert.ErrorIs(t, err, label.ErrNameRequired)
}

func TestLint(t *testing.T) {
	in := strings.Join([]string{
		"\uFEFFIMEI;Modelo",
		"490154203237518;X1",
		"490154203237519;X1",
		"",
		"356938035643809;X2",
		"490154203237518;X1",
		" ;blank",
	}, "\n")

	rep, err := label.Lint(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []label.Row{{Line: 2, Value: "490154203237518"}, {Line: 5, Value: "356938035643809"}}, rep.Valid)
	assert.Equal(t, []label.Row{{Line: 3, Value: "490154203237519"}}, rep.Invalid)
	assert.Equal(t, []label.Row{{Line: 6, Value: "490154203237518"}}, rep.Duplicates)
	assert.False(t, rep.OK())
}

func TestLint_NoHeaderCommaSeparated(t *testing.T) {
	rep, err := label.Lint(strings.NewReader("490154203237518,a\n356938035643809,b\n"))
	require.NoError(t, err)
	assert.Len(t, rep.Valid, 2)
	assert.True(t, rep.OK())
}
