package commands_test

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/cmd/warehouse/commands"
	"warehouse/internal/mockapi"
)

const goodIMEI = "490154203237518"

type harness struct {
	t    *testing.T
	api  string
	home string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	srv := httptest.NewServer(mockapi.New("", nil))
	t.Cleanup(srv.Close)
	return &harness{t: t, api: srv.URL, home: t.TempDir()}
}

func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	root := commands.NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--home", h.home, "--api-url", h.api}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidate_Args(t *testing.T) {
	h := newHarness(t)

	out, _, err := h.run("validate", goodIMEI)
	require.NoError(t, err)
	assert.Contains(t, out, goodIMEI+"\tvalid")

	out, _, err = h.run("validate", "490154203237519", "12345")
	require.Error(t, err)
	assert.Contains(t, out, "check digit should be 8")
	assert.Contains(t, out, "5 digits, want 15")
}

func TestValidate_File(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "batch.csv")
	require.NoError(t, os.WriteFile(path, []byte("imei\n"+goodIMEI+"\n"+goodIMEI+"\n123\n"), 0o600))

	out, _, err := h.run("validate", "--file", path)
	require.Error(t, err)
	assert.Contains(t, out, path+":4: invalid IMEI \"123\"")
	assert.Contains(t, out, "1 valid, 1 invalid, 1 duplicate")
}

func TestCreateQueryHistory(t *testing.T) {
	h := newHarness(t)
	qrDir := t.TempDir()

	out, _, err := h.run("create", "--name", "Pallet 7", "--qr", "--out", qrDir, "4901-5420-3237-518")
	require.NoError(t, err)
	assert.Contains(t, out, "ID: 1")
	assert.FileExists(t, filepath.Join(qrDir, "qr-cluster-1.png"))

	exportDir := t.TempDir()
	out, _, err = h.run("query", "--export", exportDir, h.api+"/clusters/1")
	require.NoError(t, err)
	assert.Contains(t, out, "Pallet 7")
	assert.Contains(t, out, goodIMEI)
	assert.FileExists(t, filepath.Join(exportDir, "Pallet 7.csv"))

	out, _, err = h.run("history")
	require.NoError(t, err)
	assert.Contains(t, out, "Pallet 7")
	assert.Contains(t, out, "manual")

	out, _, err = h.run("history", "1")
	require.NoError(t, err)
	assert.Contains(t, out, goodIMEI)
}

func TestCreate_InvalidIMEIPrintsMessages(t *testing.T) {
	h := newHarness(t)

	_, stderr, err := h.run("create", "--name", "x", "490154203237519")
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid IMEI")
}

func TestImport(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(t.TempDir(), "lote.csv")
	require.NoError(t, os.WriteFile(path, []byte(goodIMEI+"\n"), 0o600))
	qrDir := t.TempDir()

	out, _, err := h.run("-p", "secret", "import", path, "--name", "Lote", "--qr", "--out", qrDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Cluster: 1 (Lote)")
	assert.Contains(t, out, "QR code:")

	out, _, err = h.run("-p", "secret", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "csv")

	_, _, err = h.run("-p", "wrong", "history")
	assert.Error(t, err)
}

func TestQuery_NotFound(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.run("query", "77")
	assert.Error(t, err)
}
