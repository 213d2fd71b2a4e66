package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warehouse/internal/domain"
	"warehouse/internal/scan"
)

func TestClusterID(t *testing.T) {
	cases := map[string]domain.ClusterID{
		"https://api.example.com/clusters/15/qrcode": "15",
		"http://host/clusters/abc-1/":                "abc-1",
		"http://host/clusters/abc-1?x=1":             "abc-1",
		`{"id": 9}`:                                  "9",
		`{"cluster_id": "c-3"}`:                      "c-3",
		`{"id": "", "cluster_id": 4}`:                "4",
		`"12"`:                                       "12",
		"77":                                         "77",
		"  lote-9  ":                                 "lote-9",
		"not json {":                                 "not json {",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			got, err := scan.ClusterID(in)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestClusterID_Errors(t *testing.T) {
	_, err := scan.ClusterID("   ")
	assert.ErrorIs(t, err, scan.ErrEmpty)

	_, err = scan.ClusterID(`{"nome": "x"}`)
	assert.ErrorIs(t, err, scan.ErrInvalidID)

	_, err = scan.ClusterID(`""`)
	assert.ErrorIs(t, err, scan.ErrInvalidID)
}
