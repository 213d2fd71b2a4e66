package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ClusterID identifies a cluster on the external API. The API returns it as
// either a JSON string or a JSON number.
type ClusterID string

// String returns the string form of the identifier.
func (id ClusterID) String() string { return string(id) }

// UnmarshalJSON accepts both "12" and 12.
func (id *ClusterID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ClusterID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ClusterID(n.String())
	return nil
}

// IMEIDetail is what the API knows about one device in a cluster.
type IMEIDetail struct {
	IMEI         string `json:"imei"`
	Model        string `json:"modelo,omitempty"`
	Status       string `json:"status,omitempty"`
	Manufacturer string `json:"fabricante,omitempty"`
}

// Cluster groups one or more IMEIs under a name and description.
type Cluster struct {
	ID          ClusterID             `json:"id"`
	Name        string                `json:"nome,omitempty"`
	AltName     string                `json:"cluster_nome,omitempty"`
	Description string                `json:"descricao,omitempty"`
	TotalIMEIs  int                   `json:"total_imeis,omitempty"`
	Details     map[string]IMEIDetail `json:"detalhes_imeis,omitempty"`
}

// CreateClusterRequest is the operator input for a new cluster.
type CreateClusterRequest struct {
	Name        string   `json:"nome" validate:"notblank,max=120"`
	Description string   `json:"descricao" validate:"max=500"`
	IMEIs       []string `json:"imeis" validate:"min=1,dive,imei"`
}

// ImportMetadata travels next to an uploaded CSV file.
type ImportMetadata struct {
	AutoCreateCluster  bool   `json:"criar_cluster_automatico"`
	ClusterName        string `json:"nome_cluster"`
	ClusterDescription string `json:"descricao_cluster"`
}

// ImportResult is the API's answer to a CSV upload. Every field is optional.
type ImportResult struct {
	Message     string    `json:"mensagem,omitempty"`
	MessageEN   string    `json:"message,omitempty"`
	ClusterID   ClusterID `json:"cluster_id,omitempty"`
	ClusterName string    `json:"cluster_nome,omitempty"`
}

// DefaultImportMessage is reported when the API does not say anything.
const DefaultImportMessage = "CSV processado com sucesso"

// Text returns the message to show the operator.
func (r ImportResult) Text() string {
	switch {
	case r.Message != "":
		return r.Message
	case r.MessageEN != "":
		return r.MessageEN
	default:
		return DefaultImportMessage
	}
}

// QRCode is a downloaded cluster label image.
type QRCode struct {
	ClusterID ClusterID
	PNG       []byte
	Stamp     string // cache-busting token used for the request
}

// Source records how a journaled cluster was created.
type Source string

const (
	SourceManual Source = "manual"
	SourceCSV    Source = "csv"
)

// JournalEntry is the local record of a cluster this client created.
type JournalEntry struct {
	ID          string    `json:"id"`
	ClusterID   ClusterID `json:"cluster_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IMEIs       []string  `json:"imeis,omitempty"`
	Source      Source    `json:"source"`
	QRPath      string    `json:"qr_path,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
