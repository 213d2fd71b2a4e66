// Package scan turns text typed by an operator or decoded from a QR label
// into a cluster identifier.
package scan

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"warehouse/internal/domain"
)

var (
	// ErrEmpty is returned for blank input.
	ErrEmpty = errors.New("no data provided for lookup")
	// ErrInvalidID is returned when the input resolves to a blank ID.
	ErrInvalidID = errors.New("invalid cluster id")
)

// QR labels usually carry the cluster URL.
var clusterURLRe = regexp.MustCompile(`clusters/([^/?#]+)/?`)

// ClusterID extracts the cluster identifier from text. It accepts, in order:
// a URL containing "clusters/<id>", a JSON object with "id" or "cluster_id",
// a bare JSON string or number, and finally the raw text itself.
func ClusterID(text string) (domain.ClusterID, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmpty
	}

	id := text
	if m := clusterURLRe.FindStringSubmatch(text); m != nil {
		id = m[1]
	} else if v, ok := fromJSON(text); ok {
		id = v
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrInvalidID
	}
	return domain.ClusterID(id), nil
}

func fromJSON(text string) (string, bool) {
	var obj struct {
		ID        *domain.ClusterID `json:"id"`
		ClusterID *domain.ClusterID `json:"cluster_id"`
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
			return "", false
		}
		switch {
		case obj.ID != nil && *obj.ID != "":
			return obj.ID.String(), true
		case obj.ClusterID != nil && *obj.ClusterID != "":
			return obj.ClusterID.String(), true
		}
		// An object without an id is not an identifier.
		return "", true
	}

	var id domain.ClusterID
	if err := json.Unmarshal([]byte(trimmed), &id); err != nil {
		return "", false
	}
	return id.String(), true
}
