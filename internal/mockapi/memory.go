package mockapi

import (
	"strconv"
	"sync"

	"warehouse/internal/domain"
)

type memoryStore struct {
	mu       sync.RWMutex
	next     int
	clusters map[domain.ClusterID]domain.Cluster
}

func newMemoryStore() *memoryStore {
	return &memoryStore{clusters: make(map[domain.ClusterID]domain.Cluster)}
}

// create stores a new cluster. Details are keyed by IMEI, so a repeated IMEI
// keeps its last row.
func (m *memoryStore) create(name, description string, details []domain.IMEIDetail) domain.Cluster {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	c := domain.Cluster{
		ID:          domain.ClusterID(strconv.Itoa(m.next)),
		Name:        name,
		Description: description,
		Details:     make(map[string]domain.IMEIDetail, len(details)),
	}
	for _, d := range details {
		c.Details[d.IMEI] = d
	}
	c.TotalIMEIs = len(c.Details)
	m.clusters[c.ID] = c
	return c
}

func (m *memoryStore) get(id domain.ClusterID) (domain.Cluster, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clusters[id]
	return c, ok
}
