package resource

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"DueReportSaas/internal/config"
	"DueReportSaas/internal/logger"

	"github.com/google/uuid"
)

// Artifact is a generated report workbook waiting to be downloaded.
type Artifact struct {
	ID        string
	Owner     string
	FileName  string
	Data      []byte
	Checksum  string
	CreatedAt time.Time
}

// ResourceManager is the short-lived download spool. Artifacts older than
// the TTL are dropped by Sweep; nothing is persisted.
type ResourceManager struct {
	resources         map[string]*Artifact
	mu                sync.RWMutex
	stopChan          chan struct{}
	heartbeatInterval time.Duration
	ttl               time.Duration
	now               func() time.Time
}

func NewResourceManager(cfg map[string]interface{}) *ResourceManager {
	return &ResourceManager{
		resources:         make(map[string]*Artifact),
		stopChan:          make(chan struct{}),
		heartbeatInterval: config.Duration(cfg, "heartbeat_interval", config.DefaultHeartbeatInterval),
		ttl:               config.Duration(cfg, "spool_ttl", config.DefaultSpoolTTL),
		now:               time.Now,
	}
}

func (rm *ResourceManager) Name() string { return "resourcemanager" }

func (rm *ResourceManager) Start() error {
	logger.Audit(fmt.Sprintf("ResourceManager started, spool ttl %s", rm.ttl))
	go rm.heartbeatLoop()
	return nil
}

func (rm *ResourceManager) Stop() error {
	close(rm.stopChan)
	return nil
}

func (rm *ResourceManager) heartbeatLoop() {
	ticker := time.NewTicker(rm.heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-rm.stopChan:
			return
		case <-ticker.C:
			logger.Default().WithField("artifacts", rm.Len()).Debug("ResourceManager: heartbeat")
		}
	}
}

// TTL is how long an artifact stays downloadable.
func (rm *ResourceManager) TTL() time.Duration { return rm.ttl }

// AddResource stores a, assigning an ID and creation time when unset, and returns its ID.
func (rm *ResourceManager) AddResource(a *Artifact) string {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = rm.now()
	}
	rm.resources[a.ID] = a
	return a.ID
}

// GetResource returns an unexpired artifact.
func (rm *ResourceManager) GetResource(id string) (*Artifact, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	a, exists := rm.resources[id]
	if !exists || rm.expired(a) {
		return nil, false
	}
	return a, true
}

func (rm *ResourceManager) RemoveResource(id string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	delete(rm.resources, id)
}

// ListResources returns the IDs of artifacts owned by owner, oldest first.
// An empty owner lists every artifact.
func (rm *ResourceManager) ListResources(owner string) []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	list := make([]*Artifact, 0, len(rm.resources))
	for _, a := range rm.resources {
		if owner == "" || a.Owner == owner {
			list = append(list, a)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	ids := make([]string, len(list))
	for i, a := range list {
		ids[i] = a.ID
	}
	return ids
}

func (rm *ResourceManager) Len() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.resources)
}

// Sweep drops expired artifacts and returns how many were removed.
func (rm *ResourceManager) Sweep() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	removed := 0
	for id, a := range rm.resources {
		if rm.expired(a) {
			delete(rm.resources, id)
			removed++
		}
	}
	return removed
}

func (rm *ResourceManager) expired(a *Artifact) bool {
	return rm.ttl > 0 && rm.now().Sub(a.CreatedAt) > rm.ttl
}
