package coordination

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	instancesKey = "instances"

	// activityWindow is how recent a heartbeat must be for an instance to
	// count as active.
	activityWindow = 60 * time.Second
)

// InstanceRegistry tracks active server instances in Redis. Each instance
// sends periodic heartbeats to a shared hash; instances without a heartbeat
// inside the activity window are considered inactive.
type InstanceRegistry struct {
	rdb        *redis.Client
	instanceID string
	heartbeat  time.Duration
	version    string
	debates    func() int
}

// InstanceInfo holds metadata about an instance.
type InstanceInfo struct {
	InstanceID string `json:"instance_id"`
	Timestamp  int64  `json:"timestamp"`
	Version    string `json:"version"`
	Debates    int    `json:"debates"`
}

// NewInstanceRegistry creates an instance registry. instanceID should be
// unique per instance; debates reports the instance's live session count
// and may be nil.
func NewInstanceRegistry(rdb *redis.Client, instanceID string, heartbeat time.Duration, version string, debates func() int) *InstanceRegistry {
	return &InstanceRegistry{
		rdb:        rdb,
		instanceID: instanceID,
		heartbeat:  heartbeat,
		version:    version,
		debates:    debates,
	}
}

// Start registers immediately, then heartbeats on the ticker interval.
// Blocks until ctx is cancelled, then unregisters and returns.
func (r *InstanceRegistry) Start(ctx context.Context) {
	r.register(ctx)

	ticker := time.NewTicker(r.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.register(ctx)
		case <-ctx.Done():
			r.unregister()
			return
		}
	}
}

func (r *InstanceRegistry) register(ctx context.Context) {
	info := InstanceInfo{
		InstanceID: r.instanceID,
		Timestamp:  time.Now().Unix(),
		Version:    r.version,
	}
	if r.debates != nil {
		info.Debates = r.debates()
	}

	data, err := json.Marshal(info)
	if err != nil {
		return
	}

	r.rdb.HSet(ctx, instancesKey, r.instanceID, data)
}

// unregister removes this instance from the registry on graceful shutdown.
func (r *InstanceRegistry) unregister() {
	r.rdb.HDel(context.Background(), instancesKey, r.instanceID)
}

// ActiveInstances returns the instances with a heartbeat inside the
// activity window.
func (r *InstanceRegistry) ActiveInstances(ctx context.Context) ([]InstanceInfo, error) {
	instances, err := r.rdb.HGetAll(ctx, instancesKey).Result()
	if err != nil {
		return nil, err
	}

	infos := []InstanceInfo{}
	now := time.Now().Unix()

	for _, data := range instances {
		var info InstanceInfo
		if err := json.Unmarshal([]byte(data), &info); err != nil {
			continue
		}
		if now-info.Timestamp < int64(activityWindow.Seconds()) {
			infos = append(infos, info)
		}
	}

	return infos, nil
}
