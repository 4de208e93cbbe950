package infinibox

import (
	"time"

	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

// Payloads of the array REST API.

type volumeItem struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Size           int64  `json:"size"`
	Type           string `json:"type"`
	Provtype       string `json:"provtype"`
	PoolID         int64  `json:"pool_id"`
	WriteProtected bool   `json:"write_protected"`
	ParentID       int64  `json:"parent_id"`
	HasChildren    bool   `json:"has_children"`
	Mapped         bool   `json:"mapped"`
	CreatedAt      int64  `json:"created_at"` // milliseconds
}

func (v *volumeItem) toVolume() *storage.Volume {
	vol := &storage.Volume{
		ID:             v.ID,
		Name:           v.Name,
		Size:           v.Size,
		Type:           v.Type,
		ProvType:       v.Provtype,
		PoolID:         v.PoolID,
		WriteProtected: v.WriteProtected,
		ParentID:       v.ParentID,
		HasChildren:    v.HasChildren,
		Mapped:         v.Mapped,
	}
	if v.CreatedAt > 0 {
		vol.CreatedAt = time.Unix(0, v.CreatedAt*int64(time.Millisecond))
	}
	return vol
}

type hostPort struct {
	Type    string `json:"type"`
	Address string `json:"address"`
}

type hostItem struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Ports []hostPort `json:"ports"`
}

func (h *hostItem) toHost() *storage.Host {
	host := &storage.Host{ID: h.ID, Name: h.Name}
	for _, p := range h.Ports {
		if p.Type == "FC" {
			host.WWPNs = append(host.WWPNs, p.Address)
		}
	}
	return host
}

type lunItem struct {
	ID        int64 `json:"id"`
	Lun       int64 `json:"lun"`
	HostID    int64 `json:"host_id"`
	VolumeID  int64 `json:"volume_id"`
	Clustered bool  `json:"clustered"`
}

func (l *lunItem) toMapping() storage.LunMapping {
	return storage.LunMapping{HostID: l.HostID, VolumeID: l.VolumeID, Lun: l.Lun}
}

type poolItem struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	PhysicalCapacity  int64  `json:"physical_capacity"`
	FreePhysicalSpace int64  `json:"free_physical_space"`
}

type systemItem struct {
	Name    string `json:"name"`
	Serial  int64  `json:"serial"`
	Version string `json:"version"`
}

type metadataItem struct {
	ID       int64  `json:"id"`
	ObjectID int64  `json:"object_id"`
	Key      string `json:"key"`
	Value    string `json:"value"`
}

type fcPort struct {
	WWPN      string `json:"wwpn"`
	LinkState string `json:"link_state"`
	Enabled   bool   `json:"enabled"`
	Role      string `json:"role"`
}

type nodeItem struct {
	ID      int64    `json:"id"`
	FCPorts []fcPort `json:"fc_ports"`
}
