package infinibox

import (
	"strings"

	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

//ResourceNamer derive array object names from orchestrator identifiers.
//Lookups are by exact name, so distinct identifiers must give distinct names.
type ResourceNamer struct {
	volumePrefix   string
	snapshotPrefix string
	internalPrefix string
	hostPrefix     string
}

func NewResourceNamer(cfg utils.StorageCfg) *ResourceNamer {
	return &ResourceNamer{
		volumePrefix:   cfg.VolumePrefix,
		snapshotPrefix: cfg.SnapshotPrefix,
		internalPrefix: cfg.InternalSnapshotPrefix,
		hostPrefix:     cfg.HostPrefix,
	}
}

func (n *ResourceNamer) VolumeName(id string) string {
	return n.volumePrefix + id
}

func (n *ResourceNamer) SnapshotName(id string) string {
	return n.snapshotPrefix + id
}

//InternalSnapshotName is the hidden snapshot a clone of volume id is made from.
func (n *ResourceNamer) InternalSnapshotName(id string) string {
	return n.internalPrefix + id
}

//HostName name the host of a fabric endpoint. WWPNs are accepted with or
//without colons and in any case.
func (n *ResourceNamer) HostName(endpointID string) string {
	return n.hostPrefix + NormalizeWWPN(endpointID)
}

//NormalizeWWPN turn "50:01:43:80:..." into "5001438..." lower case.
func NormalizeWWPN(wwpn string) string {
	return strings.ToLower(strings.Replace(strings.TrimSpace(wwpn), ":", "", -1))
}
