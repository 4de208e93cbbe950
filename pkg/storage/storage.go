package storage

import "time"

const (
	GiB int64 = 1024 * 1024 * 1024
)

const (
	VolumeTypeMaster   = "MASTER"
	VolumeTypeSnapshot = "SNAPSHOT"

	ProvTypeThick = "THICK"
	ProvTypeThin  = "THIN"
)

//Volume is an array block device, snapshots and clones included.
type Volume struct {
	ID             int64
	Name           string
	Size           int64 // bytes
	Type           string
	ProvType       string
	PoolID         int64
	WriteProtected bool
	ParentID       int64 // 0 when the volume has no parent
	HasChildren    bool
	Mapped         bool
	CreatedAt      time.Time
}

//IsMaster report whether the volume is a master volume, neither a snapshot nor a clone.
func (v *Volume) IsMaster() bool {
	return v.Type == VolumeTypeMaster
}

//Host is the array side identity of a compute host.
type Host struct {
	ID    int64
	Name  string
	WWPNs []string
}

//LunMapping relate a host to a volume.
type LunMapping struct {
	HostID   int64
	VolumeID int64
	Lun      int64
}

//Pool is a storage pool with capacities in bytes.
type Pool struct {
	ID               int64
	Name             string
	PhysicalCapacity int64
	FreePhysical     int64
}

//System describe the array itself.
type System struct {
	Name    string
	Serial  int64
	Version string
}

const (
	HostLinkFC    = "fc"
	HostLinkiSCSI = "iscsi"

	AccessModeRO = "ro"
	AccessModeRW = "rw"
)

// ConnProperty contain the LUN's connect info which is used to search the device on host.
type ConnProperty struct {
	Protocol string /* fc or iscsi */

	VolumeID   int64
	Lun        int64
	AccessMode string

	//fc
	TargetWWNs []string

	//iscsi
	TargetIQN    string
	TargetPortal string
}

//HostInfo keep connect information about a host.
type HostInfo struct {
	Hostname     string
	Platform     string
	AgentVersion string
	Initiator    string
	WWPNs        []string
}

//VolumeSpec describe a volume the orchestrator asks for.
type VolumeSpec struct {
	ID          string
	DisplayName string
	SizeGiB     int64
}

//SnapshotSpec describe a snapshot the orchestrator asks for.
type SnapshotSpec struct {
	ID          string
	VolumeID    string
	DisplayName string
}

//Stats is what the driver reports about its backend.
type Stats struct {
	BackendName        string
	Vendor             string
	Version            string
	Protocol           string
	TotalCapacityGB    float64
	FreeCapacityGB     float64
	ReservedPercentage int
	QoSSupport         bool
}

//IArray define the array API operations the driver consumes.
//Errors returned are kinds from the errors package.
type IArray interface {
	GetSystem() (*System, error)
	GetPool(id int64) (*Pool, error)

	CreateVolume(name string, size int64, poolID int64, provType string) (*Volume, error)
	GetVolume(id int64) (*Volume, error)
	FindVolumeByName(name string) (*Volume, error)
	ListChildren(parentID int64) ([]Volume, error)
	DeleteVolume(id int64) error
	CreateSnapshot(parentID int64, name string) (*Volume, error)
	CreateClone(snapshotID int64, name string) (*Volume, error)
	ResizeVolume(id int64, size int64) error

	GetMetadata(objectID int64) (map[string]string, error)
	SetMetadata(objectID int64, metadata map[string]string) error

	CreateHost(name string) (*Host, error)
	GetHost(id int64) (*Host, error)
	FindHostByName(name string) (*Host, error)
	ListHosts() ([]Host, error)
	DeleteHost(id int64) error
	AddHostFCPort(hostID int64, wwpn string) error

	MapVolume(hostID int64, volumeID int64) (*LunMapping, error)
	UnmapVolume(hostID int64, volumeID int64) error
	ListHostLuns(hostID int64) ([]LunMapping, error)
	ListVolumeLuns(volumeID int64) ([]LunMapping, error)

	GetFCTargetAddresses() ([]string, error)
}

//IVolumeDriver is the set of lifecycle hooks the orchestrator calls.
type IVolumeDriver interface {
	Setup() error
	CheckForSetupError() error

	CreateVolume(spec VolumeSpec) (*Volume, error)
	DeleteVolume(id string) error
	CreateVolumeFromSnapshot(spec VolumeSpec, snapshotID string) (*Volume, error)
	CreateClonedVolume(spec VolumeSpec, sourceID string) (*Volume, error)
	ExtendVolume(id string, newSizeGiB int64) error
	CreateSnapshot(spec SnapshotSpec) (*Volume, error)
	DeleteSnapshot(id string) error

	InitializeConnection(volumeID string, connector HostInfo) (*ConnProperty, error)
	TerminateConnection(volumeID string, connector HostInfo) error

	GetStats(refresh bool) (*Stats, error)
	Migrate(volumeID string, destination string) (bool, error)

	EnsureExport(volumeID string) error
	CreateExport(volumeID string, connector HostInfo) error
	RemoveExport(volumeID string) error

	// GetVolume is used by the frontend to validate requests.
	GetVolume(id string) (*Volume, error)
}
