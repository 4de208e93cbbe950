// Package fake provides an in-memory InfiniBox array for tests.
package fake

import (
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

const (
	metadataInitiatorIQN  = "iscsi_host_iqn"
	metadataGatewayIQN    = "iscsi_manager_iqn"
	metadataGatewayPortal = "iscsi_manager_portal"
)

// apiStatus mimics the error the REST client returns so that errors pass
// through the same translation as in production.
type apiStatus struct {
	status  int
	code    string
	message string
}

func (e *apiStatus) Error() string        { return fmt.Sprintf("%d %s: %s", e.status, e.code, e.message) }
func (e *apiStatus) HTTPStatus() int      { return e.status }
func (e *apiStatus) ErrorCode() string    { return e.code }
func (e *apiStatus) ErrorMessage() string { return e.message }

func apiError(op string, status int, code string, format string, args ...interface{}) error {
	return errors.WrapVendorError(op, &apiStatus{status: status, code: code, message: fmt.Sprintf(format, args...)})
}

type pendingAck struct {
	gatewayID int64
	reads     int
}

// Array is an in-memory storage.IArray. The zero value is not usable, use NewArray.
type Array struct {
	lock sync.Mutex

	nextID   int64
	system   storage.System
	pools    map[int64]*storage.Pool
	volumes  map[int64]*storage.Volume
	hosts    map[int64]*storage.Host
	metadata map[int64]map[string]string
	luns     map[int64]map[int64]int64 // host id -> volume id -> lun

	// FCTargets is returned by GetFCTargetAddresses.
	FCTargets []string

	servingGateway int64
	ackAfterReads  int
	pending        map[int64][]pendingAck
	now            func() time.Time
}

// NewArray create an array with a single pool of the given capacity in bytes.
func NewArray(poolID int64, poolName string, capacity int64) *Array {
	a := &Array{
		nextID:   1000,
		system:   storage.System{Name: "ibox1234", Serial: 1234, Version: "3.0.0.3"},
		pools:    map[int64]*storage.Pool{},
		volumes:  map[int64]*storage.Volume{},
		hosts:    map[int64]*storage.Host{},
		metadata: map[int64]map[string]string{},
		luns:     map[int64]map[int64]int64{},
		pending:  map[int64][]pendingAck{},
		now:      time.Now,
	}
	a.pools[poolID] = &storage.Pool{ID: poolID, Name: poolName, PhysicalCapacity: capacity, FreePhysical: capacity}
	return a
}

func (a *Array) newID() int64 {
	a.nextID++
	return a.nextID
}

// SetVersion change the version the array reports.
func (a *Array) SetVersion(version string) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.system.Version = version
}

// AddGateway register an iSCSI gateway host advertising iqn and portal.
func (a *Array) AddGateway(name, iqn, portal string) *storage.Host {
	host := a.addHost(name)
	a.lock.Lock()
	defer a.lock.Unlock()
	a.metadata[host.ID] = map[string]string{metadataGatewayIQN: iqn, metadataGatewayPortal: portal}
	return host
}

// RegisterInitiator create a host the way the gateway tier does for an iSCSI initiator.
func (a *Array) RegisterInitiator(name, iqn string) *storage.Host {
	host := a.addHost(name)
	a.lock.Lock()
	defer a.lock.Unlock()
	a.metadata[host.ID] = map[string]string{metadataInitiatorIQN: iqn}
	return host
}

// ServeISCSI choose the gateway answering map and unmap requests on iSCSI
// initiator hosts. The gateway bumps its change counter on the host after
// afterReads metadata reads of that host. A zero gateway never answers.
func (a *Array) ServeISCSI(gatewayID int64, afterReads int) {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.servingGateway = gatewayID
	a.ackAfterReads = afterReads
}

func (a *Array) addHost(name string) *storage.Host {
	a.lock.Lock()
	defer a.lock.Unlock()
	host := &storage.Host{ID: a.newID(), Name: name}
	a.hosts[host.ID] = host
	a.metadata[host.ID] = map[string]string{}
	return host
}

func counterKey(gatewayID int64) string {
	return "iscsi_host_" + strconv.FormatInt(gatewayID, 10) + "_change_counter"
}

func (a *Array) bumpCounter(hostID, gatewayID int64) {
	md := a.metadata[hostID]
	if md == nil {
		return
	}
	n, _ := strconv.ParseInt(md[counterKey(gatewayID)], 10, 64)
	md[counterKey(gatewayID)] = strconv.FormatInt(n+1, 10)
}

// gatewayEvent is called with the lock held after a map or unmap on hostID.
func (a *Array) gatewayEvent(hostID int64) {
	if a.servingGateway == 0 || a.metadata[hostID][metadataInitiatorIQN] == "" {
		return
	}
	if a.ackAfterReads <= 0 {
		a.bumpCounter(hostID, a.servingGateway)
		return
	}
	a.pending[hostID] = append(a.pending[hostID], pendingAck{gatewayID: a.servingGateway, reads: a.ackAfterReads})
}

func copyVolume(v *storage.Volume) *storage.Volume {
	c := *v
	return &c
}

func (a *Array) GetSystem() (*storage.System, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	s := a.system
	return &s, nil
}

func (a *Array) GetPool(id int64) (*storage.Pool, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	pool, ok := a.pools[id]
	if !ok {
		return nil, apiError("get pool", 404, "POOL_NOT_FOUND", "pool %d not found", id)
	}
	p := *pool
	return &p, nil
}

func (a *Array) volumeByName(name string) *storage.Volume {
	for _, v := range a.volumes {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func (a *Array) CreateVolume(name string, size int64, poolID int64, provType string) (*storage.Volume, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	pool, ok := a.pools[poolID]
	if !ok {
		return nil, apiError("create volume", 404, "POOL_NOT_FOUND", "pool %d not found", poolID)
	}
	if a.volumeByName(name) != nil {
		return nil, apiError("create volume", 409, "VOLUME_NAME_CONFLICT", "volume %s exists", name)
	}
	if size <= 0 || size > pool.FreePhysical {
		return nil, apiError("create volume", 409, "POOL_OUT_OF_SPACE", "no room for %d bytes", size)
	}

	pool.FreePhysical -= size
	v := &storage.Volume{
		ID:        a.newID(),
		Name:      name,
		Size:      size,
		Type:      storage.VolumeTypeMaster,
		ProvType:  provType,
		PoolID:    poolID,
		CreatedAt: a.now(),
	}
	a.volumes[v.ID] = v
	a.metadata[v.ID] = map[string]string{}
	return copyVolume(v), nil
}

func (a *Array) GetVolume(id int64) (*storage.Volume, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	v, ok := a.volumes[id]
	if !ok {
		return nil, apiError("get volume", 404, "VOLUME_NOT_FOUND", "volume %d not found", id)
	}
	return copyVolume(v), nil
}

func (a *Array) FindVolumeByName(name string) (*storage.Volume, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	v := a.volumeByName(name)
	if v == nil {
		return nil, errors.NotFoundError("volume %s not found", name)
	}
	return copyVolume(v), nil
}

func (a *Array) children(parentID int64) []*storage.Volume {
	var children []*storage.Volume
	for _, v := range a.volumes {
		if v.ParentID == parentID {
			children = append(children, v)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].ID < children[j].ID })
	return children
}

func (a *Array) ListChildren(parentID int64) ([]storage.Volume, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	result := []storage.Volume{}
	for _, v := range a.children(parentID) {
		result = append(result, *v)
	}
	return result, nil
}

func (a *Array) isMapped(volumeID int64) bool {
	for _, luns := range a.luns {
		if _, ok := luns[volumeID]; ok {
			return true
		}
	}
	return false
}

// DeleteVolume delete a volume that is neither mapped nor has snapshots or
// clones, like the array does.
func (a *Array) DeleteVolume(id int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	v, ok := a.volumes[id]
	if !ok {
		return apiError("delete volume", 404, "VOLUME_NOT_FOUND", "volume %d not found", id)
	}
	if a.isMapped(v.ID) {
		return apiError("delete volume", 409, "VOLUME_IS_MAPPED", "volume %s is mapped", v.Name)
	}
	if children := a.children(v.ID); len(children) > 0 {
		return apiError("delete volume", 409, "VOLUME_HAS_CHILDREN", "volume %s has %d children", v.Name, len(children))
	}

	if v.Type == storage.VolumeTypeMaster {
		a.pools[v.PoolID].FreePhysical += v.Size
	}
	delete(a.volumes, v.ID)
	delete(a.metadata, v.ID)
	if parent, ok := a.volumes[v.ParentID]; ok {
		parent.HasChildren = len(a.children(parent.ID)) > 0
	}
	return nil
}

func (a *Array) createChild(op string, parentID int64, name string, writeProtected bool) (*storage.Volume, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	parent, ok := a.volumes[parentID]
	if !ok {
		return nil, apiError(op, 404, "VOLUME_NOT_FOUND", "volume %d not found", parentID)
	}
	if a.volumeByName(name) != nil {
		return nil, apiError(op, 409, "VOLUME_NAME_CONFLICT", "volume %s exists", name)
	}

	v := &storage.Volume{
		ID:             a.newID(),
		Name:           name,
		Size:           parent.Size,
		Type:           storage.VolumeTypeSnapshot,
		ProvType:       parent.ProvType,
		PoolID:         parent.PoolID,
		WriteProtected: writeProtected,
		ParentID:       parent.ID,
		CreatedAt:      a.now(),
	}
	parent.HasChildren = true
	a.volumes[v.ID] = v
	a.metadata[v.ID] = map[string]string{}
	return copyVolume(v), nil
}

func (a *Array) CreateSnapshot(parentID int64, name string) (*storage.Volume, error) {
	return a.createChild("create snapshot", parentID, name, true)
}

func (a *Array) CreateClone(snapshotID int64, name string) (*storage.Volume, error) {
	return a.createChild("create clone", snapshotID, name, false)
}

func (a *Array) ResizeVolume(id int64, size int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	v, ok := a.volumes[id]
	if !ok {
		return apiError("resize volume", 404, "VOLUME_NOT_FOUND", "volume %d not found", id)
	}
	if v.Type != storage.VolumeTypeMaster {
		return apiError("resize volume", 409, "NOT_MASTER_VOLUME", "volume %s is not a master", v.Name)
	}
	if size < v.Size {
		return apiError("resize volume", 409, "VOLUME_SIZE_DECREASE", "volume %s can not shrink", v.Name)
	}
	pool := a.pools[v.PoolID]
	if size-v.Size > pool.FreePhysical {
		return apiError("resize volume", 409, "POOL_OUT_OF_SPACE", "no room to grow %s", v.Name)
	}
	pool.FreePhysical -= size - v.Size
	v.Size = size
	return nil
}

func (a *Array) GetMetadata(objectID int64) (map[string]string, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	md, ok := a.metadata[objectID]
	if !ok {
		return nil, apiError("get metadata", 404, "OBJECT_NOT_FOUND", "object %d not found", objectID)
	}

	acks := a.pending[objectID]
	remaining := acks[:0]
	for _, ack := range acks {
		ack.reads--
		if ack.reads <= 0 {
			a.bumpCounter(objectID, ack.gatewayID)
			continue
		}
		remaining = append(remaining, ack)
	}
	a.pending[objectID] = remaining

	result := make(map[string]string, len(md))
	for k, v := range md {
		result[k] = v
	}
	return result, nil
}

// SetMetadata merge metadata into the object's, an empty value removes the key.
func (a *Array) SetMetadata(objectID int64, metadata map[string]string) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	md, ok := a.metadata[objectID]
	if !ok {
		return apiError("set metadata", 404, "OBJECT_NOT_FOUND", "object %d not found", objectID)
	}
	for k, v := range metadata {
		md[k] = v
	}
	return nil
}

func (a *Array) CreateHost(name string) (*storage.Host, error) {
	a.lock.Lock()
	for _, h := range a.hosts {
		if h.Name == name {
			a.lock.Unlock()
			return nil, apiError("create host", 409, "HOST_NAME_CONFLICT", "host %s exists", name)
		}
	}
	a.lock.Unlock()

	host := a.addHost(name)
	c := *host
	return &c, nil
}

func copyHost(h *storage.Host) *storage.Host {
	c := *h
	c.WWPNs = append([]string(nil), h.WWPNs...)
	return &c
}

func (a *Array) GetHost(id int64) (*storage.Host, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	h, ok := a.hosts[id]
	if !ok {
		return nil, apiError("get host", 404, "HOST_NOT_FOUND", "host %d not found", id)
	}
	return copyHost(h), nil
}

func (a *Array) FindHostByName(name string) (*storage.Host, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	for _, h := range a.hosts {
		if h.Name == name {
			return copyHost(h), nil
		}
	}
	return nil, errors.NotFoundError("host %s not found", name)
}

func (a *Array) ListHosts() ([]storage.Host, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	hosts := []storage.Host{}
	for _, h := range a.hosts {
		hosts = append(hosts, *copyHost(h))
	}
	sort.Slice(hosts, func(i, j int) bool { return hosts[i].ID < hosts[j].ID })
	return hosts, nil
}

func (a *Array) DeleteHost(id int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.hosts[id]; !ok {
		return apiError("delete host", 404, "HOST_NOT_FOUND", "host %d not found", id)
	}
	if len(a.luns[id]) > 0 {
		return apiError("delete host", 409, "HOST_NOT_EMPTY", "host %d has luns", id)
	}
	delete(a.hosts, id)
	delete(a.metadata, id)
	delete(a.luns, id)
	delete(a.pending, id)
	return nil
}

func (a *Array) AddHostFCPort(hostID int64, wwpn string) error {
	a.lock.Lock()
	defer a.lock.Unlock()
	h, ok := a.hosts[hostID]
	if !ok {
		return apiError("add port", 404, "HOST_NOT_FOUND", "host %d not found", hostID)
	}
	for _, other := range a.hosts {
		for _, p := range other.WWPNs {
			if p == wwpn {
				return apiError("add port", 409, "PORT_ALREADY_BELONGS_TO_HOST", "port %s belongs to %s", wwpn, other.Name)
			}
		}
	}
	h.WWPNs = append(h.WWPNs, wwpn)
	return nil
}

func (a *Array) MapVolume(hostID int64, volumeID int64) (*storage.LunMapping, error) {
	a.lock.Lock()
	defer a.lock.Unlock()

	if _, ok := a.hosts[hostID]; !ok {
		return nil, apiError("map volume", 404, "HOST_NOT_FOUND", "host %d not found", hostID)
	}
	if _, ok := a.volumes[volumeID]; !ok {
		return nil, apiError("map volume", 404, "VOLUME_NOT_FOUND", "volume %d not found", volumeID)
	}

	luns := a.luns[hostID]
	if luns == nil {
		luns = map[int64]int64{}
		a.luns[hostID] = luns
	}
	if _, ok := luns[volumeID]; ok {
		return nil, apiError("map volume", 409, "VOLUME_ALREADY_MAPPED", "volume %d already mapped", volumeID)
	}

	used := map[int64]bool{}
	for _, lun := range luns {
		used[lun] = true
	}
	lun := int64(1)
	for used[lun] {
		lun++
	}
	luns[volumeID] = lun
	a.volumes[volumeID].Mapped = true

	a.gatewayEvent(hostID)
	return &storage.LunMapping{HostID: hostID, VolumeID: volumeID, Lun: lun}, nil
}

func (a *Array) UnmapVolume(hostID int64, volumeID int64) error {
	a.lock.Lock()
	defer a.lock.Unlock()

	if _, ok := a.luns[hostID][volumeID]; !ok {
		return apiError("unmap volume", 404, "LUN_NOT_FOUND", "volume %d not mapped to host %d", volumeID, hostID)
	}
	delete(a.luns[hostID], volumeID)
	if v, ok := a.volumes[volumeID]; ok {
		v.Mapped = a.isMapped(volumeID)
	}

	a.gatewayEvent(hostID)
	return nil
}

func (a *Array) ListHostLuns(hostID int64) ([]storage.LunMapping, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.hosts[hostID]; !ok {
		return nil, apiError("list luns", 404, "HOST_NOT_FOUND", "host %d not found", hostID)
	}
	mappings := []storage.LunMapping{}
	for volumeID, lun := range a.luns[hostID] {
		mappings = append(mappings, storage.LunMapping{HostID: hostID, VolumeID: volumeID, Lun: lun})
	}
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].Lun < mappings[j].Lun })
	return mappings, nil
}

func (a *Array) ListVolumeLuns(volumeID int64) ([]storage.LunMapping, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.volumes[volumeID]; !ok {
		return nil, apiError("list luns", 404, "VOLUME_NOT_FOUND", "volume %d not found", volumeID)
	}
	mappings := []storage.LunMapping{}
	for hostID, luns := range a.luns {
		if lun, ok := luns[volumeID]; ok {
			mappings = append(mappings, storage.LunMapping{HostID: hostID, VolumeID: volumeID, Lun: lun})
		}
	}
	sort.Slice(mappings, func(i, j int) bool { return mappings[i].HostID < mappings[j].HostID })
	return mappings, nil
}

func (a *Array) GetFCTargetAddresses() ([]string, error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]string(nil), a.FCTargets...), nil
}

// Volumes list every volume, snapshot and clone.
func (a *Array) Volumes() []storage.Volume {
	a.lock.Lock()
	defer a.lock.Unlock()
	result := []storage.Volume{}
	for _, v := range a.volumes {
		result = append(result, *v)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Metadata return a copy of the object's metadata without side effects.
func (a *Array) Metadata(objectID int64) map[string]string {
	a.lock.Lock()
	defer a.lock.Unlock()
	result := map[string]string{}
	for k, v := range a.metadata[objectID] {
		result[k] = v
	}
	return result
}

// Mappings count the LUN mappings of a host.
func (a *Array) Mappings(hostID int64) int {
	a.lock.Lock()
	defer a.lock.Unlock()
	return len(a.luns[hostID])
}

var _ storage.IArray = &Array{}
