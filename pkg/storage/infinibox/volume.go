package infinibox

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
)

//VolumeLifecycleManager create and delete volumes, snapshots and clones.
//Parent and child relations are carried only by array metadata.
type VolumeLifecycleManager struct {
	array         storage.IArray
	namer         *ResourceNamer
	tagger        *MetadataTagger
	pools         *PoolResolver
	poolID        int64
	provType      string
	purgeOnDelete bool
}

func NewVolumeLifecycleManager(array storage.IArray, namer *ResourceNamer, tagger *MetadataTagger,
	pools *PoolResolver, poolID int64, provisioning string, purgeOnDelete bool) *VolumeLifecycleManager {
	return &VolumeLifecycleManager{
		array:         array,
		namer:         namer,
		tagger:        tagger,
		pools:         pools,
		poolID:        poolID,
		provType:      strings.ToUpper(provisioning),
		purgeOnDelete: purgeOnDelete,
	}
}

func objectTags(id, displayName string, deleteParent bool) map[string]string {
	return map[string]string{
		MetadataOrchestratorID: id,
		MetadataDisplayName:    displayName,
		MetadataDeleteParent:   boolTag(deleteParent),
	}
}

// existing return the object named name when it was created for id before.
func (m *VolumeLifecycleManager) existing(name string, id string) (*storage.Volume, error) {
	vol, err := m.array.FindVolumeByName(name)
	if errors.IsNotFoundError(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	metadata, err := m.tagger.ReadAll(vol.ID)
	if err != nil {
		return nil, err
	}
	if metadata[MetadataOrchestratorID] != id {
		return nil, errors.InvalidInputError("name %s is already used by object %q", name, metadata[MetadataOrchestratorID])
	}
	return vol, nil
}

// tagOrRollback tag a freshly created object, deleting it when tagging fails.
func (m *VolumeLifecycleManager) tagOrRollback(vol *storage.Volume, tags map[string]string) error {
	err := m.tagger.Tag(vol.ID, tags)
	if err == nil {
		return nil
	}
	if delErr := m.array.DeleteVolume(vol.ID); delErr != nil {
		glog.Errorf("remove untagged object %s failed %s", vol.Name, delErr)
	}
	return err
}

func checkSameSize(spec storage.VolumeSpec, source *storage.Volume) error {
	if spec.SizeGiB*storage.GiB != source.Size {
		return errors.InvalidInputError("volume %s size %s does not match source %s size %s",
			spec.ID, humanize.IBytes(uint64(spec.SizeGiB*storage.GiB)), source.Name, humanize.IBytes(uint64(source.Size)))
	}
	return nil
}

func (m *VolumeLifecycleManager) GetVolume(id string) (*storage.Volume, error) {
	return m.array.FindVolumeByName(m.namer.VolumeName(id))
}

//CreateVolume allocate a volume on the configured pool.
func (m *VolumeLifecycleManager) CreateVolume(spec storage.VolumeSpec) (*storage.Volume, error) {
	name := m.namer.VolumeName(spec.ID)
	size := spec.SizeGiB * storage.GiB
	glog.Infof("CreateVolume, name: %s, size: %s", name, humanize.IBytes(uint64(size)))

	if spec.SizeGiB <= 0 {
		return nil, errors.InvalidInputError("volume %s size must be positive", spec.ID)
	}

	vol, err := m.existing(name, spec.ID)
	if err != nil {
		return nil, err
	}
	if vol != nil {
		if vol.Size != size {
			return nil, errors.InvalidInputError("volume %s exists with size %s", name, humanize.IBytes(uint64(vol.Size)))
		}
		glog.Infof("volume %s already exists", name)
		return vol, nil
	}

	pool, err := m.pools.Resolve(m.poolID)
	if err != nil {
		return nil, err
	}

	vol, err = m.array.CreateVolume(name, size, pool.ID, m.provType)
	if err != nil {
		glog.Errorf("create volume %s failed %s", name, err)
		return nil, err
	}

	if err := m.tagOrRollback(vol, objectTags(spec.ID, spec.DisplayName, false)); err != nil {
		return nil, err
	}
	return vol, nil
}

//DeleteVolume delete the volume, a clone takes its hidden parent snapshot with it.
func (m *VolumeLifecycleManager) DeleteVolume(id string) error {
	name := m.namer.VolumeName(id)
	glog.Infof("DeleteVolume, name: %s", name)

	vol, err := m.array.FindVolumeByName(name)
	if errors.IsNotFoundError(err) {
		glog.Warningf("volume %s does not exist.", name)
		return nil
	}
	if err != nil {
		return err
	}

	metadata, err := m.tagger.ReadAll(vol.ID)
	if err != nil {
		return err
	}
	if !m.purgeOnDelete {
		if err := m.ensureChildless(vol); err != nil {
			return err
		}
	}

	// 1 plain volume
	if strings.ToLower(metadata[MetadataDeleteParent]) != metadataTrue || vol.ParentID == 0 {
		return m.remove(vol)
	}

	// 2 clone, the parent is the internal snapshot
	parent, err := m.array.GetVolume(vol.ParentID)
	if errors.IsNotFoundError(err) {
		glog.Warningf("parent %d of clone %s does not exist", vol.ParentID, name)
		return m.remove(vol)
	}
	if err != nil {
		return err
	}

	glog.Infof("volume %s is a clone, delete its parent %s", name, parent.Name)
	if m.purgeOnDelete {
		return m.purge(parent)
	}
	if err := m.remove(vol); err != nil {
		return err
	}
	return m.remove(parent)
}

// ensureChildless refuse to delete a volume snapshots or clones still depend on.
func (m *VolumeLifecycleManager) ensureChildless(vol *storage.Volume) error {
	children, err := m.array.ListChildren(vol.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return errors.BusyError("volume %s has %d snapshots or clones", vol.Name, len(children))
	}
	return nil
}

func (m *VolumeLifecycleManager) remove(vol *storage.Volume) error {
	if m.purgeOnDelete {
		return m.purge(vol)
	}
	err := m.array.DeleteVolume(vol.ID)
	if errors.IsNotFoundError(err) {
		return nil
	}
	if err != nil {
		glog.Errorf("delete %s failed %s", vol.Name, err)
	}
	return err
}

// purge unmap the volume everywhere, purge its children and delete it.
func (m *VolumeLifecycleManager) purge(vol *storage.Volume) error {
	glog.Infof("purge %s", vol.Name)
	luns, err := m.array.ListVolumeLuns(vol.ID)
	if err != nil && !errors.IsNotFoundError(err) {
		return err
	}
	for _, lun := range luns {
		if err := m.array.UnmapVolume(lun.HostID, vol.ID); err != nil && !errors.IsNotFoundError(err) {
			return err
		}
	}

	children, err := m.array.ListChildren(vol.ID)
	if err != nil {
		return err
	}
	for i := range children {
		if err := m.purge(&children[i]); err != nil {
			return err
		}
	}

	err = m.array.DeleteVolume(vol.ID)
	if err != nil && !errors.IsNotFoundError(err) {
		glog.Errorf("purge %s failed %s", vol.Name, err)
		return err
	}
	return nil
}

//CreateSnapshot take a snapshot of the volume.
func (m *VolumeLifecycleManager) CreateSnapshot(spec storage.SnapshotSpec) (*storage.Volume, error) {
	name := m.namer.SnapshotName(spec.ID)
	glog.Infof("CreateSnapshot, name: %s, source: %s", name, spec.VolumeID)

	source, err := m.array.FindVolumeByName(m.namer.VolumeName(spec.VolumeID))
	if err != nil {
		return nil, err
	}

	snap, err := m.existing(name, spec.ID)
	if err != nil {
		return nil, err
	}
	if snap != nil {
		if snap.ParentID != source.ID {
			return nil, errors.InvalidInputError("snapshot %s exists for another volume", name)
		}
		return snap, nil
	}

	snap, err = m.array.CreateSnapshot(source.ID, name)
	if err != nil {
		glog.Errorf("create snapshot %s failed %s", name, err)
		return nil, err
	}

	if err := m.tagOrRollback(snap, objectTags(spec.ID, spec.DisplayName, false)); err != nil {
		return nil, err
	}
	return snap, nil
}

//DeleteSnapshot delete the snapshot unless clones were made from it.
func (m *VolumeLifecycleManager) DeleteSnapshot(id string) error {
	name := m.namer.SnapshotName(id)
	glog.Infof("DeleteSnapshot, name: %s", name)

	snap, err := m.array.FindVolumeByName(name)
	if errors.IsNotFoundError(err) {
		glog.Warningf("snapshot %s does not exist.", name)
		return nil
	}
	if err != nil {
		return err
	}

	children, err := m.array.ListChildren(snap.ID)
	if err != nil {
		return err
	}
	if len(children) > 0 {
		return errors.BusyError("snapshot %s has %d clones", name, len(children))
	}

	err = m.array.DeleteVolume(snap.ID)
	if errors.IsNotFoundError(err) {
		return nil
	}
	return err
}

//CreateVolumeFromSnapshot clone the snapshot, sizes must match.
func (m *VolumeLifecycleManager) CreateVolumeFromSnapshot(spec storage.VolumeSpec, snapshotID string) (*storage.Volume, error) {
	name := m.namer.VolumeName(spec.ID)
	glog.Infof("CreateVolumeFromSnapshot, name: %s, snapshot: %s", name, snapshotID)

	snap, err := m.array.FindVolumeByName(m.namer.SnapshotName(snapshotID))
	if err != nil {
		return nil, err
	}
	if err := checkSameSize(spec, snap); err != nil {
		return nil, err
	}

	vol, err := m.existing(name, spec.ID)
	if err != nil || vol != nil {
		return vol, err
	}

	vol, err = m.array.CreateClone(snap.ID, name)
	if err != nil {
		glog.Errorf("clone snapshot %s to %s failed %s", snap.Name, name, err)
		return nil, err
	}

	if err := m.tagOrRollback(vol, objectTags(spec.ID, spec.DisplayName, false)); err != nil {
		return nil, err
	}
	return vol, nil
}

//CreateClonedVolume clone a volume through an internal snapshot that is
//deleted together with the clone.
func (m *VolumeLifecycleManager) CreateClonedVolume(spec storage.VolumeSpec, sourceID string) (*storage.Volume, error) {
	name := m.namer.VolumeName(spec.ID)
	glog.Infof("CreateClonedVolume, name: %s, source: %s", name, sourceID)

	source, err := m.array.FindVolumeByName(m.namer.VolumeName(sourceID))
	if err != nil {
		return nil, err
	}
	if err := checkSameSize(spec, source); err != nil {
		return nil, err
	}

	vol, err := m.existing(name, spec.ID)
	if err != nil || vol != nil {
		return vol, err
	}

	// 1 internal snapshot
	internalName := m.namer.InternalSnapshotName(spec.ID)
	internal, err := m.array.CreateSnapshot(source.ID, internalName)
	if err != nil {
		glog.Errorf("create internal snapshot %s failed %s", internalName, err)
		return nil, err
	}
	internalTags := map[string]string{
		MetadataOrchestratorID: "",
		MetadataInternal:       metadataTrue,
	}
	if err := m.tagOrRollback(internal, internalTags); err != nil {
		return nil, err
	}

	// 2 clone of it
	vol, err = m.array.CreateClone(internal.ID, name)
	if err != nil {
		glog.Errorf("clone %s to %s failed %s", internalName, name, err)
		if delErr := m.array.DeleteVolume(internal.ID); delErr != nil {
			glog.Errorf("remove internal snapshot %s failed %s", internalName, delErr)
		}
		return nil, err
	}

	// 3 bind the clone lifecycle to the internal snapshot, the clone goes
	// before its parent when that fails
	if err := m.tagOrRollback(vol, objectTags(spec.ID, spec.DisplayName, true)); err != nil {
		if delErr := m.array.DeleteVolume(internal.ID); delErr != nil {
			glog.Errorf("remove internal snapshot %s failed %s", internalName, delErr)
		}
		return nil, err
	}
	return vol, nil
}

//ExtendVolume grow the volume, shrinking is refused.
func (m *VolumeLifecycleManager) ExtendVolume(id string, newSizeGiB int64) error {
	name := m.namer.VolumeName(id)
	newSize := newSizeGiB * storage.GiB
	glog.Infof("ExtendVolume, name: %s, new size: %s", name, humanize.IBytes(uint64(newSize)))

	vol, err := m.array.FindVolumeByName(name)
	if err != nil {
		return err
	}

	switch {
	case newSize == vol.Size:
		glog.Infof("volume %s already has size %s", name, humanize.IBytes(uint64(newSize)))
		return nil
	case !vol.IsMaster():
		return errors.InvalidInputError("%s is not a master volume, only master volumes can be resized", name)
	case newSize < vol.Size:
		return errors.InvalidInputError("volume %s can not shrink from %s to %s",
			name, humanize.IBytes(uint64(vol.Size)), humanize.IBytes(uint64(newSize)))
	}

	return m.array.ResizeVolume(vol.ID, newSize)
}
