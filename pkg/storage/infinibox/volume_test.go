package infinibox

import (
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
	"infinidat.com/storage/infinibox-k8s/pkg/storage/mock_storage"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

func TestCreateVolumeRoundTrip(t *testing.T) {
	f := newFixture(t)

	vol := f.createVolume(t, "vol-001", 10)
	assert.Equal(t, "openstack-vol-vol-001", vol.Name)
	assert.Equal(t, int64(10*storage.GiB), vol.Size)
	assert.Equal(t, storage.ProvTypeThin, vol.ProvType)
	assert.Equal(t, int64(testPoolID), vol.PoolID)

	metadata := f.array.Metadata(vol.ID)
	assert.Equal(t, "vol-001", metadata[MetadataOrchestratorID])
	assert.Equal(t, "disp-vol-001", metadata[MetadataDisplayName])
	assert.Equal(t, "false", metadata[MetadataDeleteParent])
	assert.Equal(t, utils.DefaultSystemTag, metadata[MetadataSystem])
	assert.Equal(t, utils.GenerateVersionStr(), metadata[MetadataDriverVersion])

	again := f.createVolume(t, "vol-001", 10)
	assert.Equal(t, vol.ID, again.ID)
	assert.Len(t, f.array.Volumes(), 1)

	require.NoError(t, f.driver.DeleteVolume("vol-001"))
	assert.Empty(t, f.array.Volumes())

	_, err := f.driver.GetVolume("vol-001")
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCreateVolumeExistingWithOtherSize(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "vol-001", 10)

	_, err := f.driver.CreateVolume(storage.VolumeSpec{ID: "vol-001", SizeGiB: 20})
	assert.True(t, errors.IsInvalidInputError(err), "%v", err)
}

func TestCreateVolumeRejectsNonPositiveSize(t *testing.T) {
	f := newFixture(t)

	_, err := f.driver.CreateVolume(storage.VolumeSpec{ID: "vol-001", SizeGiB: 0})
	assert.True(t, errors.IsInvalidInputError(err))
	assert.Empty(t, f.array.Volumes())
}

func TestCreateVolumeNameTakenByOtherObject(t *testing.T) {
	f := newFixture(t)
	_, err := f.array.CreateVolume("openstack-vol-vol-001", storage.GiB, testPoolID, storage.ProvTypeThick)
	require.NoError(t, err)

	_, err = f.driver.CreateVolume(storage.VolumeSpec{ID: "vol-001", SizeGiB: 1})
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestCreateVolumeRollbackWhenTagFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	array := mock_storage.NewMockIArray(ctrl)
	cfg := testConfig()
	namer := NewResourceNamer(cfg)
	tagger := NewMetadataTagger(array, cfg.SystemTag, "1.0.0")
	manager := NewVolumeLifecycleManager(array, namer, tagger, NewPoolResolver(array), testPoolID, cfg.Provisioning, false)

	created := &storage.Volume{ID: 11, Name: "openstack-vol-vol-001", Size: storage.GiB}
	tagErr := errors.VendorAPIError("set metadata", 500, "INTERNAL_ERROR", "boom")

	gomock.InOrder(
		array.EXPECT().FindVolumeByName("openstack-vol-vol-001").Return(nil, errors.NotFoundError("no volume")),
		array.EXPECT().GetPool(int64(testPoolID)).Return(&storage.Pool{ID: testPoolID, Name: "pool-k8s"}, nil),
		array.EXPECT().CreateVolume("openstack-vol-vol-001", int64(storage.GiB), int64(testPoolID), storage.ProvTypeThin).Return(created, nil),
		array.EXPECT().SetMetadata(int64(11), gomock.Any()).Return(tagErr),
		array.EXPECT().DeleteVolume(int64(11)).Return(nil),
	)

	_, err := manager.CreateVolume(storage.VolumeSpec{ID: "vol-001", SizeGiB: 1})
	assert.True(t, errors.IsVendorAPIError(err))
}

func TestCreateClonedVolumeRollbackWhenTagFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	array := mock_storage.NewMockIArray(ctrl)
	cfg := testConfig()
	namer := NewResourceNamer(cfg)
	tagger := NewMetadataTagger(array, cfg.SystemTag, "1.0.0")
	manager := NewVolumeLifecycleManager(array, namer, tagger, NewPoolResolver(array), testPoolID, cfg.Provisioning, false)

	source := &storage.Volume{ID: 10, Name: "openstack-vol-vol-001", Size: storage.GiB}
	internal := &storage.Volume{ID: 11, Name: namer.InternalSnapshotName("vol-002"), Size: storage.GiB, ParentID: 10}
	clone := &storage.Volume{ID: 12, Name: "openstack-vol-vol-002", Size: storage.GiB, ParentID: 11}
	tagErr := errors.VendorAPIError("set metadata", 500, "INTERNAL_ERROR", "boom")

	gomock.InOrder(
		array.EXPECT().FindVolumeByName("openstack-vol-vol-001").Return(source, nil),
		array.EXPECT().FindVolumeByName("openstack-vol-vol-002").Return(nil, errors.NotFoundError("no volume")),
		array.EXPECT().CreateSnapshot(int64(10), internal.Name).Return(internal, nil),
		array.EXPECT().SetMetadata(int64(11), gomock.Any()).Return(nil),
		array.EXPECT().CreateClone(int64(11), "openstack-vol-vol-002").Return(clone, nil),
		array.EXPECT().SetMetadata(int64(12), gomock.Any()).Return(tagErr),
		array.EXPECT().DeleteVolume(int64(12)).Return(nil),
		array.EXPECT().DeleteVolume(int64(11)).Return(nil),
	)

	_, err := manager.CreateClonedVolume(storage.VolumeSpec{ID: "vol-002", SizeGiB: 1}, "vol-001")
	assert.True(t, errors.IsVendorAPIError(err))
}

func TestCreateVolumeDegradedPool(t *testing.T) {
	f := newFixture(t, func(cfg *utils.StorageCfg) {
		cfg.PoolID = 99
		cfg.AllowPoolNotFound = true
	})

	assert.True(t, errors.IsNotFoundError(f.driver.CheckForSetupError()))
	_, err := f.driver.CreateVolume(storage.VolumeSpec{ID: "vol-001", SizeGiB: 1})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestDeleteMissingVolumeSucceeds(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.driver.DeleteVolume("never-created"))
	assert.NoError(t, f.driver.DeleteSnapshot("never-created"))
}

func TestSnapshotLifecycle(t *testing.T) {
	f := newFixture(t)
	vol := f.createVolume(t, "vol-001", 10)

	snap, err := f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "snap-001", VolumeID: "vol-001", DisplayName: "nightly"})
	require.NoError(t, err)
	assert.Equal(t, "openstack-snap-snap-001", snap.Name)
	assert.Equal(t, vol.ID, snap.ParentID)
	assert.True(t, snap.WriteProtected)
	assert.False(t, snap.IsMaster())
	assert.Equal(t, "snap-001", f.array.Metadata(snap.ID)[MetadataOrchestratorID])

	again, err := f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "snap-001", VolumeID: "vol-001"})
	require.NoError(t, err)
	assert.Equal(t, snap.ID, again.ID)

	require.NoError(t, f.driver.DeleteSnapshot("snap-001"))
	assert.Len(t, f.array.Volumes(), 1)
}

func TestCreateSnapshotOfMissingVolume(t *testing.T) {
	f := newFixture(t)
	_, err := f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "snap-001", VolumeID: "vol-404"})
	assert.True(t, errors.IsNotFoundError(err))
}

func TestCreateVolumeFromSnapshot(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "vol-001", 10)
	snap, err := f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "snap-001", VolumeID: "vol-001"})
	require.NoError(t, err)

	_, err = f.driver.CreateVolumeFromSnapshot(storage.VolumeSpec{ID: "vol-002", SizeGiB: 20}, "snap-001")
	assert.True(t, errors.IsInvalidInputError(err))
	assert.Len(t, f.array.Volumes(), 2)

	clone, err := f.driver.CreateVolumeFromSnapshot(storage.VolumeSpec{ID: "vol-002", SizeGiB: 10}, "snap-001")
	require.NoError(t, err)
	assert.Equal(t, snap.ID, clone.ParentID)
	assert.False(t, clone.WriteProtected)
	assert.Equal(t, "false", f.array.Metadata(clone.ID)[MetadataDeleteParent])

	err = f.driver.DeleteSnapshot("snap-001")
	assert.True(t, errors.IsBusyError(err), "%v", err)

	require.NoError(t, f.driver.DeleteVolume("vol-002"))
	require.NoError(t, f.driver.DeleteSnapshot("snap-001"))
	assert.Len(t, f.array.Volumes(), 1)
}

func TestCreateClonedVolume(t *testing.T) {
	f := newFixture(t)
	source := f.createVolume(t, "vol-001", 10)

	_, err := f.driver.CreateClonedVolume(storage.VolumeSpec{ID: "vol-002", SizeGiB: 5}, "vol-001")
	assert.True(t, errors.IsInvalidInputError(err))
	assert.Len(t, f.array.Volumes(), 1)

	clone, err := f.driver.CreateClonedVolume(storage.VolumeSpec{ID: "vol-002", SizeGiB: 10}, "vol-001")
	require.NoError(t, err)

	internal, err := f.array.FindVolumeByName("openstack-internal-vol-002")
	require.NoError(t, err)
	assert.Equal(t, source.ID, internal.ParentID)
	assert.Equal(t, internal.ID, clone.ParentID)
	assert.Equal(t, "true", f.array.Metadata(internal.ID)[MetadataInternal])
	assert.Equal(t, "true", f.array.Metadata(clone.ID)[MetadataDeleteParent])
	assert.Equal(t, "vol-002", f.array.Metadata(clone.ID)[MetadataOrchestratorID])

	again, err := f.driver.CreateClonedVolume(storage.VolumeSpec{ID: "vol-002", SizeGiB: 10}, "vol-001")
	require.NoError(t, err)
	assert.Equal(t, clone.ID, again.ID)
	assert.Len(t, f.array.Volumes(), 3)

	// snapshot ids that look like the internal snapshot's name stay usable
	for _, id := range []string{"vol-002-internal", "internal-vol-002"} {
		snap, err := f.driver.CreateSnapshot(storage.SnapshotSpec{ID: id, VolumeID: "vol-001"})
		require.NoError(t, err, id)
		assert.NotEqual(t, internal.ID, snap.ID)
		require.NoError(t, f.driver.DeleteSnapshot(id))
	}

	require.NoError(t, f.driver.DeleteVolume("vol-002"))
	volumes := f.array.Volumes()
	require.Len(t, volumes, 1)
	assert.Equal(t, source.ID, volumes[0].ID)
}

func TestExtendVolume(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "vol-001", 10)

	require.NoError(t, f.driver.ExtendVolume("vol-001", 20))
	vol, err := f.driver.GetVolume("vol-001")
	require.NoError(t, err)
	assert.Equal(t, int64(20*storage.GiB), vol.Size)

	assert.NoError(t, f.driver.ExtendVolume("vol-001", 20))

	err = f.driver.ExtendVolume("vol-001", 5)
	assert.True(t, errors.IsInvalidInputError(err))

	err = f.driver.ExtendVolume("vol-404", 5)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestExtendCloneIsRefused(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "vol-001", 10)
	_, err := f.driver.CreateClonedVolume(storage.VolumeSpec{ID: "vol-002", SizeGiB: 10}, "vol-001")
	require.NoError(t, err)

	err = f.driver.ExtendVolume("vol-002", 20)
	assert.True(t, errors.IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "only master volumes can be resized")
}

func TestDeleteVolumeWithMappedSnapshot(t *testing.T) {
	for _, purge := range []bool{false, true} {
		t.Run(fmt.Sprintf("purge=%t", purge), func(t *testing.T) {
			f := newFixture(t, func(cfg *utils.StorageCfg) { cfg.PurgeOnDelete = purge })
			f.createVolume(t, "vol-001", 10)
			snap, err := f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "snap-001", VolumeID: "vol-001"})
			require.NoError(t, err)

			host, err := f.array.CreateHost("backup-host")
			require.NoError(t, err)
			_, err = f.array.MapVolume(host.ID, snap.ID)
			require.NoError(t, err)

			err = f.driver.DeleteVolume("vol-001")
			if purge {
				assert.NoError(t, err)
				assert.Empty(t, f.array.Volumes())
				assert.Equal(t, 0, f.array.Mappings(host.ID))
				return
			}
			assert.True(t, errors.IsBusyError(err), "%v", err)
			assert.Len(t, f.array.Volumes(), 2)
		})
	}
}

func TestDeleteVolumeWithDependentsIsBusy(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "src", 10)
	_, err := f.driver.CreateClonedVolume(storage.VolumeSpec{ID: "cloned", SizeGiB: 10}, "src")
	require.NoError(t, err)
	_, err = f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "s1", VolumeID: "src"})
	require.NoError(t, err)
	_, err = f.driver.CreateVolumeFromSnapshot(storage.VolumeSpec{ID: "fromsnap", SizeGiB: 10}, "s1")
	require.NoError(t, err)

	err = f.driver.DeleteVolume("src")
	assert.True(t, errors.IsBusyError(err), "%v", err)
	for _, id := range []string{"src", "cloned", "fromsnap"} {
		_, err := f.driver.GetVolume(id)
		assert.NoError(t, err, id)
	}
	assert.Len(t, f.array.Volumes(), 5)

	// a snapshot taken of a clone pins the clone
	_, err = f.driver.CreateSnapshot(storage.SnapshotSpec{ID: "s2", VolumeID: "cloned"})
	require.NoError(t, err)
	assert.True(t, errors.IsBusyError(f.driver.DeleteVolume("cloned")))
	require.NoError(t, f.driver.DeleteSnapshot("s2"))

	require.NoError(t, f.driver.DeleteVolume("cloned"))
	require.NoError(t, f.driver.DeleteVolume("fromsnap"))
	require.NoError(t, f.driver.DeleteSnapshot("s1"))
	require.NoError(t, f.driver.DeleteVolume("src"))
	assert.Empty(t, f.array.Volumes())
}

func TestPoolCapacityFollowsVolumes(t *testing.T) {
	f := newFixture(t)

	f.createVolume(t, "vol-001", 10)
	pool, err := f.array.GetPool(testPoolID)
	require.NoError(t, err)
	assert.Equal(t, int64(90*storage.GiB), pool.FreePhysical)

	require.NoError(t, f.driver.DeleteVolume("vol-001"))
	pool, err = f.array.GetPool(testPoolID)
	require.NoError(t, err)
	assert.Equal(t, int64(testPoolSize), pool.FreePhysical)
}
