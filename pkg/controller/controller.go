package controller

import (
	"time"

	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/metrics"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
	"infinidat.com/storage/infinibox-k8s/pkg/storage/infinibox"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

//IController define the volume related operations the CSI services need,
//every operation is logged and counted
type IController interface {
	//CreateVolume create a volume with given name and size in GiB
	CreateVolume(name string, sizeGiB int64, displayName string) (*storage.Volume, error)

	//CloneVolume create a volume from sourceVolumeName, or from snapshotName when it is not empty
	CloneVolume(name string, sizeGiB int64, displayName string, sourceVolumeName string, snapshotName string) (*storage.Volume, error)

	//DeleteVolume delete a volume with a given name
	DeleteVolume(name string) error

	//GetVolume look up a volume with a given name
	GetVolume(name string) (*storage.Volume, error)

	//ExtendVolume grow the given volume to newSizeGiB
	ExtendVolume(name string, newSizeGiB int64) error

	// CreateSnapshot from source volume
	CreateSnapshot(sourceVolName string, snapshotName string, displayName string) (*storage.Volume, error)

	// DeleteSnapshot with a given name
	DeleteSnapshot(snapshotName string) error

	//Attach map a volume to the host described by connector
	Attach(volumeName string, connector storage.HostInfo) (*storage.ConnProperty, error)

	//Detach unmap a volume from the host described by connector
	Detach(volumeName string, connector storage.HostInfo) error

	// GetCapacity get the free capacity of the pool in bytes
	GetCapacity() (int64, error)

	//Ready report the error the driver was set up with, nil when healthy
	Ready() error
}

type controller struct {
	driver storage.IVolumeDriver
}

//NewController create a controller on the array of the configuration and
//set the driver up
func NewController(cfg utils.Config) (IController, error) {
	array := infinibox.NewRestApiWrapper(cfg.Storage)
	driver := infinibox.NewDriver(cfg.Storage, array)

	if err := driver.Setup(); err != nil {
		glog.Errorf("driver setup for array %s failed %s", cfg.Storage.Host, err)
		return nil, err
	}
	if err := driver.CheckForSetupError(); err != nil {
		glog.Warningf("driver started degraded %s", err)
	}

	return NewControllerWithDriver(driver), nil
}

//NewControllerWithDriver create a controller over an already set up driver
func NewControllerWithDriver(driver storage.IVolumeDriver) IController {
	return &controller{driver: driver}
}

func observe(operation string, start time.Time, err error) {
	metrics.ObserveOperation(operation, start, err)
	if err != nil {
		glog.Errorf("%s failed after %s: %s", operation, time.Since(start), err)
		return
	}
	glog.V(4).Infof("%s done in %s", operation, time.Since(start))
}

func (c *controller) CreateVolume(name string, sizeGiB int64, displayName string) (vol *storage.Volume, err error) {
	defer func(start time.Time) { observe("create_volume", start, err) }(time.Now())
	return c.driver.CreateVolume(storage.VolumeSpec{ID: name, DisplayName: displayName, SizeGiB: sizeGiB})
}

func (c *controller) CloneVolume(name string, sizeGiB int64, displayName string, sourceVolumeName string, snapshotName string) (vol *storage.Volume, err error) {
	spec := storage.VolumeSpec{ID: name, DisplayName: displayName, SizeGiB: sizeGiB}
	if snapshotName != "" {
		defer func(start time.Time) { observe("create_volume_from_snapshot", start, err) }(time.Now())
		return c.driver.CreateVolumeFromSnapshot(spec, snapshotName)
	}

	defer func(start time.Time) { observe("create_cloned_volume", start, err) }(time.Now())
	return c.driver.CreateClonedVolume(spec, sourceVolumeName)
}

func (c *controller) DeleteVolume(name string) (err error) {
	defer func(start time.Time) { observe("delete_volume", start, err) }(time.Now())
	return c.driver.DeleteVolume(name)
}

func (c *controller) GetVolume(name string) (*storage.Volume, error) {
	return c.driver.GetVolume(name)
}

func (c *controller) ExtendVolume(name string, newSizeGiB int64) (err error) {
	defer func(start time.Time) { observe("extend_volume", start, err) }(time.Now())
	return c.driver.ExtendVolume(name, newSizeGiB)
}

func (c *controller) CreateSnapshot(sourceVolName string, snapshotName string, displayName string) (snap *storage.Volume, err error) {
	defer func(start time.Time) { observe("create_snapshot", start, err) }(time.Now())
	return c.driver.CreateSnapshot(storage.SnapshotSpec{ID: snapshotName, VolumeID: sourceVolName, DisplayName: displayName})
}

func (c *controller) DeleteSnapshot(snapshotName string) (err error) {
	defer func(start time.Time) { observe("delete_snapshot", start, err) }(time.Now())
	return c.driver.DeleteSnapshot(snapshotName)
}

func (c *controller) Attach(volumeName string, connector storage.HostInfo) (property *storage.ConnProperty, err error) {
	defer func(start time.Time) { observe("initialize_connection", start, err) }(time.Now())

	if err := c.driver.CreateExport(volumeName, connector); err != nil {
		return nil, err
	}
	return c.driver.InitializeConnection(volumeName, connector)
}

func (c *controller) Detach(volumeName string, connector storage.HostInfo) (err error) {
	defer func(start time.Time) { observe("terminate_connection", start, err) }(time.Now())

	if err := c.driver.TerminateConnection(volumeName, connector); err != nil {
		return err
	}
	return c.driver.RemoveExport(volumeName)
}

func (c *controller) GetCapacity() (int64, error) {
	stats, err := c.driver.GetStats(true)
	if err != nil {
		return 0, err
	}
	return int64(stats.FreeCapacityGB * float64(storage.GiB)), nil
}

func (c *controller) Ready() error {
	return c.driver.CheckForSetupError()
}
