package infinibox

import (
	"fmt"
	"sync"

	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

const (
	StatsVendor = "Infinidat"

	statsProtocolFC    = "FC"
	statsProtocolISCSI = "iSCSI"
)

//Driver implement the orchestrator lifecycle hooks on an InfiniBox array.
type Driver struct {
	cfg   utils.StorageCfg
	array storage.IArray

	namer    *ResourceNamer
	tagger   *MetadataTagger
	pools    *PoolResolver
	hosts    *HostRegistry
	gateways *GatewayDiscoveryPoller
	broker   *ConnectionBroker
	volumes  *VolumeLifecycleManager

	setupErr error

	statsLock sync.Mutex
	stats     *storage.Stats
}

//Option customize a Driver at construction.
type Option func(*driverOptions)

type driverOptions struct {
	poller *utils.Poller
}

//WithPoller replace the wall clock poller used for gateway discovery.
func WithPoller(p *utils.Poller) Option {
	return func(o *driverOptions) {
		o.poller = p
	}
}

//NewDriver wire the driver components on top of array.
func NewDriver(cfg utils.StorageCfg, array storage.IArray, opts ...Option) *Driver {
	o := driverOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.poller == nil {
		o.poller = utils.NewPoller(cfg.RetryInterval(), cfg.GatewayTimeout())
	}

	namer := NewResourceNamer(cfg)
	tagger := NewMetadataTagger(array, cfg.SystemTag, utils.GenerateVersionStr())
	pools := NewPoolResolver(array)
	hosts := NewHostRegistry(array, namer, tagger)
	gateways := NewGatewayDiscoveryPoller(array, tagger, hosts, o.poller)

	return &Driver{
		cfg:      cfg,
		array:    array,
		namer:    namer,
		tagger:   tagger,
		pools:    pools,
		hosts:    hosts,
		gateways: gateways,
		broker:   NewConnectionBroker(array, namer, tagger, hosts, gateways, cfg.PreferFC),
		volumes:  NewVolumeLifecycleManager(array, namer, tagger, pools, cfg.PoolID, cfg.Provisioning, cfg.PurgeOnDelete),
	}
}

//Setup check the configuration, the array version and the pool.
func (d *Driver) Setup() error {
	glog.Infof("Setup driver for array %s pool %d", d.cfg.Host, d.cfg.PoolID)
	if err := d.cfg.Check(); err != nil {
		return err
	}

	system, err := d.array.GetSystem()
	if err != nil {
		glog.Errorf("connect to array %s failed %s", d.cfg.Host, err)
		return err
	}

	supported, err := utils.IsSupportedArrayVersion(system.Version)
	if err != nil {
		return errors.InvalidInputError("%s", err)
	}
	if !supported {
		return errors.InvalidInputError("array %s runs unsupported version %s", system.Name, system.Version)
	}

	if _, err := d.pools.Resolve(d.cfg.PoolID); err != nil {
		if errors.IsNotFoundError(err) && d.cfg.AllowPoolNotFound {
			glog.Warningf("pool %d not found, driver starts degraded: %s", d.cfg.PoolID, err)
			d.setupErr = err
			return nil
		}
		return err
	}

	d.setupErr = nil
	return nil
}

//CheckForSetupError report the pool resolution failure tolerated by Setup.
func (d *Driver) CheckForSetupError() error {
	return d.setupErr
}

func (d *Driver) CreateVolume(spec storage.VolumeSpec) (*storage.Volume, error) {
	return d.volumes.CreateVolume(spec)
}

func (d *Driver) DeleteVolume(id string) error {
	return d.volumes.DeleteVolume(id)
}

func (d *Driver) CreateVolumeFromSnapshot(spec storage.VolumeSpec, snapshotID string) (*storage.Volume, error) {
	return d.volumes.CreateVolumeFromSnapshot(spec, snapshotID)
}

func (d *Driver) CreateClonedVolume(spec storage.VolumeSpec, sourceID string) (*storage.Volume, error) {
	return d.volumes.CreateClonedVolume(spec, sourceID)
}

func (d *Driver) ExtendVolume(id string, newSizeGiB int64) error {
	return d.volumes.ExtendVolume(id, newSizeGiB)
}

func (d *Driver) CreateSnapshot(spec storage.SnapshotSpec) (*storage.Volume, error) {
	return d.volumes.CreateSnapshot(spec)
}

func (d *Driver) DeleteSnapshot(id string) error {
	return d.volumes.DeleteSnapshot(id)
}

func (d *Driver) GetVolume(id string) (*storage.Volume, error) {
	return d.volumes.GetVolume(id)
}

func (d *Driver) InitializeConnection(volumeID string, connector storage.HostInfo) (*storage.ConnProperty, error) {
	return d.broker.Attach(volumeID, connector)
}

func (d *Driver) TerminateConnection(volumeID string, connector storage.HostInfo) error {
	return d.broker.Detach(volumeID, connector)
}

//GetStats return the backend stats, recomputed when refresh is set or none were computed yet.
func (d *Driver) GetStats(refresh bool) (*storage.Stats, error) {
	d.statsLock.Lock()
	defer d.statsLock.Unlock()

	if d.stats != nil && !refresh {
		stats := *d.stats
		return &stats, nil
	}

	stats, err := d.computeStats()
	if err != nil {
		return nil, err
	}
	d.stats = stats

	result := *stats
	return &result, nil
}

func (d *Driver) computeStats() (*storage.Stats, error) {
	pool, err := d.pools.Resolve(d.cfg.PoolID)
	if err != nil {
		return nil, err
	}

	// capacities change all the time, the cached handle only gives the id
	current, err := d.array.GetPool(pool.ID)
	if err != nil {
		return nil, err
	}

	backendName := d.cfg.BackendName
	if backendName == "" {
		system, err := d.array.GetSystem()
		if err != nil {
			return nil, err
		}
		backendName = fmt.Sprintf("infinibox-%d-pool-%d", system.Serial, pool.ID)
	}

	protocol := statsProtocolISCSI
	if d.cfg.PreferFC {
		protocol = statsProtocolFC
	}

	return &storage.Stats{
		BackendName:     backendName,
		Vendor:          StatsVendor,
		Version:         utils.GenerateVersionStr(),
		Protocol:        protocol,
		TotalCapacityGB: float64(current.PhysicalCapacity) / float64(storage.GiB),
		FreeCapacityGB:  float64(current.FreePhysical) / float64(storage.GiB),
	}, nil
}

//Migrate is never supported, the orchestrator falls back to a host copy.
func (d *Driver) Migrate(volumeID string, destination string) (bool, error) {
	glog.Infof("Migrate volume %s to %s is not supported", volumeID, destination)
	return false, errors.NotSupportedError("migration of volume %s is not supported", volumeID)
}

func (d *Driver) EnsureExport(volumeID string) error {
	return nil
}

func (d *Driver) CreateExport(volumeID string, connector storage.HostInfo) error {
	return nil
}

func (d *Driver) RemoveExport(volumeID string) error {
	return nil
}

var _ storage.IVolumeDriver = &Driver{}
