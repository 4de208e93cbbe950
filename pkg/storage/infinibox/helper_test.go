package infinibox

import (
	"testing"
	"time"

	"infinidat.com/storage/infinibox-k8s/pkg/storage"
	"infinidat.com/storage/infinibox-k8s/pkg/storage/fake"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

const (
	testPoolID     = 7
	testPoolSize   = 100 * storage.GiB
	testGatewayIQN = "iqn.2009-11.com.infinidat:gateway-1"
	testPortal     = "10.0.0.10:3260"
	testIQN        = "iqn.1993-08.org.debian:01:compute1"
	testWWPN       = "50:01:43:80:AA:BB:CC:01"
)

var testStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func testConfig() utils.StorageCfg {
	return utils.StorageCfg{
		Name:           "ibox1234",
		Host:           "ibox1234.example.com",
		Username:       "admin",
		Password:       "123456",
		PoolID:         testPoolID,
		Provisioning:   utils.ProvisioningThin,
		VolumePrefix:   utils.DefaultVolumePrefix,
		SnapshotPrefix: utils.DefaultSnapshotPrefix,
		HostPrefix:     utils.DefaultHostPrefix,
		SystemTag:      utils.DefaultSystemTag,

		InternalSnapshotPrefix: utils.DefaultInternalSnapshotPrefix,
		ISCSI: utils.ISCSICfg{
			GatewayTimeout: utils.DefaultGatewayTimeout,
			RetryInterval:  utils.DefaultRetryInterval,
		},
	}
}

type fixture struct {
	cfg    utils.StorageCfg
	array  *fake.Array
	clock  *utils.FakeClock
	driver *Driver
}

func newFixture(t *testing.T, mutate ...func(*utils.StorageCfg)) *fixture {
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}

	array := fake.NewArray(testPoolID, "pool-k8s", testPoolSize)
	array.FCTargets = []string{"5742b0f000001011", "5742b0f000001012"}

	clock := utils.NewFakeClock(testStart)
	poller := &utils.Poller{
		Interval: cfg.RetryInterval(),
		Timeout:  cfg.GatewayTimeout(),
		Clock:    clock,
		Timer:    clock,
	}

	driver := NewDriver(cfg, array, WithPoller(poller))
	if err := driver.Setup(); err != nil {
		t.Fatalf("setup driver failed %s", err)
	}

	return &fixture{cfg: cfg, array: array, clock: clock, driver: driver}
}

func (f *fixture) createVolume(t *testing.T, id string, sizeGiB int64) *storage.Volume {
	vol, err := f.driver.CreateVolume(storage.VolumeSpec{ID: id, DisplayName: "disp-" + id, SizeGiB: sizeGiB})
	if err != nil {
		t.Fatalf("create volume %s failed %s", id, err)
	}
	return vol
}

func fcConnector(wwpns ...string) storage.HostInfo {
	return storage.HostInfo{Hostname: "compute1", Platform: "x86_64", AgentVersion: "2.1", WWPNs: wwpns}
}

func iscsiConnector() storage.HostInfo {
	return storage.HostInfo{Hostname: "compute1", Platform: "x86_64", AgentVersion: "2.1", Initiator: testIQN}
}
