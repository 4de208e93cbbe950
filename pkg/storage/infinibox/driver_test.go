package infinibox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
	"infinidat.com/storage/infinibox-k8s/pkg/storage/fake"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

func TestSetupChecksArrayVersion(t *testing.T) {
	testCases := []struct {
		version string
		ok      bool
	}{
		{"1.5", true},
		{"2.2.10-build34", true},
		{"3.0.0.3", true},
		{"1.4.9", false},
		{"3.1", false},
		{"4.0.10", false},
	}

	for _, tc := range testCases {
		t.Run(tc.version, func(t *testing.T) {
			array := fake.NewArray(testPoolID, "pool-k8s", testPoolSize)
			array.SetVersion(tc.version)

			err := NewDriver(testConfig(), array).Setup()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.IsInvalidInputError(err), "%v", err)
			}
		})
	}
}

func TestSetupPoolNotFound(t *testing.T) {
	cfg := testConfig()
	cfg.PoolID = 99
	array := fake.NewArray(testPoolID, "pool-k8s", testPoolSize)

	err := NewDriver(cfg, array).Setup()
	assert.True(t, errors.IsNotFoundError(err))

	cfg.AllowPoolNotFound = true
	driver := NewDriver(cfg, array)
	require.NoError(t, driver.Setup())
	assert.True(t, errors.IsNotFoundError(driver.CheckForSetupError()))

	_, err = driver.GetStats(true)
	assert.True(t, errors.IsNotFoundError(err))
}

func TestSetupRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Provisioning = "fat"

	err := NewDriver(cfg, fake.NewArray(testPoolID, "pool-k8s", testPoolSize)).Setup()
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestGetStats(t *testing.T) {
	f := newFixture(t)

	stats, err := f.driver.GetStats(false)
	require.NoError(t, err)
	assert.Equal(t, "infinibox-1234-pool-7", stats.BackendName)
	assert.Equal(t, StatsVendor, stats.Vendor)
	assert.Equal(t, "iSCSI", stats.Protocol)
	assert.Equal(t, utils.GenerateVersionStr(), stats.Version)
	assert.Equal(t, 100.0, stats.TotalCapacityGB)
	assert.Equal(t, 100.0, stats.FreeCapacityGB)

	f.createVolume(t, "vol-001", 10)

	cached, err := f.driver.GetStats(false)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cached.FreeCapacityGB)

	refreshed, err := f.driver.GetStats(true)
	require.NoError(t, err)
	assert.Equal(t, 90.0, refreshed.FreeCapacityGB)
	assert.Equal(t, 100.0, refreshed.TotalCapacityGB)
}

func TestGetStatsConfiguredBackend(t *testing.T) {
	f := newFixture(t, func(cfg *utils.StorageCfg) {
		cfg.BackendName = "gold"
		cfg.PreferFC = true
	})

	stats, err := f.driver.GetStats(true)
	require.NoError(t, err)
	assert.Equal(t, "gold", stats.BackendName)
	assert.Equal(t, "FC", stats.Protocol)
}

func TestMigrateIsNotSupported(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "vol-001", 1)

	moved, err := f.driver.Migrate("vol-001", "other-backend")
	assert.False(t, moved)
	assert.True(t, errors.IsNotSupportedError(err))
}

func TestExportHooksDoNothing(t *testing.T) {
	f := newFixture(t)
	f.createVolume(t, "vol-001", 1)

	assert.NoError(t, f.driver.EnsureExport("vol-001"))
	assert.NoError(t, f.driver.CreateExport("vol-001", fcConnector(testWWPN)))
	assert.NoError(t, f.driver.RemoveExport("vol-001"))

	hosts, err := f.array.ListHosts()
	require.NoError(t, err)
	assert.Empty(t, hosts)
	assert.Len(t, f.array.Volumes(), 1)
}
