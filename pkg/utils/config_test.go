// config_test.go
package utils

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/stretchr/testify/assert"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
)

const sampleConfig = `
    log:
      logdir: log
      level: debug
    storage:
      name: infinibox-01
      host: 192.168.1.100
      username: admin
      password: password
      useSSL: true
      poolId: 7
      provisioning: THIN
      preferFC: true
      iscsi:
        gatewayTimeout: 10
        retryInterval: 2
    metrics:
      address: 0.0.0.0
`

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig error: %s", err)
	}

	assert.Equal(t, int64(7), cfg.Storage.PoolID)
	assert.Equal(t, ProvisioningThin, cfg.Storage.Provisioning)
	assert.True(t, cfg.Storage.PreferFC)
	assert.Equal(t, 10*time.Second, cfg.Storage.GatewayTimeout())
	assert.Equal(t, 2*time.Second, cfg.Storage.RetryInterval())
	assert.Equal(t, DefaultVolumePrefix, cfg.Storage.VolumePrefix)
	assert.Equal(t, DefaultSnapshotPrefix, cfg.Storage.SnapshotPrefix)
	assert.Equal(t, DefaultHostPrefix, cfg.Storage.HostPrefix)
	assert.Equal(t, DefaultInternalSnapshotPrefix, cfg.Storage.InternalSnapshotPrefix)
	assert.Equal(t, DefaultSystemTag, cfg.Storage.SystemTag)
	assert.Equal(t, "0.0.0.0", cfg.Metrics.Address)
	assert.Equal(t, DefaultMetricsPort, cfg.Metrics.Port)
}

func TestCheckConfigReportsAllProblems(t *testing.T) {
	var data = `
    storage:
      host: 192.168.1.100
      provisioning: compressed
    `

	var cfg Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("Unmarshal error: %s", err)
	}
	cfg.setDefault()

	err := cfg.CheckConfig()
	if err == nil {
		t.Fatal("CheckConfig should fail")
	}
	assert.True(t, errors.IsInvalidInputError(err))
	assert.Contains(t, err.Error(), "poolId")
	assert.Contains(t, err.Error(), "thick or thin")
	assert.Contains(t, err.Error(), "username and password")
}

func TestCheckConfigTimeoutShorterThanInterval(t *testing.T) {
	cfg := Config{Storage: StorageCfg{
		Host: "h", Username: "u", Password: "p", PoolID: 1, Provisioning: "thick",
		ISCSI: ISCSICfg{GatewayTimeout: 1, RetryInterval: 5},
	}}

	err := cfg.CheckConfig()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "gatewayTimeout")
}

func TestCheckConfigOverlappingPrefixes(t *testing.T) {
	testCases := []struct {
		volumePrefix   string
		snapshotPrefix string
		internalPrefix string
		overlap        string
	}{
		{"k8s-", "k8s-", "k8s-internal-", "volumePrefix"},
		{"k8s-", "k8s-snap-", "k8s-internal-", "snapshotPrefix"},
		{"vol-", "snap-", "snap-internal-", "internalSnapshotPrefix"},
	}
	for _, tc := range testCases {
		cfg, err := ParseConfig([]byte(sampleConfig))
		if err != nil {
			t.Fatalf("ParseConfig error: %s", err)
		}
		cfg.Storage.VolumePrefix = tc.volumePrefix
		cfg.Storage.SnapshotPrefix = tc.snapshotPrefix
		cfg.Storage.InternalSnapshotPrefix = tc.internalPrefix

		err = cfg.CheckConfig()
		assert.True(t, errors.IsInvalidInputError(err), "%v", err)
		if err != nil {
			assert.Contains(t, err.Error(), tc.overlap)
		}
	}

	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig error: %s", err)
	}
	cfg.Storage.VolumePrefix = "k8s-vol-"
	cfg.Storage.SnapshotPrefix = "k8s-snap-"
	cfg.Storage.InternalSnapshotPrefix = "k8s-clone-base-"
	assert.NoError(t, cfg.CheckConfig())
}

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "infinibox-config")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "infinibox.yaml")
	if err := ioutil.WriteFile(path, []byte(sampleConfig), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Error("LoadConfig error:" + err.Error())
	}
	assert.Equal(t, "infinibox-01", cfg.Storage.Name)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsInvalidInputError(err))
}

func TestDumpSampleConfig(t *testing.T) {
	sample := DumpSampleConfig()
	if !strings.Contains(sample, "poolId: 1") {
		t.Errorf("sample config misses pool id:\n%s", sample)
	}

	_, err := ParseConfig([]byte(sample))
	assert.NoError(t, err)
}
