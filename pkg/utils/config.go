package utils

import (
	"fmt"
	"io/ioutil"
	"strings"
	"time"

	"github.com/go-yaml/yaml"
	"go.uber.org/multierr"

	"infinidat.com/storage/infinibox-k8s/pkg/errors"
)

const (
	ProvisioningThick = "thick"
	ProvisioningThin  = "thin"

	DefaultVolumePrefix   = "openstack-vol-"
	DefaultSnapshotPrefix = "openstack-snap-"
	DefaultHostPrefix     = "openstack-host-"
	DefaultSystemTag      = "openstack"

	DefaultInternalSnapshotPrefix = "openstack-internal-"

	DefaultGatewayTimeout = 30
	DefaultRetryInterval  = 1
	DefaultMetricsPort    = 8001
)

//LogCfg contain configuration about log set.
type LogCfg struct {
	LogDir string `yaml:"logdir"`
	Level  string
}

//ISCSICfg contain the iSCSI gateway discovery settings, both in seconds.
type ISCSICfg struct {
	GatewayTimeout int `yaml:"gatewayTimeout"`
	RetryInterval  int `yaml:"retryInterval"`
}

//StorageCfg contain configuration about storage access.
type StorageCfg struct {
	Name               string
	Host               string
	Username           string
	Password           string
	UseSSL             bool `yaml:"useSSL"`
	InsecureSkipVerify bool `yaml:"insecureSkipVerify"`

	PoolID       int64  `yaml:"poolId"`
	Provisioning string `yaml:"provisioning"`

	VolumePrefix   string `yaml:"volumePrefix"`
	SnapshotPrefix string `yaml:"snapshotPrefix"`
	HostPrefix     string `yaml:"hostPrefix"`
	SystemTag      string `yaml:"systemTag"`
	BackendName    string `yaml:"backendName"`

	//InternalSnapshotPrefix name the hidden snapshots clones are made from.
	InternalSnapshotPrefix string `yaml:"internalSnapshotPrefix"`

	PreferFC          bool `yaml:"preferFC"`
	AllowPoolNotFound bool `yaml:"allowPoolNotFound"`
	PurgeOnDelete     bool `yaml:"purgeOnDelete"`

	ISCSI ISCSICfg `yaml:"iscsi"`
}

//GatewayTimeout return the discovery timeout as a duration.
func (s StorageCfg) GatewayTimeout() time.Duration {
	return time.Duration(s.ISCSI.GatewayTimeout) * time.Second
}

//RetryInterval return the discovery poll interval as a duration.
func (s StorageCfg) RetryInterval() time.Duration {
	return time.Duration(s.ISCSI.RetryInterval) * time.Second
}

//MetricsCfg contain the prometheus exposition settings.
type MetricsCfg struct {
	Address string
	Port    int
}

//Config contain the configuration from configure file.
//Configure file is in the 'config' folder as name 'infinibox.yaml'.
//The 'config' folder is in the same folder as the driver.
//The contant of config file is yaml format.
type Config struct {
	Log     LogCfg
	Storage StorageCfg
	Metrics MetricsCfg
}

//CheckConfig make a check of the configuration, all problems found are
//reported together.
func (c *Config) CheckConfig() error {
	return c.Storage.Check()
}

//Check validate a single storage configuration.
func (s *StorageCfg) Check() error {
	var errs error

	if s.PoolID <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("storage.poolId must be set"))
	}

	provisioning := strings.ToLower(s.Provisioning)
	if provisioning != ProvisioningThick && provisioning != ProvisioningThin {
		errs = multierr.Append(errs, fmt.Errorf("storage.provisioning must be thick or thin, current:%s", s.Provisioning))
	}

	if s.Host == "" || s.Username == "" || s.Password == "" {
		errs = multierr.Append(errs, fmt.Errorf("storage configure not complete, host, username and password must be set"))
	}

	errs = multierr.Append(errs, s.checkPrefixes())

	if s.ISCSI.RetryInterval <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("storage.iscsi.retryInterval must be positive"))
	} else if s.ISCSI.GatewayTimeout < s.ISCSI.RetryInterval {
		errs = multierr.Append(errs, fmt.Errorf("storage.iscsi.gatewayTimeout %d must not be less than retryInterval %d",
			s.ISCSI.GatewayTimeout, s.ISCSI.RetryInterval))
	}

	if errs != nil {
		return errors.InvalidInputError("%s", errs)
	}
	return nil
}

//checkPrefixes reject volume and snapshot prefixes where one starts with
//another, the names derived from them could collide.
func (s *StorageCfg) checkPrefixes() error {
	prefixes := []struct {
		key   string
		value string
	}{
		{"volumePrefix", s.VolumePrefix},
		{"snapshotPrefix", s.SnapshotPrefix},
		{"internalSnapshotPrefix", s.InternalSnapshotPrefix},
	}

	var errs error
	for i := range prefixes {
		for j := i + 1; j < len(prefixes); j++ {
			a, b := prefixes[i], prefixes[j]
			if strings.HasPrefix(a.value, b.value) || strings.HasPrefix(b.value, a.value) {
				errs = multierr.Append(errs, fmt.Errorf("storage.%s %q and storage.%s %q overlap",
					a.key, a.value, b.key, b.value))
			}
		}
	}
	return errs
}

func (c *Config) setDefault() {
	if c.Log.LogDir == "" {
		c.Log.LogDir = "log"
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}

	c.Storage.setDefault()
}

func (s *StorageCfg) setDefault() {
	if s.Provisioning == "" {
		s.Provisioning = ProvisioningThick
	}
	s.Provisioning = strings.ToLower(s.Provisioning)

	if s.VolumePrefix == "" {
		s.VolumePrefix = DefaultVolumePrefix
	}

	if s.SnapshotPrefix == "" {
		s.SnapshotPrefix = DefaultSnapshotPrefix
	}

	if s.HostPrefix == "" {
		s.HostPrefix = DefaultHostPrefix
	}

	if s.InternalSnapshotPrefix == "" {
		s.InternalSnapshotPrefix = DefaultInternalSnapshotPrefix
	}

	if s.SystemTag == "" {
		s.SystemTag = DefaultSystemTag
	}

	if s.ISCSI.GatewayTimeout == 0 {
		s.ISCSI.GatewayTimeout = DefaultGatewayTimeout
	}

	if s.ISCSI.RetryInterval == 0 {
		s.ISCSI.RetryInterval = DefaultRetryInterval
	}
}

//ParseConfig parse the yaml content, set the default and check it.
func ParseConfig(cfgData []byte) (*Config, error) {
	var config Config

	if err := yaml.Unmarshal(cfgData, &config); err != nil {
		return nil, errors.InvalidInputError("parse config failed for %s", err)
	}

	config.setDefault()

	if err := config.CheckConfig(); err != nil {
		return nil, errors.Wrapf(err, "configuration not valid")
	}

	return &config, nil
}

//LoadConfig load configuration from the config file.
func LoadConfig(configPath string) (*Config, error) {
	cfgData, err := ioutil.ReadFile(configPath)
	if err != nil {
		return nil, errors.InvalidInputError("read config file %s failed for %s", configPath, err)
	}

	return ParseConfig(cfgData)
}

//DumpSampleConfig generate a sample configuration file's content.
func DumpSampleConfig() string {
	config := Config{}

	//set the default.
	config.setDefault()

	//add a sample storage configuration.
	config.Storage.Name = "infinibox-01"
	config.Storage.Host = "10.0.0.1"
	config.Storage.Username = "admin"
	config.Storage.Password = "password"
	config.Storage.UseSSL = true
	config.Storage.InsecureSkipVerify = true
	config.Storage.PoolID = 1
	config.Storage.Provisioning = ProvisioningThin

	//marshal the data.
	cfgData, _ := yaml.Marshal(config)
	return string(cfgData)
}
