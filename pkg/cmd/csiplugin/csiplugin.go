package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/golang/glog"

	"infinidat.com/storage/infinibox-k8s/pkg/controller"
	"infinidat.com/storage/infinibox-k8s/pkg/csiplugin"
	"infinidat.com/storage/infinibox-k8s/pkg/metrics"
	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

var (
	config     = flag.String("config", "", "Absolute path to the storage config file, if not set, the config/infinibox.yaml in the same fold of this binary will be used.")
	endpoint   = flag.String("endpoint", "", "The endpoint plugin listen on.")
	driverName = flag.String("driver-name", "csi-infinibox", "The driver name of this csi driver to announce.")
	version    = flag.Bool("version", false, "Show the version.")
)

//setLogging point glog at the configured directory unless -log_dir was given.
func setLogging(cfg utils.LogCfg, baseDir string) {
	if f := flag.Lookup("log_dir"); f != nil && f.Value.String() == "" && cfg.LogDir != "" {
		logDir := cfg.LogDir
		if !filepath.IsAbs(logDir) {
			logDir = filepath.Join(baseDir, logDir)
		}
		if err := os.MkdirAll(logDir, 0755); err != nil {
			glog.Warningf("create log dir %s failed %s", logDir, err)
		} else {
			flag.Set("log_dir", logDir)
		}
	}
	if cfg.Level != "" {
		if err := flag.Set("v", cfg.Level); err != nil {
			glog.Warningf("log level %s not valid %s", cfg.Level, err)
		}
	}
}

func main() {
	flag.Parse()
	defer glog.Flush()

	if *version {
		fmt.Printf("Version: %s\n", utils.GenerateVersionStr())
		os.Exit(0)
	}

	if *endpoint == "" {
		fmt.Printf("endpoint must be set.")
		os.Exit(1)
	}

	//get the base directory
	baseDir := filepath.Dir(os.Args[0])
	//parse the configuration
	cfgPath := filepath.Join(baseDir, "config", "infinibox.yaml")
	if *config != "" {
		cfgPath = *config
	}

	cfg, err := utils.LoadConfig(cfgPath)
	if err != nil {
		glog.Fatalf("Failed to load storage configuration file %s %s.", cfgPath, err)
	}
	setLogging(cfg.Log, baseDir)
	glog.Infof("csi-infinibox %s starts with config %s", utils.GenerateVersionStr(), cfgPath)

	ctrl, err := controller.NewController(*cfg)
	if err != nil {
		glog.Fatalf("Failed to set up the driver for array %s %s.", cfg.Storage.Host, err)
	}

	var metricsServer *metrics.Server
	if cfg.Metrics.Address != "" {
		metricsServer = metrics.NewMetricsServer(cfg.Metrics.Address, cfg.Metrics.Port)
		metricsServer.Activate()
	}

	driver := csiplugin.NewDriver(*driverName, *endpoint, ctrl)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		glog.Infof("received %s, stopping", sig)
		driver.Stop()
		if metricsServer != nil {
			if err := metricsServer.Deactivate(); err != nil {
				glog.Warningf("stop metrics frontend failed %s", err)
			}
		}
	}()

	driver.Run()
}
