package main

import (
	"flag"
	"fmt"
	"os"

	"infinidat.com/storage/infinibox-k8s/pkg/utils"
)

var (
	sampleCfg = flag.Bool("sample-cfg", false, "Dump infinibox.yaml configuration sample.")
	version   = flag.Bool("version", false, "Show the version.")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("Version: %s\n", utils.GenerateVersionStr())
		os.Exit(0)
	}

	if *sampleCfg {
		fmt.Print(utils.DumpSampleConfig())
		os.Exit(0)
	}

	flag.Usage()
	os.Exit(1)
}
