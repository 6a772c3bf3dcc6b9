package main

import (
	"fmt"
	"os"
	"welcomer/internal/di"
	"welcomer/internal/structures"

	"github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	pflag.StringVarP(&flags.ConfigPath, "config", "c", "config/config.yml", "path to the YAML configuration file")
	pflag.BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to stdout")
	pflag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "welcomer: %s\n", err)
		os.Exit(1)
	}
}
