package main

import (
	"flag"
	"os"

	"github.com/spf13/pflag"
	"github.com/tarmac-project/fixtures/cli"
	"k8s.io/klog/v2"
)

func main() {
	command := cli.NewRootCommand()

	klog.InitFlags(nil)
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	defer klog.Flush()

	if err := command.Execute(); err != nil {
		klog.Flush()
		os.Exit(1)
	}
}
