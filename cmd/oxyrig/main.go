// Command oxyrig animates a rig, serves its poses and converts rigs between formats.
//
// Usage:
//
//	oxyrig [-config oxyrig.toml] [run|export|dump|config] [command flags]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/Carmen-Shannon/oxy-anim/engine/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to a TOML config file")
	flag.Usage = usage
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			log.Fatal(err)
		}
	}

	args := flag.Args()
	command := "run"
	if len(args) > 0 {
		command, args = args[0], args[1:]
	}

	var err error
	switch command {
	case "run":
		err = runCommand(cfg, args)
	case "export":
		err = exportCommand(cfg, args, os.Stdout)
	case "dump":
		err = dumpCommand(cfg, args, os.Stdout)
	case "config":
		err = cfg.Write(os.Stdout)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "usage: oxyrig [-config file] [command] [flags]\n\n")
	fmt.Fprintf(out, "commands:\n")
	fmt.Fprintf(out, "  run      animate the rig, serve poses and optionally open an input window (default)\n")
	fmt.Fprintf(out, "  export   write the rig and its timeline to a .yaml, .gltf or .glb file\n")
	fmt.Fprintf(out, "  dump     print the posed hierarchy at a tick\n")
	fmt.Fprintf(out, "  config   print the effective configuration\n\n")
	flag.PrintDefaults()
}
