package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-anim/engine"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/Carmen-Shannon/oxy-anim/engine/server"
	"github.com/Carmen-Shannon/oxy-anim/engine/window"
	"github.com/davecgh/go-spew/spew"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// titleInterval limits how often the window title is refreshed.
const titleInterval = 250 * time.Millisecond

func runCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.StringVar(&cfg.Rig.Path, "rig", cfg.Rig.Path, "Rig file to animate (.yaml, .gltf, .glb); empty for the built-in humanoid")
	fs.BoolVar(&cfg.Window.Enabled, "window", cfg.Window.Enabled, "Open an input window")
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "Pose server address")
	fs.BoolVar(&cfg.Engine.Profiling, "profile", cfg.Engine.Profiling, "Log tick rate and memory statistics")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	var win window.Window
	if cfg.Window.Enabled {
		win, err = window.NewWindow(
			window.WithTitle(cfg.Window.Title),
			window.WithSize(cfg.Window.Width, cfg.Window.Height),
		)
		if err != nil {
			return err
		}
		win.SetKeyDownCallback(func(key uint32) { a.handleKeyDown(key) })
		win.SetScrollCallback(a.handleScroll)
	}

	eng := engine.NewEngine(
		engine.WithTickRate(cfg.Engine.TickRate),
		engine.WithProfiling(cfg.Engine.Profiling),
		engine.WithScene(0, a.scene),
		engine.WithWindow(win),
	)
	if win != nil {
		var sinceTitle time.Duration
		eng.SetFrameCallback(func(dt float32) {
			sinceTitle += time.Duration(float64(dt) * float64(time.Second))
			if sinceTitle < titleInterval {
				return
			}
			sinceTitle = 0
			win.SetTitle(a.title())
		})
	}

	if cfg.Rig.Watch && cfg.Rig.Path != "" {
		if err := a.loader.Watch(ctx, cfg.Rig.Path, a.reload); err != nil {
			log.Printf("[Rig] hot reload disabled: %v", err)
		}
	}

	serverDone := make(chan struct{})
	if cfg.Server.Enabled {
		srv := server.NewServer(a.scene,
			server.WithAddr(cfg.Server.Addr),
			server.WithProfiler(eng.Profiler()),
			server.WithBroadcastRate(cfg.Server.BroadcastRate),
			server.WithClientQueue(cfg.Server.ClientQueue),
			server.WithAllowedOrigins("*"),
		)
		go func() {
			defer close(serverDone)
			if err := srv.ListenAndServe(ctx); err != nil {
				log.Printf("[Server] %v", err)
				eng.Quit()
			}
		}()
	} else {
		close(serverDone)
	}

	err = eng.Run(ctx)
	cancel()
	<-serverDone
	return err
}

func exportCommand(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringVar(&cfg.Rig.Path, "rig", cfg.Rig.Path, "Rig file to convert; empty for the built-in humanoid")
	target := fs.String("out", "", "Destination file (.yaml, .gltf, .glb)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *target == "" {
		return errors.New("export: -out is required")
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	asset, _, _ := a.current()
	if err := a.loader.Save(*target, asset); err != nil {
		return err
	}
	info, err := os.Stat(*target)
	if err != nil {
		return errors.Wrap(err, "failed to stat export")
	}
	fmt.Fprintf(out, "wrote %s (%s, %d nodes, %d tracks)\n",
		*target, humanize.Bytes(uint64(info.Size())), len(asset.Nodes()), asset.Timeline.Len())
	return nil
}

func dumpCommand(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.StringVar(&cfg.Rig.Path, "rig", cfg.Rig.Path, "Rig file to pose; empty for the built-in humanoid")
	tick := fs.Float64("tick", 0, "Timeline time in ticks")
	format := fs.String("format", "yaml", "Output format: yaml, json or spew")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	_, anim, _ := a.current()
	anim.SetTime(*tick)
	return writePoses(out, *format, a.scene.Poses())
}

func writePoses(out io.Writer, format string, poses []scene.Pose) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(poses); err != nil {
			return errors.Wrap(err, "failed to encode poses")
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(poses), "failed to encode poses")
	case "spew":
		cfg := spew.NewDefaultConfig()
		cfg.DisableCapacities = true
		cfg.DisablePointerAddresses = true
		cfg.Fdump(out, poses)
		return nil
	default:
		return errors.Errorf("unknown dump format %q", format)
	}
}
