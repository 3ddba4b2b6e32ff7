package main

import (
	"fmt"
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/camera"
	"github.com/Carmen-Shannon/oxy-anim/engine/config"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/light"
	"github.com/Carmen-Shannon/oxy-anim/engine/loader"
	"github.com/Carmen-Shannon/oxy-anim/engine/rig"
	"github.com/Carmen-Shannon/oxy-anim/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// app wires a rig asset into a scene with a camera, an orbiting light and keyboard controls.
type app struct {
	mu *sync.Mutex

	cfg        *config.Config
	loader     loader.Loader
	scene      scene.Scene
	camera     camera.Camera
	controller camera.CameraController
	light      light.Light

	asset    *loader.Asset
	animator animator.Animator
	selected game_object.GameObject
}

func newApp(cfg *config.Config) (*app, error) {
	a := &app{
		mu:     &sync.Mutex{},
		cfg:    cfg,
		loader: loader.NewLoader(loader.WithTicksPerSecond(cfg.Animation.TicksPerSecond)),
	}

	a.camera = camera.NewCamera(
		camera.WithFovDegrees(cfg.Camera.FovDegrees),
		camera.WithClipPlanes(cfg.Camera.Near, cfg.Camera.Far),
		camera.WithAspect(float32(cfg.Window.Width)/float32(cfg.Window.Height)),
		camera.WithPosition(cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]),
		camera.WithRotation(cfg.Camera.Rotation[0], cfg.Camera.Rotation[1], cfg.Camera.Rotation[2]),
	)
	a.controller = camera.NewCameraController(a.camera)
	a.light = light.NewLight(light.WithName("key"))

	a.scene = scene.NewScene("oxyrig",
		scene.WithCamera(a.camera),
		scene.WithLights(a.light),
		scene.WithUpdateWorkers(cfg.Engine.UpdateWorkers),
	)
	if cfg.Light.OrbitSpeed != 0 {
		a.scene.OnUpdate(func(_ float32, elapsed float64) {
			a.light.Orbit(float32(elapsed)*cfg.Light.OrbitSpeed, cfg.Light.OrbitRadius)
		})
	}

	asset, err := a.loadAsset()
	if err != nil {
		return nil, err
	}
	a.install(asset)
	return a, nil
}

// loadAsset reads the configured rig file, or builds the walking humanoid when none is set.
func (a *app) loadAsset() (*loader.Asset, error) {
	if a.cfg.Rig.Path != "" {
		asset, err := a.loader.Load(a.cfg.Rig.Path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load rig")
		}
		return asset, nil
	}
	return humanoidAsset(a.cfg), nil
}

// humanoidAsset packages the built-in humanoid and its walk cycle as an asset.
func humanoidAsset(cfg *config.Config) *loader.Asset {
	h := rig.NewHumanoid()
	return &loader.Asset{
		Name:           "humanoid",
		Roots:          []game_object.GameObject{h.Root()},
		Timeline:       rig.WalkCycle(h, animator.Tick(cfg.Animation.WalkPeriod)),
		TicksPerSecond: cfg.Animation.TicksPerSecond,
		Loop:           cfg.Animation.Loop,
	}
}

// install swaps the scene's current rig for asset and starts its animator.
func (a *app) install(asset *loader.Asset) {
	a.mu.Lock()
	old, oldAnim := a.asset, a.animator
	a.mu.Unlock()

	if old != nil {
		for _, root := range old.Roots {
			a.scene.Remove(root.ID())
		}
	}
	if oldAnim != nil {
		a.scene.RemoveAnimator(oldAnim.ID())
	}

	options := []animator.AnimatorBuilderOption{animator.WithSpeed(a.cfg.Animation.Speed)}
	if a.cfg.Animation.AutoPlay {
		options = append(options, animator.WithAutoPlay())
	}
	anim := asset.NewAnimator(options...)

	for _, root := range asset.Roots {
		a.scene.Add(root)
	}
	a.scene.AddAnimator(anim)

	selected := asset.Find(a.cfg.Rig.Selected)
	if selected == nil && len(asset.Roots) > 0 {
		selected = asset.Roots[0]
	}

	a.mu.Lock()
	a.asset, a.animator, a.selected = asset, anim, selected
	a.mu.Unlock()

	log.Printf("[Rig] installed %q: %d nodes, %d ticks at %.0f tps", asset.Name, len(asset.Nodes()), asset.Timeline.MaxTick(), asset.TicksPerSecond)
}

// reload is the hot reload callback. A failed reload keeps the current rig.
func (a *app) reload(asset *loader.Asset, err error) {
	if err != nil {
		log.Printf("[Rig] reload failed, keeping current rig: %v", err)
		return
	}
	a.install(asset)
}

func (a *app) current() (*loader.Asset, animator.Animator, game_object.GameObject) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.asset, a.animator, a.selected
}

// nodeStep is how far one key press moves or turns the selected node.
const nodeStep float32 = 0.1

// handleKeyDown applies the keyboard bindings. Returns true if the key was consumed.
func (a *app) handleKeyDown(key uint32) bool {
	if a.controller.HandleKeyDown(key) {
		return true
	}

	asset, anim, selected := a.current()
	var delta, turn mgl32.Vec3
	switch key {
	case common.KeyA:
		delta = mgl32.Vec3{-nodeStep, 0, 0}
	case common.KeyD:
		delta = mgl32.Vec3{nodeStep, 0, 0}
	case common.KeyW:
		delta = mgl32.Vec3{0, nodeStep, 0}
	case common.KeyS:
		delta = mgl32.Vec3{0, -nodeStep, 0}
	case common.KeyQ:
		turn = mgl32.Vec3{0, -nodeStep, 0}
	case common.KeyE:
		turn = mgl32.Vec3{0, nodeStep, 0}
	case common.KeyP:
		a.scene.Apply(func() {
			if anim.Playing() {
				anim.Pause()
			} else {
				anim.Resume()
			}
		})
		return true
	case common.KeyR:
		a.scene.Apply(func() { anim.SetTime(0) })
		return true
	case common.KeyTab:
		a.selectNext(asset, selected)
		return true
	case common.KeySpace:
		if selected != nil {
			var tick animator.Tick
			a.scene.Apply(func() {
				tick = animator.Tick(anim.Time() + 0.5)
				anim.Timeline().AddKeyFrameAt(selected, tick, animator.ChannelAll)
			})
			log.Printf("[Rig] keyed %q at tick %d", selected.Name(), tick)
		}
		return true
	default:
		return false
	}

	if selected == nil {
		return true
	}
	a.scene.Apply(func() {
		tr := selected.Transform()
		tr.Translate(delta)
		tr.Rotate(turn)
	})
	return true
}

func (a *app) handleScroll(delta float32) {
	a.controller.HandleScroll(delta)
}

// selectNext moves the selection to the next node in depth-first order, wrapping at the end.
func (a *app) selectNext(asset *loader.Asset, selected game_object.GameObject) {
	nodes := asset.Nodes()
	if len(nodes) == 0 {
		return
	}
	next := nodes[0]
	for i, n := range nodes {
		if selected != nil && n.ID() == selected.ID() {
			next = nodes[(i+1)%len(nodes)]
			break
		}
	}

	a.mu.Lock()
	a.selected = next
	a.mu.Unlock()
	log.Printf("[Rig] selected %q", next.Name())
}

// title summarizes the playback state for the window title bar.
func (a *app) title() string {
	asset, anim, selected := a.current()
	name := "-"
	if selected != nil {
		name = selected.Name()
	}
	state := "paused"
	if anim.Playing() {
		state = "playing"
	}
	return fmt.Sprintf("%s | %s | tick %.1f/%d %s | node %s",
		a.cfg.Window.Title, asset.Name, anim.Time(), anim.Timeline().MaxTick(), state, name)
}
