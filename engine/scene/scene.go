package scene

import (
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/camera"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// Scene holds root GameObjects, the Animators that drive them, a Camera and a set
// of Lights. Update advances every animator and republishes the frame snapshot;
// readers on other goroutines only ever see whole frames through Frame.
// Scenes can be hot-swapped via the Active flag.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently updated by the engine.
	Active() bool

	// SetActive sets whether this scene is updated by the engine.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Lights returns the scene's lights in insertion order.
	Lights() []light.Light

	// AddLight appends a light. Nil lights are ignored.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight removes a light.
	//
	// Parameters:
	//   - l: the light to remove
	//
	// Returns:
	//   - bool: true if the light was present
	RemoveLight(l light.Light) bool

	// Add registers a root GameObject. Nil objects are ignored.
	//
	// Parameters:
	//   - obj: the root to add
	//
	// Returns:
	//   - uint64: the object's ID, or 0 for nil
	Add(obj game_object.GameObject) uint64

	// Get finds a node by ID anywhere under the scene's roots.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the node's ID
	//
	// Returns:
	//   - game_object.GameObject: the node or nil
	Get(id uint64) game_object.GameObject

	// Find finds the first node with the given name under the scene's roots.
	//
	// Parameters:
	//   - name: the node's name
	//
	// Returns:
	//   - game_object.GameObject: the node or nil
	Find(name string) game_object.GameObject

	// Remove unregisters a root by ID.
	//
	// Parameters:
	//   - id: the root's ID
	Remove(id uint64)

	// Roots returns the registered roots in insertion order.
	Roots() []game_object.GameObject

	// Count returns the number of registered roots.
	Count() int

	// AddAnimator registers an Animator to be advanced by Update. Nil animators are ignored.
	//
	// Parameters:
	//   - a: the animator to add
	AddAnimator(a animator.Animator)

	// RemoveAnimator unregisters an Animator by ID.
	//
	// Parameters:
	//   - id: the animator's ID
	RemoveAnimator(id uint64)

	// Animators returns the registered animators in insertion order.
	Animators() []animator.Animator

	// Animator finds a registered animator by name.
	//
	// Parameters:
	//   - name: the animator's name
	//
	// Returns:
	//   - animator.Animator: the animator or nil
	Animator(name string) animator.Animator

	// Clear removes all roots, animators and lights.
	Clear()

	// Apply runs fn while holding the scene's write lock, so it never overlaps an
	// Update or a pose read. Use it to mutate node transforms from input handlers and
	// to run animator playback control. fn must not call back into the scene.
	//
	// Parameters:
	//   - fn: the mutation to run
	Apply(fn func())

	// Update advances all animators by deltaTime in parallel, updates the camera,
	// runs the registered update hooks and publishes a new frame snapshot.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last update in seconds
	Update(deltaTime float32)

	// OnUpdate registers a hook called from Update after the animators have run,
	// with the scene's write lock held. Hooks must not call back into the scene.
	//
	// Parameters:
	//   - hook: function receiving the delta time and total elapsed seconds
	OnUpdate(hook func(deltaTime float32, elapsed float64))

	// Render walks every root and invokes each node's Drawable with its world matrix.
	Render()

	// Poses evaluates every root and returns the flattened world poses.
	Poses() []Pose

	// Frame returns the snapshot published by the last Update.
	Frame() Frame

	// Elapsed returns the total simulated seconds passed to Update.
	Elapsed() float64
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam    camera.Camera
	lights []light.Light

	roots     []game_object.GameObject
	animators []animator.Animator
	hooks     []func(deltaTime float32, elapsed float64)

	elapsed  float64
	sequence uint64
	frame    Frame

	// updatePool advances animators in parallel. Workers persist across frames.
	updatePool    worker.DynamicWorkerPool
	updateWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene. A default camera is created when none is supplied
// through WithCamera.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:            &sync.RWMutex{},
		name:          name,
		active:        true,
		updateWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	if s.cam == nil {
		s.cam = camera.NewCamera()
	}

	// Initialize the pool after options so WithUpdateWorkers can override the default.
	s.updatePool = worker.NewDynamicWorkerPool(s.updateWorkers, 256, 1*time.Second)
	s.frame = s.buildFrame()

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return true
		}
	}
	return false
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roots {
		if r == obj {
			return obj.ID()
		}
	}
	s.roots = append(s.roots, obj)
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roots {
		if found := findByID(r, id); found != nil {
			return found
		}
	}
	return nil
}

func (s *scene) Find(name string) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roots {
		if found := r.Find(name); found != nil {
			return found
		}
	}
	return nil
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.roots {
		if r.ID() == id {
			s.roots = append(s.roots[:i], s.roots[i+1:]...)
			return
		}
	}
}

func (s *scene) Roots() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.roots))
	copy(out, s.roots)
	return out
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.roots)
}

func (s *scene) AddAnimator(a animator.Animator) {
	if a == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.animators {
		if existing.ID() == a.ID() {
			return
		}
	}
	s.animators = append(s.animators, a)
}

func (s *scene) RemoveAnimator(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.animators {
		if a.ID() == id {
			s.animators = append(s.animators[:i], s.animators[i+1:]...)
			return
		}
	}
}

func (s *scene) Animators() []animator.Animator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]animator.Animator, len(s.animators))
	copy(out, s.animators)
	return out
}

func (s *scene) Animator(name string) animator.Animator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.animators {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roots = nil
	s.animators = nil
	s.lights = nil
	s.frame = s.buildFrame()
}

func (s *scene) Apply(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *scene) OnUpdate(hook func(deltaTime float32, elapsed float64)) {
	if hook == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

func (s *scene) Update(deltaTime float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Each animator owns a disjoint set of nodes, so they can be advanced in parallel.
	// A WaitGroup provides per-frame barrier sync since pool.Wait() blocks until
	// workers idle-exit which is unsuitable for frame-rate workloads.
	var wg sync.WaitGroup
	for i, a := range s.animators {
		wg.Add(1)
		aCap := a // capture for closure
		s.updatePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				aCap.PrepareFrame(deltaTime)
				return nil, nil
			},
		})
	}
	wg.Wait()

	s.elapsed += float64(deltaTime)
	for _, hook := range s.hooks {
		hook(deltaTime, s.elapsed)
	}

	s.cam.Update()
	s.sequence++
	s.frame = s.buildFrame()
}

func (s *scene) Render() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roots {
		Render(r)
	}
}

func (s *scene) Poses() []Pose {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.poses()
}

func (s *scene) Frame() Frame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

func (s *scene) Elapsed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

// poses evaluates all roots. Caller must hold the lock.
func (s *scene) poses() []Pose {
	var out []Pose
	for _, r := range s.roots {
		out = append(out, Poses(r)...)
	}
	return out
}

// buildFrame snapshots the current state. Caller must hold the lock.
func (s *scene) buildFrame() Frame {
	f := Frame{
		Scene:    s.name,
		Sequence: s.sequence,
		Elapsed:  s.elapsed,
		Poses:    s.poses(),
	}
	if s.cam != nil {
		f.Camera = CameraState{
			Position:   s.cam.Position(),
			View:       s.cam.ViewMatrix(),
			Projection: s.cam.ProjectionMatrix(),
		}
	}
	for _, l := range s.lights {
		f.Lights = append(f.Lights, LightState{
			Name:     l.Name(),
			Type:     l.Type().String(),
			Enabled:  l.Enabled(),
			Ambient:  l.Ambient(),
			Diffuse:  l.Diffuse(),
			Specular: l.Specular(),
			Position: l.Position(),
		})
	}
	for _, a := range s.animators {
		f.Animators = append(f.Animators, AnimatorState{
			ID:      a.ID(),
			Name:    a.Name(),
			Time:    a.Time(),
			MaxTick: uint32(a.Timeline().MaxTick()),
			Playing: a.Playing(),
			Looping: a.Looping(),
		})
	}
	return f
}

func findByID(root game_object.GameObject, id uint64) game_object.GameObject {
	if root.ID() == id {
		return root
	}
	for _, c := range root.Children() {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// CameraState is the camera part of a Frame.
type CameraState struct {
	Position   mgl32.Vec3 `json:"position" yaml:"position,flow"`
	View       mgl32.Mat4 `json:"view" yaml:"view,flow"`
	Projection mgl32.Mat4 `json:"projection" yaml:"projection,flow"`
}

// LightState is one light in a Frame.
type LightState struct {
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Type     string     `json:"type" yaml:"type"`
	Enabled  bool       `json:"enabled" yaml:"enabled"`
	Ambient  mgl32.Vec4 `json:"ambient" yaml:"ambient,flow"`
	Diffuse  mgl32.Vec4 `json:"diffuse" yaml:"diffuse,flow"`
	Specular mgl32.Vec4 `json:"specular" yaml:"specular,flow"`
	Position mgl32.Vec4 `json:"position" yaml:"position,flow"`
}

// AnimatorState is the playback state of one animator in a Frame.
type AnimatorState struct {
	ID      uint64  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Time    float64 `json:"time" yaml:"time"`
	MaxTick uint32  `json:"max_tick" yaml:"max_tick"`
	Playing bool    `json:"playing" yaml:"playing"`
	Looping bool    `json:"looping" yaml:"looping"`
}

// Frame is an immutable snapshot of a scene after an Update, suitable for
// handing to a renderer on another goroutine or serializing to a viewer.
type Frame struct {
	Scene     string          `json:"scene" yaml:"scene"`
	Sequence  uint64          `json:"seq" yaml:"seq"`
	Elapsed   float64         `json:"elapsed" yaml:"elapsed"`
	Camera    CameraState     `json:"camera" yaml:"camera"`
	Lights    []LightState    `json:"lights" yaml:"lights"`
	Animators []AnimatorState `json:"animators" yaml:"animators"`
	Poses     []Pose          `json:"poses" yaml:"poses"`
}
