package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// KeyFrameView is the JSON form of one keyframe. Rotation is in radians.
type KeyFrameView struct {
	Tick     uint32     `json:"tick"`
	Channels string     `json:"channels"`
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Vec3 `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
	Order    string     `json:"order"`
}

// TrackView is the keyframe list of one node.
type TrackView struct {
	NodeID    uint64         `json:"node_id"`
	Node      string         `json:"node"`
	KeyFrames []KeyFrameView `json:"keyframes"`
}

// TimelineView is an animator's playback state and its timeline.
type TimelineView struct {
	Animator       string      `json:"animator"`
	Timeline       string      `json:"timeline"`
	TicksPerSecond float32     `json:"ticks_per_second"`
	MaxTick        uint32      `json:"max_tick"`
	Time           float64     `json:"time"`
	Playing        bool        `json:"playing"`
	Looping        bool        `json:"looping"`
	Tracks         []TrackView `json:"tracks"`
}

// NewTimelineView snapshots an animator and its timeline.
//
// Parameters:
//   - a: the animator
//
// Returns:
//   - TimelineView: the snapshot
func NewTimelineView(a animator.Animator) TimelineView {
	tl := a.Timeline()
	view := TimelineView{
		Animator:       a.Name(),
		Timeline:       tl.Name(),
		TicksPerSecond: a.TicksPerSecond(),
		MaxTick:        uint32(tl.MaxTick()),
		Time:           a.Time(),
		Playing:        a.Playing(),
		Looping:        a.Looping(),
		Tracks:         []TrackView{},
	}
	for _, target := range tl.Targets() {
		track := TrackView{NodeID: target.ID(), Node: target.Name()}
		for _, kf := range tl.KeyFrames(target) {
			track.KeyFrames = append(track.KeyFrames, KeyFrameView{
				Tick:     uint32(kf.Tick),
				Channels: kf.Channels.String(),
				Position: kf.Transform.Position(),
				Rotation: kf.Transform.Rotation(),
				Scale:    kf.Transform.ScaleFactors(),
				Order:    kf.Transform.Order().String(),
			})
		}
		view.Tracks = append(view.Tracks, track)
	}
	return view
}

func (s *server) handleScene(w http.ResponseWriter, r *http.Request) {
	if s.scene == nil {
		writeError(w, http.StatusNotFound, errors.New("no scene"))
		return
	}
	writeJSON(w, s.scene.Frame())
}

func (s *server) handleNode(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if s.scene == nil {
		writeError(w, http.StatusNotFound, errors.New("no scene"))
		return
	}
	for _, pose := range s.scene.Poses() {
		if pose.Name == name {
			writeJSON(w, pose)
			return
		}
	}
	writeError(w, http.StatusNotFound, errors.Errorf("node %q not found", name))
}

func (s *server) handleTimelines(w http.ResponseWriter, r *http.Request) {
	views := []TimelineView{}
	if s.scene != nil {
		for _, a := range s.scene.Animators() {
			views = append(views, NewTimelineView(a))
		}
	}
	writeJSON(w, views)
}

func (s *server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	a, err := s.lookupAnimator(mux.Vars(r)["animator"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, NewTimelineView(a))
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.profiler == nil {
		writeError(w, http.StatusNotFound, errors.New("profiling is disabled"))
		return
	}
	writeJSON(w, s.profiler.Stats())
}

func (s *server) handleAction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := s.lookupAnimator(vars["animator"])
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	var action func()
	switch vars["action"] {
	case "play":
		action = func() { a.Play(false) }
	case "loop":
		action = func() { a.Play(true) }
	case "pause":
		action = a.Pause
	case "resume":
		action = a.Resume
	case "stop":
		action = a.Stop
	default:
		writeError(w, http.StatusBadRequest, errors.Errorf("unknown action %q", vars["action"]))
		return
	}
	// Play and Stop write node transforms.
	s.scene.Apply(action)
	writeJSON(w, NewTimelineView(a))
}

func (s *server) handlePoseStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Printf("[Server] ws upgrade failed: %v", err)
		return
	}

	c := s.hub.register(conn)
	if c == nil {
		conn.Close()
		return
	}
	go s.hub.writePump(c, s.pingInterval, s.writeTimeout)
	go s.hub.readPump(c, s.pingInterval)
}

func (s *server) lookupAnimator(name string) (animator.Animator, error) {
	if s.scene == nil {
		return nil, errors.New("no scene")
	}
	a := s.scene.Animator(name)
	if a == nil {
		return nil, errors.Errorf("animator %q not found", name)
	}
	return a, nil
}

func writeJSON(w http.ResponseWriter, data any) {
	res, err := json.Marshal(data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to encode response"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(res); err != nil {
		log.Printf("[Server] error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	type jsonError struct {
		Error string `json:"error"`
	}
	res, _ := json.Marshal(jsonError{Error: err.Error()})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(res); err != nil {
		log.Printf("[Server] error writing response: %v", err)
	}
}
