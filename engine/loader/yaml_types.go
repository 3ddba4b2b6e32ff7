package loader

// yamlRig is the top-level YAML rig document.
//
//	name: walker
//	ticks_per_second: 30
//	loop: true
//	nodes:
//	  - name: pelvis
//	    position: [0, 1, 0]
//	    children:
//	      - name: torso
//	        rotation: [0, 0, 10]   # degrees
//	tracks:
//	  - node: torso
//	    keyframes:
//	      - {tick: 0, rotation: [0, 0, 10]}
//	      - {tick: 15, rotation: [0, 0, -10]}
type yamlRig struct {
	Name           string      `yaml:"name,omitempty"`
	TicksPerSecond float32     `yaml:"ticks_per_second,omitempty"`
	Loop           bool        `yaml:"loop,omitempty"`
	Nodes          []yamlNode  `yaml:"nodes"`
	Tracks         []yamlTrack `yaml:"tracks,omitempty"`
}

// yamlNode describes one scene node and its subtree. Rotation is in degrees.
type yamlNode struct {
	Name     string     `yaml:"name"`
	Position []float32  `yaml:"position,flow,omitempty"`
	Rotation []float32  `yaml:"rotation,flow,omitempty"`
	Scale    []float32  `yaml:"scale,flow,omitempty"`
	Order    string     `yaml:"order,omitempty"`
	Color    []float32  `yaml:"color,flow,omitempty"`
	Enabled  *bool      `yaml:"enabled,omitempty"`
	Children []yamlNode `yaml:"children,omitempty"`
}

// yamlTrack holds the keyframes of the node named by Node.
type yamlTrack struct {
	Node      string         `yaml:"node"`
	KeyFrames []yamlKeyFrame `yaml:"keyframes"`
}

// yamlKeyFrame pins some components of a node at a tick. Components left out keep the
// node's rest value. When Channels is omitted the keyframe drives exactly the
// components it lists.
type yamlKeyFrame struct {
	Tick     uint32    `yaml:"tick"`
	Channels []string  `yaml:"channels,flow,omitempty"`
	Position []float32 `yaml:"position,flow,omitempty"`
	Rotation []float32 `yaml:"rotation,flow,omitempty"`
	Scale    []float32 `yaml:"scale,flow,omitempty"`
}
