package loader

import (
	"fmt"
	"io"
	"log"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/game_object"
	"github.com/Carmen-Shannon/oxy-anim/engine/transform"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct {
	ticksPerSecond float32
}

// gltfImporter turns a glTF/GLB document into an Asset: the default scene's node
// hierarchy plus the first animation resampled onto the tick grid. Meshes, skins and
// materials are ignored.
type gltfImporter interface {
	// Import loads a glTF/GLB file.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *Asset: the imported rig
	//   - error: error if import fails
	Import(path string) (*Asset, error)

	// ImportReader loads a glTF document from a reader. Buffers must be embedded.
	//
	// Parameters:
	//   - r: the reader providing glTF/GLB data
	//
	// Returns:
	//   - *Asset: the imported rig
	//   - error: error if import fails
	ImportReader(r io.Reader) (*Asset, error)
}

var _ gltfImporter = &gltfImporterImpl{}

// newGLTFImporter creates a new glTF importer.
//
// Parameters:
//   - ticksPerSecond: the tick rate used to convert keyframe times in seconds
//
// Returns:
//   - gltfImporter: the importer
func newGLTFImporter(ticksPerSecond float32) gltfImporter {
	return &gltfImporterImpl{ticksPerSecond: ticksPerSecond}
}

func (imp *gltfImporterImpl) Import(path string) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, err
	}
	return imp.importFromParser(parser)
}

func (imp *gltfImporterImpl) ImportReader(r io.Reader) (*Asset, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r); err != nil {
		return nil, err
	}
	return imp.importFromParser(parser)
}

// importFromParser builds the asset from a parser that has already loaded a document.
func (imp *gltfImporterImpl) importFromParser(parser gltfParser) (*Asset, error) {
	doc := parser.Document()
	if doc == nil {
		return nil, errNoDocument
	}

	nodes, roots, sceneName, err := gltfBuildHierarchy(doc)
	if err != nil {
		return nil, errors.Wrap(err, "node hierarchy")
	}

	asset := &Asset{
		Name:           sceneName,
		Roots:          roots,
		TicksPerSecond: imp.ticksPerSecond,
	}

	if len(doc.Animations) == 0 {
		asset.Timeline = animator.NewTimeline(animator.WithTimelineName(sceneName))
		return asset, nil
	}
	if len(doc.Animations) > 1 {
		log.Printf("[Loader] document has %d animations, importing only %q", len(doc.Animations), doc.Animations[0].Name)
	}

	settings := doc.Animations[0].settings()
	if settings.TicksPerSecond > 0 {
		asset.TicksPerSecond = settings.TicksPerSecond
	}
	asset.Loop = settings.Loop

	tl, err := newGLTFAnimationExtractor(parser).ExtractTimeline(0, nodes, asset.TicksPerSecond)
	if err != nil {
		return nil, err
	}
	asset.Timeline = tl
	if asset.Name == "" {
		asset.Name = tl.Name()
	}
	return asset, nil
}

// gltfBuildHierarchy creates one GameObject per glTF node, attaches children and picks
// the roots of the default scene. Without scenes, every parentless node is a root.
func gltfBuildHierarchy(doc *gltfDocument) ([]game_object.GameObject, []game_object.GameObject, string, error) {
	nodes := make([]game_object.GameObject, len(doc.Nodes))
	for i := range doc.Nodes {
		gn := &doc.Nodes[i]
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		nodes[i] = game_object.NewGameObject(
			game_object.WithName(name),
			game_object.WithTransform(gltfNodeTransform(gn)),
		)
	}

	parent := make([]int, len(nodes))
	for i := range parent {
		parent[i] = -1
	}
	for i := range doc.Nodes {
		for _, c := range doc.Nodes[i].Children {
			if c < 0 || c >= len(nodes) {
				return nil, nil, "", errors.Errorf("node %d: child index %d out of range", i, c)
			}
			if c == i || parent[c] != -1 {
				return nil, nil, "", errors.Errorf("node %d has more than one parent", c)
			}
			parent[c] = i
			nodes[i].Attach(nodes[c])
		}
	}

	if len(doc.Scenes) == 0 {
		var roots []game_object.GameObject
		for i, p := range parent {
			if p == -1 {
				roots = append(roots, nodes[i])
			}
		}
		return nodes, roots, "", nil
	}

	sceneIndex := 0
	if doc.Scene != nil {
		sceneIndex = *doc.Scene
	}
	if sceneIndex < 0 || sceneIndex >= len(doc.Scenes) {
		return nil, nil, "", errors.Errorf("default scene %d out of range", sceneIndex)
	}

	scene := doc.Scenes[sceneIndex]
	roots := make([]game_object.GameObject, 0, len(scene.Nodes))
	for _, r := range scene.Nodes {
		if r < 0 || r >= len(nodes) {
			return nil, nil, "", errors.Errorf("scene root %d out of range", r)
		}
		if parent[r] != -1 {
			return nil, nil, "", errors.Errorf("scene root %d is a child of node %d", r, parent[r])
		}
		roots = append(roots, nodes[r])
	}
	return nodes, roots, scene.Name, nil
}

// gltfNodeTransform converts a node's TRS (or matrix) into a TRS-ordered Transform.
func gltfNodeTransform(gn *gltfNode) transform.Transform {
	pos := mgl32.Vec3{}
	rot := mgl32.QuatIdent()
	scl := mgl32.Vec3{1, 1, 1}

	if gn.Matrix != nil {
		if m := mgl32.Mat4(*gn.Matrix); m != mgl32.Ident4() && m != (mgl32.Mat4{}) {
			pos, rot, scl = decomposeMatrix(m)
		}
	}
	if gn.Translation != nil {
		pos = mgl32.Vec3(*gn.Translation)
	}
	if gn.Rotation != nil {
		rot = quatFromXYZW(*gn.Rotation)
	}
	if gn.Scale != nil {
		scl = mgl32.Vec3(*gn.Scale)
	}

	t := transform.New(pos, common.QuatToEuler(rot), scl)
	t.SetOrder(transform.OrderTRS)
	return t
}

// decomposeMatrix splits an affine T*R*S matrix into its parts. A negative determinant
// is folded into the x scale.
func decomposeMatrix(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	pos := m.Col(3).Vec3()
	c0, c1, c2 := m.Col(0).Vec3(), m.Col(1).Vec3(), m.Col(2).Vec3()
	scl := mgl32.Vec3{c0.Len(), c1.Len(), c2.Len()}
	if m.Det() < 0 {
		scl[0] = -scl[0]
	}
	for i := range scl {
		if scl[i] == 0 {
			return pos, mgl32.QuatIdent(), scl
		}
	}

	r := mgl32.Mat4FromCols(
		c0.Mul(1/scl[0]).Vec4(0),
		c1.Mul(1/scl[1]).Vec4(0),
		c2.Mul(1/scl[2]).Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	return pos, mgl32.Mat4ToQuat(r).Normalize(), scl
}

// quatFromXYZW reads a glTF (x, y, z, w) quaternion. A zero quaternion means identity.
func quatFromXYZW(v [4]float32) mgl32.Quat {
	q := mgl32.Quat{W: v[3], V: mgl32.Vec3{v[0], v[1], v[2]}}
	if q.Len() < common.Epsilon {
		return mgl32.QuatIdent()
	}
	return q.Normalize()
}

// quatToXYZW writes q in glTF (x, y, z, w) order.
func quatToXYZW(q mgl32.Quat) [4]float32 {
	return [4]float32{q.V[0], q.V[1], q.V[2], q.W}
}
