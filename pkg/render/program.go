package render

import (
	"errors"
	"fmt"
)

// ErrUnknownProgram is returned by Library.Lookup for unregistered names.
var ErrUnknownProgram = errors.New("render: unknown program")

// ProgramKind selects the vertex-stage contract.
type ProgramKind int

const (
	// ProgramPerspective composes proj * view * transform; the standard
	// 3D object path with attributes position and tex_coord.
	ProgramPerspective ProgramKind = iota
	// ProgramScreen applies the transform only; geometry is expressed
	// directly in pixel coordinates of a fixed 2D overlay space.
	ProgramScreen
)

// FragMode selects the fragment-stage contract of the unlit shader: flat
// color, an RGB texture sample, or an alpha-only sample masked by the
// color uniform.
type FragMode int

const (
	FragFlatColor FragMode = iota
	FragTexture
	FragAlphaMask
)

// Program is a compiled shader program identified by name, exposing a
// fixed attribute/uniform contract described by its Kind and Frag mode.
type Program struct {
	Name string
	Kind ProgramKind
	Frag FragMode
}

// Names of the built-in programs every Library starts with.
const (
	ProgramUnlit         = "unlit"          // perspective, flat color
	ProgramUnlitTextured = "unlit-textured" // perspective, RGB texture
	ProgramText          = "text"           // screen space, alpha mask
)

// Library resolves program names to compiled programs.
type Library struct {
	programs map[string]*Program
}

// NewLibrary creates a program library holding the built-in programs.
func NewLibrary() *Library {
	l := &Library{programs: make(map[string]*Program)}
	l.Register(&Program{Name: ProgramUnlit, Kind: ProgramPerspective, Frag: FragFlatColor})
	l.Register(&Program{Name: ProgramUnlitTextured, Kind: ProgramPerspective, Frag: FragTexture})
	l.Register(&Program{Name: ProgramText, Kind: ProgramScreen, Frag: FragAlphaMask})
	return l
}

// Register adds or replaces a program under its name.
func (l *Library) Register(p *Program) {
	l.programs[p.Name] = p
}

// Lookup returns the program registered under name.
func (l *Library) Lookup(name string) (*Program, error) {
	p, ok := l.programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	return p, nil
}
