package plan

import (
	"errors"
	"os/exec"
	"strings"

	"termview/internal/config"
	"termview/internal/options"
	"termview/internal/termgeom"
)

// Role labels a stage for diagnostics and dry-run output.
type Role string

const (
	RoleVideo  Role = "video"
	RoleRender Role = "render"
	RoleAudio  Role = "audio"
)

// Stage is one external-tool invocation. Argv[0] is the binary.
type Stage struct {
	Role Role
	Argv []string
}

// Plan is the full set of process invocations for one run.
type Plan struct {
	Format options.Format

	// Stages run in order. When Piped is set there are exactly two and the
	// first's stdout feeds the second's stdin; otherwise each stage runs to
	// completion before the next starts.
	Stages []Stage
	Piped  bool

	Audio *Stage

	// ReadsStdin marks the first stage as consuming the caller's stdin
	// (streaming input). PromptsOnStdin instead attaches the terminal so the
	// transcoder can ask before overwriting a named output.
	ReadsStdin     bool
	PromptsOnStdin bool

	// TempFrame is the intermediate still-frame path when the plan uses the
	// extraction pattern, empty otherwise.
	TempFrame string
}

// ErrMissingTool reports a required external tool absent from PATH.
var ErrMissingTool = errors.New("required tool not available")

// Environment carries everything Compose needs beyond the resolved config.
// LookPath is injectable for tests and defaults to exec.LookPath.
type Environment struct {
	Tools         config.Tools
	Workspace     string
	Geometry      termgeom.Geometry
	GeometryKnown bool
	LookPath      func(string) (string, error)
}

func (e Environment) lookPath(binary string) (string, error) {
	if e.LookPath != nil {
		return e.LookPath(binary)
	}
	return exec.LookPath(binary)
}

// splitCommand turns a configured tool command such as "kitten icat" into
// argv tokens.
func splitCommand(command string) []string {
	return strings.Fields(command)
}

// hasFlag reports whether any existing token already sets the given flag,
// matching both "--width" and "--width=80" spellings.
func hasFlag(tokens []string, flag string) bool {
	for _, token := range tokens {
		if token == flag || strings.HasPrefix(token, flag+"=") {
			return true
		}
	}
	return false
}
