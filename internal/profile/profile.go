package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"termview/internal/logging"
)

// Profile is a named bundle of default tool flags.
type Profile struct {
	Name        string
	Description string
	Format      string
	VideoFlags  string
	RenderFlags string
	AudioFlags  string
}

// Set is the merged, read-only profile table for one run.
type Set struct {
	byName map[string]Profile
}

// ErrNotFound reports a profile name absent from the merged set.
var ErrNotFound = errors.New("unknown profile")

// FormatValidator reports whether a format name is usable. The options layer
// supplies the closed format set so this package stays free of format logic.
type FormatValidator func(string) bool

// Load merges the built-in profiles with user overrides at path. A missing
// file is not an error. A syntactically broken file, or an invalid entry
// inside it, is skipped with a warning; built-ins and valid entries always
// survive.
func Load(path string, validFormat FormatValidator, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	set := &Set{byName: make(map[string]Profile, len(builtins))}
	for _, p := range builtins {
		set.byName[p.Name] = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var raw map[string]map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		logger.Warn("profile file unparseable, using built-ins only",
			"path", path, "error", err)
		return set, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p, err := decodeEntry(name, raw[name], validFormat)
		if err != nil {
			logger.Warn("skipping invalid profile entry", "profile", name, "error", err)
			continue
		}
		set.byName[p.Name] = p
	}
	return set, nil
}

func decodeEntry(name string, fields map[string]any, validFormat FormatValidator) (Profile, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Profile{}, errors.New("empty profile name")
	}

	p := Profile{Name: trimmed}
	for key, value := range fields {
		text, ok := value.(string)
		if !ok {
			return Profile{}, fmt.Errorf("field %q must be a string", key)
		}
		switch key {
		case "description":
			p.Description = strings.TrimSpace(text)
		case "format":
			p.Format = strings.ToLower(strings.TrimSpace(text))
		case "video_flags":
			p.VideoFlags = strings.TrimSpace(text)
		case "render_flags":
			p.RenderFlags = strings.TrimSpace(text)
		case "audio_flags":
			p.AudioFlags = strings.TrimSpace(text)
		default:
			return Profile{}, fmt.Errorf("unknown field %q", key)
		}
	}

	if p.Format == "" {
		return Profile{}, errors.New("format is required")
	}
	if validFormat != nil && !validFormat(p.Format) {
		return Profile{}, fmt.Errorf("unsupported format %q", p.Format)
	}
	return p, nil
}

// Get returns the named profile or ErrNotFound.
func (s *Set) Get(name string) (Profile, error) {
	p, ok := s.byName[strings.TrimSpace(name)]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, nil
}

// Names returns every profile name in sorted order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.byName))
	for name := range s.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListRow is one display row for profile listing.
type ListRow struct {
	Name        string
	Format      string
	Description string
	FlagSummary string
}

// List returns display rows in stable (sorted) order.
func (s *Set) List() []ListRow {
	rows := make([]ListRow, 0, len(s.byName))
	for _, name := range s.Names() {
		p := s.byName[name]
		rows = append(rows, ListRow{
			Name:        p.Name,
			Format:      p.Format,
			Description: p.Description,
			FlagSummary: summarizeFlags(p),
		})
	}
	return rows
}

func summarizeFlags(p Profile) string {
	parts := make([]string, 0, 3)
	if p.VideoFlags != "" {
		parts = append(parts, "video: "+p.VideoFlags)
	}
	if p.RenderFlags != "" {
		parts = append(parts, "render: "+p.RenderFlags)
	}
	if p.AudioFlags != "" {
		parts = append(parts, "audio: "+p.AudioFlags)
	}
	if len(parts) == 0 {
		return "tool defaults"
	}
	return strings.Join(parts, "; ")
}
