package profile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
)

type fileEntry struct {
	Description string `toml:"description"`
	Format      string `toml:"format"`
	VideoFlags  string `toml:"video_flags,omitempty"`
	RenderFlags string `toml:"render_flags,omitempty"`
	AudioFlags  string `toml:"audio_flags,omitempty"`
}

// RestoreDefaults overwrites the override file at path with the built-in
// profile table. The write happens under a sidecar file lock and is
// deterministic, so repeated runs produce byte-identical files.
func RestoreDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock profile file: %w", err)
	}
	if !locked {
		return fmt.Errorf("profile file %s is locked by another process", path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	data, err := renderDefaults()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write profile file: %w", err)
	}
	return nil
}

func renderDefaults() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# termview profiles. Regenerate with --restore-defaults.\n")
	for _, p := range builtins {
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "[%s]\n", tomlKey(p.Name))
		body, err := toml.Marshal(fileEntry{
			Description: p.Description,
			Format:      p.Format,
			VideoFlags:  p.VideoFlags,
			RenderFlags: p.RenderFlags,
			AudioFlags:  p.AudioFlags,
		})
		if err != nil {
			return nil, fmt.Errorf("encode profile %q: %w", p.Name, err)
		}
		buf.Write(body)
	}
	return buf.Bytes(), nil
}

func tomlKey(name string) string {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Sprintf("%q", name)
		}
	}
	return name
}
