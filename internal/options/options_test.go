package options

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"termview/internal/logging"
	"termview/internal/profile"
)

func emptyProfiles(t *testing.T) *profile.Set {
	t.Helper()
	set, err := profile.Load(filepath.Join(t.TempDir(), "none.toml"), IsValidFormat, logging.NewNop())
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	return set
}

func profilesWith(t *testing.T, body string) *profile.Set {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write profiles: %v", err)
	}
	set, err := profile.Load(path, IsValidFormat, logging.NewNop())
	if err != nil {
		t.Fatalf("load profiles: %v", err)
	}
	return set
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(Flags{}, emptyProfiles(t))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Input != Stream || cfg.Output != Stream {
		t.Fatalf("expected stream sentinels, got %q -> %q", cfg.Input, cfg.Output)
	}
	if cfg.Format != FormatSixel {
		t.Fatalf("default format should be sixel, got %s", cfg.Format)
	}
	if cfg.FPS != 10 {
		t.Fatalf("default fps should be 10, got %d", cfg.FPS)
	}
	if cfg.Audio || cfg.DryRun || cfg.Verbose {
		t.Fatalf("unexpected toggles in %#v", cfg)
	}
}

func TestResolveUnknownProfile(t *testing.T) {
	_, err := Resolve(Flags{UseProfile: "does-not-exist"}, emptyProfiles(t))
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected unknown profile error, got %v", err)
	}
}

func TestResolveProfileSuppliesDefaultsExplicitFlagsWin(t *testing.T) {
	set := profilesWith(t, `
[crisp]
description = "test profile"
format = "gif"
video_flags = "-vf fps=24"
render_flags = "-p 16"
audio_flags = "--volume=50"
`)

	cfg, err := Resolve(Flags{UseProfile: "crisp"}, set)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Format != FormatGIF {
		t.Fatalf("profile format not applied: %s", cfg.Format)
	}
	if !reflect.DeepEqual(cfg.VideoFlags, []string{"-vf", "fps=24"}) {
		t.Fatalf("profile video flags not applied: %v", cfg.VideoFlags)
	}
	if !reflect.DeepEqual(cfg.RenderFlags, []string{"-p", "16"}) {
		t.Fatalf("profile render flags not applied: %v", cfg.RenderFlags)
	}
	if !reflect.DeepEqual(cfg.AudioFlags, []string{"--volume=50"}) {
		t.Fatalf("profile audio flags not applied: %v", cfg.AudioFlags)
	}

	overridden, err := Resolve(Flags{
		UseProfile: "crisp",
		Format:     "mp4",
		FormatSet:  true,
		VideoFlags: []string{"-an"},
	}, set)
	if err != nil {
		t.Fatalf("Resolve with overrides: %v", err)
	}
	if overridden.Format != FormatMP4 {
		t.Fatalf("explicit --format should win over profile, got %s", overridden.Format)
	}
	if !reflect.DeepEqual(overridden.VideoFlags, []string{"-vf", "fps=24", "-an"}) {
		t.Fatalf("extra flags should append after profile flags: %v", overridden.VideoFlags)
	}
}

func TestResolveRejectsEmptyFlagValues(t *testing.T) {
	if _, err := Resolve(Flags{VideoFlags: []string{"  "}}, emptyProfiles(t)); !errors.Is(err, ErrEmptyFlagValue) {
		t.Fatalf("expected empty --video-flags rejection, got %v", err)
	}
	if _, err := Resolve(Flags{AudioFlags: []string{""}}, emptyProfiles(t)); !errors.Is(err, ErrEmptyFlagValue) {
		t.Fatalf("expected empty --audio-flags rejection, got %v", err)
	}
}

func TestResolveRejectsExplicitEmptyFormat(t *testing.T) {
	// -f "" is a given-but-blank flag, not an invitation to fall back to
	// the profile or the sixel default.
	_, err := Resolve(Flags{Format: "", FormatSet: true}, emptyProfiles(t))
	if !errors.Is(err, ErrEmptyFlagValue) {
		t.Fatalf("expected empty --format rejection, got %v", err)
	}

	set := profilesWith(t, "[animated]\nformat = \"gif\"\n")
	if _, err := Resolve(Flags{UseProfile: "animated", Format: "  ", FormatSet: true}, set); !errors.Is(err, ErrEmptyFlagValue) {
		t.Fatalf("blank --format must not defer to the profile, got %v", err)
	}
}

func TestResolveRejectsOutputForTerminalFormats(t *testing.T) {
	for _, name := range []string{"sixel", "kitty", "ascii", "ansi", "utf8", "caca"} {
		_, err := Resolve(Flags{Format: name, FormatSet: true, Output: "out.bin"}, emptyProfiles(t))
		if !errors.Is(err, ErrUsage) {
			t.Fatalf("format %s: --output should be rejected, got %v", name, err)
		}
	}
	for _, name := range []string{"gif", "mp4"} {
		if _, err := Resolve(Flags{Format: name, FormatSet: true, Output: "out.bin"}, emptyProfiles(t)); err != nil {
			t.Fatalf("format %s: --output should be accepted: %v", name, err)
		}
	}
}

func TestResolveRejectsUnknownFormat(t *testing.T) {
	_, err := Resolve(Flags{Format: "hologram", FormatSet: true}, emptyProfiles(t))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestResolveRejectsBadFPS(t *testing.T) {
	_, err := Resolve(Flags{FPS: 0, FPSSet: true}, emptyProfiles(t))
	if !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error for fps=0, got %v", err)
	}
}

func TestResolveInputValidation(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.mkv")
	if _, err := Resolve(Flags{Input: missing}, emptyProfiles(t)); !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("expected input-not-found error, got %v", err)
	}

	dir := t.TempDir()
	if _, err := Resolve(Flags{Input: dir}, emptyProfiles(t)); !errors.Is(err, ErrInputNotFound) {
		t.Fatalf("directories are not valid inputs, got %v", err)
	}

	real := filepath.Join(dir, "clip.mkv")
	if err := os.WriteFile(real, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	cfg, err := Resolve(Flags{Positional: []string{real}}, emptyProfiles(t))
	if err != nil {
		t.Fatalf("Resolve with positional input: %v", err)
	}
	if cfg.Input != real {
		t.Fatalf("positional input not used: %q", cfg.Input)
	}
}

func TestResolveTrailingTokensBecomeVideoFlags(t *testing.T) {
	cfg, err := Resolve(Flags{
		VideoFlags: []string{"-vf fps=5"},
		Trailing:   []string{"-pix_fmt", "rgb24"},
	}, emptyProfiles(t))
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"-vf", "fps=5", "-pix_fmt", "rgb24"}
	if !reflect.DeepEqual(cfg.VideoFlags, want) {
		t.Fatalf("trailing tokens mishandled: got %v want %v", cfg.VideoFlags, want)
	}
}

func TestResolveRejectsConflictingInputs(t *testing.T) {
	dir := t.TempDir()
	real := filepath.Join(dir, "a.mkv")
	if err := os.WriteFile(real, []byte("x"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	if _, err := Resolve(Flags{Input: real, Positional: []string{real}}, emptyProfiles(t)); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if _, err := Resolve(Flags{Positional: []string{real, real}}, emptyProfiles(t)); !errors.Is(err, ErrUsage) {
		t.Fatalf("expected usage error for two positionals, got %v", err)
	}
}

func TestParseFormatCoversTable(t *testing.T) {
	for _, name := range FormatNames() {
		format, err := ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		if format.String() != name {
			t.Fatalf("round trip failed for %q: %s", name, format)
		}
	}
	if IsValidFormat("tiff") {
		t.Fatal("tiff should not validate")
	}
}
