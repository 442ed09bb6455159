// Package options turns the parsed command line plus an optional profile
// into one immutable ResolvedConfig per invocation.
package options

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"termview/internal/profile"
)

// Stream is the locator sentinel for stdin/stdout streaming.
const Stream = "-"

const defaultFPS = 10

// Sentinel errors for the resolution phase.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyFlagValue    = errors.New("flag requires a non-empty argument")
	ErrInputNotFound     = errors.New("input file not found")
	ErrUsage             = errors.New("usage error")
)

// Flags carries the raw command-line state collected by the CLI layer.
// The *Set booleans record whether the user supplied the flag explicitly,
// which decides precedence against profile values.
type Flags struct {
	Input      string
	Output     string
	Format     string
	FormatSet  bool
	FPS        int
	FPSSet     bool
	Audio      bool
	UseProfile string
	VideoFlags []string
	AudioFlags []string
	Verbose    bool
	DryRun     bool

	// Positional is everything before a "--" terminator; Trailing is
	// everything after it, passed through as extra video flags.
	Positional []string
	Trailing   []string
}

// ResolvedConfig is the fully resolved invocation. It is created once and
// never mutated afterwards.
type ResolvedConfig struct {
	Input       string
	Output      string
	Format      Format
	FPS         int
	Audio       bool
	VideoFlags  []string
	RenderFlags []string
	AudioFlags  []string
	Verbose     bool
	DryRun      bool
}

// Resolve validates flags, applies the selected profile, and produces the
// run's configuration. Profile values apply only where the user did not set
// the flag explicitly; extra flag strings append after profile flags.
func Resolve(flags Flags, profiles *profile.Set) (*ResolvedConfig, error) {
	var selected profile.Profile
	if name := strings.TrimSpace(flags.UseProfile); name != "" {
		p, err := profiles.Get(name)
		if err != nil {
			return nil, err
		}
		selected = p
	}

	formatName := strings.ToLower(strings.TrimSpace(flags.Format))
	if flags.FormatSet && formatName == "" {
		return nil, fmt.Errorf("%w: --format", ErrEmptyFlagValue)
	}
	if !flags.FormatSet {
		if selected.Format != "" {
			formatName = selected.Format
		} else {
			formatName = formatNames[FormatSixel]
		}
	}
	format, err := ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	fps := flags.FPS
	if !flags.FPSSet {
		fps = defaultFPS
	}
	if fps <= 0 {
		return nil, fmt.Errorf("%w: --fps must be a positive integer, got %d", ErrUsage, fps)
	}

	input, err := resolveInput(flags)
	if err != nil {
		return nil, err
	}

	output := strings.TrimSpace(flags.Output)
	if output == "" {
		output = Stream
	}
	if output != Stream && !format.WritesOutput() {
		return nil, fmt.Errorf("%w: --output applies only to gif and mp4 output, not %s",
			ErrUsage, format)
	}

	videoFlags, err := mergeFlagStrings(selected.VideoFlags, flags.VideoFlags, "--video-flags")
	if err != nil {
		return nil, err
	}
	videoFlags = append(videoFlags, flags.Trailing...)

	audioFlags, err := mergeFlagStrings(selected.AudioFlags, flags.AudioFlags, "--audio-flags")
	if err != nil {
		return nil, err
	}

	cfg := &ResolvedConfig{
		Input:       input,
		Output:      output,
		Format:      format,
		FPS:         fps,
		Audio:       flags.Audio,
		VideoFlags:  videoFlags,
		RenderFlags: strings.Fields(selected.RenderFlags),
		AudioFlags:  audioFlags,
		Verbose:     flags.Verbose,
		DryRun:      flags.DryRun,
	}
	return cfg, nil
}

func resolveInput(flags Flags) (string, error) {
	input := strings.TrimSpace(flags.Input)
	if input == "" {
		switch len(flags.Positional) {
		case 0:
			input = Stream
		case 1:
			input = strings.TrimSpace(flags.Positional[0])
		default:
			return "", fmt.Errorf("%w: at most one input argument is accepted, got %d",
				ErrUsage, len(flags.Positional))
		}
	} else if len(flags.Positional) > 0 {
		return "", fmt.Errorf("%w: both --input and a positional input were given", ErrUsage)
	}

	if input == Stream {
		return input, nil
	}

	info, err := os.Stat(input)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInputNotFound, input)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: %s is not a regular file", ErrInputNotFound, input)
	}
	return input, nil
}

// mergeFlagStrings splits the profile flag blob and each repeatable flag
// value on whitespace, preserving order. Blank flag values are a usage
// error: the flag was given but carries nothing.
func mergeFlagStrings(profileFlags string, userValues []string, flagName string) ([]string, error) {
	merged := strings.Fields(profileFlags)
	for _, value := range userValues {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s", ErrEmptyFlagValue, flagName)
		}
		merged = append(merged, strings.Fields(value)...)
	}
	return merged, nil
}
