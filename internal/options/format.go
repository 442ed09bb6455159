package options

import "fmt"

// Format is the closed set of terminal representations termview can emit.
type Format int

const (
	FormatSixel Format = iota
	FormatKitty
	FormatASCII
	FormatANSI
	FormatUTF8
	FormatCaca
	FormatGIF
	FormatMP4
)

var formatNames = []string{"sixel", "kitty", "ascii", "ansi", "utf8", "caca", "gif", "mp4"}

func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat maps a format name to its enum value.
func ParseFormat(name string) (Format, error) {
	for i, candidate := range formatNames {
		if candidate == name {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// FormatNames returns every supported format name in declaration order.
func FormatNames() []string {
	out := make([]string, len(formatNames))
	copy(out, formatNames)
	return out
}

// IsValidFormat reports whether name is a supported format. Handed to the
// profile store so user profile entries are validated at load time.
func IsValidFormat(name string) bool {
	_, err := ParseFormat(name)
	return err == nil
}

// WritesOutput reports whether the format produces a file the user can
// direct with --output. The terminal formats always draw to stdout.
func (f Format) WritesOutput() bool {
	return f == FormatGIF || f == FormatMP4
}

// TextArt reports whether the format renders through the single-frame
// extraction path (ascii and the caca family).
func (f Format) TextArt() bool {
	switch f {
	case FormatASCII, FormatANSI, FormatUTF8, FormatCaca:
		return true
	default:
		return false
	}
}
