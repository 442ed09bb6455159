package profile

// builtins is the compiled-in profile table. Order here is the order
// RestoreDefaults writes; lookup and listing are name-sorted regardless.
var builtins = []Profile{
	{
		Name:        "default",
		Description: "Balanced sixel preview",
		Format:      "sixel",
	},
	{
		Name:        "sixel-hq",
		Description: "High color sixel at a smoother rate",
		Format:      "sixel",
		VideoFlags:  "-vf fps=24",
		RenderFlags: "-p 256",
	},
	{
		Name:        "ascii-detail",
		Description: "Dense colored ASCII art",
		Format:      "ascii",
		RenderFlags: "--colors --fill",
	},
	{
		Name:        "mono",
		Description: "Grayscale ASCII for plain terminals",
		Format:      "ascii",
		VideoFlags:  "-vf format=gray",
	},
	{
		Name:        "gif-small",
		Description: "Compact shareable GIF",
		Format:      "gif",
		VideoFlags:  "-vf fps=8,scale=240:-1:flags=lanczos",
	},
}

// Builtins returns a copy of the compiled-in profiles.
func Builtins() []Profile {
	out := make([]Profile, len(builtins))
	copy(out, builtins)
	return out
}
