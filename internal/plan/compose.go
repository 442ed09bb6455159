package plan

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"termview/internal/options"
)

// Compose builds the command plan for a resolved configuration. The CLI has
// already validated the format, but an unknown value is still rejected here.
func Compose(cfg *options.ResolvedConfig, env Environment) (*Plan, error) {
	switch cfg.Format {
	case options.FormatSixel:
		return composeSixel(cfg, env)
	case options.FormatKitty:
		return composeKitty(cfg, env)
	case options.FormatASCII, options.FormatANSI, options.FormatUTF8, options.FormatCaca:
		return composeTextArt(cfg, env)
	case options.FormatGIF:
		return composeGIF(cfg, env)
	case options.FormatMP4:
		return composeMP4(cfg, env)
	default:
		return nil, fmt.Errorf("%w: %s", options.ErrUnsupportedFormat, cfg.Format)
	}
}

// ffmpegBase starts every transcode argument vector: quiet by default, loud
// under --verbose.
func ffmpegBase(env Environment, verbose bool) []string {
	argv := splitCommand(env.Tools.FFmpeg)
	argv = append(argv, "-hide_banner")
	if verbose {
		argv = append(argv, "-loglevel", "info")
	} else {
		argv = append(argv, "-loglevel", "error")
	}
	return argv
}

func fpsFilter(fps int) string {
	return "fps=" + strconv.Itoa(fps)
}

// composeSixel pipes a raw frame stream from the transcoder into the sixel
// renderer, for both stream and file inputs.
func composeSixel(cfg *options.ResolvedConfig, env Environment) (*Plan, error) {
	video := ffmpegBase(env, cfg.Verbose)
	video = append(video, "-i", cfg.Input, "-vf", fpsFilter(cfg.FPS))
	video = append(video, cfg.VideoFlags...)
	video = append(video, "-c:v", "ppm", "-f", "image2pipe", "-")

	render := splitCommand(env.Tools.Img2Sixel)
	render = append(render, cfg.RenderFlags...)

	return &Plan{
		Format: cfg.Format,
		Stages: []Stage{
			{Role: RoleVideo, Argv: video},
			{Role: RoleRender, Argv: render},
		},
		Piped:      true,
		Audio:      audioStage(cfg, env),
		ReadsStdin: cfg.Input == options.Stream,
	}, nil
}

// composeKitty talks to the terminal graphics client. This is the one
// format with a pre-flight tool check on the main path.
func composeKitty(cfg *options.ResolvedConfig, env Environment) (*Plan, error) {
	client := splitCommand(env.Tools.Kitten)
	if len(client) == 0 {
		return nil, fmt.Errorf("%w: terminal graphics client not configured", ErrMissingTool)
	}
	if _, err := env.lookPath(client[0]); err != nil {
		return nil, fmt.Errorf("%w: %s (install kitty or set tools.kitten)", ErrMissingTool, client[0])
	}

	render := append(client, "icat")
	render = append(render, cfg.RenderFlags...)

	if cfg.Input != options.Stream {
		render = append(render, cfg.Input)
		return &Plan{
			Format: cfg.Format,
			Stages: []Stage{{Role: RoleRender, Argv: render}},
			Audio:  audioStage(cfg, env),
		}, nil
	}

	video := ffmpegBase(env, cfg.Verbose)
	video = append(video, "-i", "-", "-vf", fpsFilter(cfg.FPS))
	video = append(video, cfg.VideoFlags...)
	video = append(video, "-f", "gif", "-")

	render = append(render, "-")
	return &Plan{
		Format: cfg.Format,
		Stages: []Stage{
			{Role: RoleVideo, Argv: video},
			{Role: RoleRender, Argv: render},
		},
		Piped:      true,
		Audio:      audioStage(cfg, env),
		ReadsStdin: true,
	}, nil
}

// composeTextArt extracts one still frame for streaming input, then feeds
// the text renderer. File inputs go to the renderer directly.
func composeTextArt(cfg *options.ResolvedConfig, env Environment) (*Plan, error) {
	direct := cfg.Input != options.Stream

	var tempFrame string
	stages := make([]Stage, 0, 2)
	if !direct {
		if env.Workspace == "" {
			return nil, errors.New("compose: workspace required for frame extraction")
		}
		tempFrame = filepath.Join(env.Workspace, "frame-"+uuid.NewString()+".jpg")

		video := ffmpegBase(env, cfg.Verbose)
		video = append(video, "-i", "-")
		video = append(video, cfg.VideoFlags...)
		video = append(video, "-frames:v", "1", "-q:v", "2", tempFrame)
		stages = append(stages, Stage{Role: RoleVideo, Argv: video})
	}

	source := cfg.Input
	if !direct {
		source = tempFrame
	}

	var render []string
	if cfg.Format == options.FormatASCII {
		render = splitCommand(env.Tools.JP2A)
		if env.GeometryKnown && !hasFlag(cfg.RenderFlags, "--width") && !hasFlag(cfg.RenderFlags, "--height") {
			render = append(render,
				"--width="+strconv.Itoa(env.Geometry.Columns),
				"--height="+strconv.Itoa(env.Geometry.Rows-1))
		}
	} else {
		render = splitCommand(env.Tools.Img2Txt)
		render = append(render, "-f", cfg.Format.String())
		if env.GeometryKnown && !hasFlag(cfg.RenderFlags, "-W") && !hasFlag(cfg.RenderFlags, "-H") {
			render = append(render,
				"-W", strconv.Itoa(env.Geometry.Columns),
				"-H", strconv.Itoa(env.Geometry.Rows-1))
		}
	}
	render = append(render, cfg.RenderFlags...)
	render = append(render, source)
	stages = append(stages, Stage{Role: RoleRender, Argv: render})

	return &Plan{
		Format:     cfg.Format,
		Stages:     stages,
		Audio:      audioStage(cfg, env),
		ReadsStdin: !direct,
		TempFrame:  tempFrame,
	}, nil
}

// composeGIF is a single transcode stage emitting an animated GIF.
func composeGIF(cfg *options.ResolvedConfig, env Environment) (*Plan, error) {
	video := ffmpegBase(env, cfg.Verbose)
	if cfg.Output != options.Stream {
		video = append(video, "-y")
	}
	video = append(video, "-i", cfg.Input, "-vf", fpsFilter(cfg.FPS))
	video = append(video, cfg.VideoFlags...)
	video = append(video, "-f", "gif", cfg.Output)

	return &Plan{
		Format:     cfg.Format,
		Stages:     []Stage{{Role: RoleVideo, Argv: video}},
		Audio:      audioStage(cfg, env),
		ReadsStdin: cfg.Input == options.Stream,
	}, nil
}

// composeMP4 is a single transcode stage emitting H.264. A named output with
// a file input runs without -y so the transcoder's own prompt confirms
// overwriting; a streaming input occupies stdin, so -y substitutes.
func composeMP4(cfg *options.ResolvedConfig, env Environment) (*Plan, error) {
	streamIn := cfg.Input == options.Stream
	streamOut := cfg.Output == options.Stream

	video := ffmpegBase(env, cfg.Verbose)
	promptsOnStdin := false
	if !streamOut {
		if streamIn {
			video = append(video, "-y")
		} else {
			promptsOnStdin = true
		}
	}
	video = append(video, "-i", cfg.Input)
	video = append(video, cfg.VideoFlags...)
	video = append(video,
		"-c:v", "libx264",
		"-pix_fmt", "yuv420p",
		"-preset", "veryfast",
		"-c:a", "aac",
	)
	if streamOut {
		video = append(video, "-movflags", "frag_keyframe+empty_moov", "-f", "mp4", "-")
	} else {
		video = append(video, "-movflags", "+faststart", "-f", "mp4", cfg.Output)
	}

	return &Plan{
		Format:         cfg.Format,
		Stages:         []Stage{{Role: RoleVideo, Argv: video}},
		Audio:          audioStage(cfg, env),
		ReadsStdin:     streamIn,
		PromptsOnStdin: promptsOnStdin,
	}, nil
}

func audioStage(cfg *options.ResolvedConfig, env Environment) *Stage {
	if !cfg.Audio {
		return nil
	}
	argv := splitCommand(env.Tools.MPV)
	argv = append(argv, "--no-video", "--really-quiet")
	argv = append(argv, cfg.AudioFlags...)
	argv = append(argv, cfg.Input)
	return &Stage{Role: RoleAudio, Argv: argv}
}
