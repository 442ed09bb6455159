package plan

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"termview/internal/config"
	"termview/internal/options"
	"termview/internal/termgeom"
)

func testEnv(t *testing.T) Environment {
	t.Helper()
	return Environment{
		Tools:     config.Default().Tools,
		Workspace: t.TempDir(),
		LookPath:  func(string) (string, error) { return "/usr/bin/fake", nil },
	}
}

func resolved(format options.Format) *options.ResolvedConfig {
	return &options.ResolvedConfig{
		Input:  options.Stream,
		Output: options.Stream,
		Format: format,
		FPS:    10,
	}
}

func argvLine(stage Stage) string {
	return strings.Join(stage.Argv, " ")
}

func TestComposeSixelStreamPipesTranscoderIntoRenderer(t *testing.T) {
	p, err := Compose(resolved(options.FormatSixel), testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !p.Piped || len(p.Stages) != 2 {
		t.Fatalf("expected piped two-stage plan, got %#v", p)
	}
	if p.Stages[0].Role != RoleVideo || p.Stages[1].Role != RoleRender {
		t.Fatalf("unexpected stage roles: %#v", p.Stages)
	}
	video := argvLine(p.Stages[0])
	if !strings.Contains(video, "-i -") || !strings.Contains(video, "fps=10") {
		t.Fatalf("video stage misses stream input or rate filter: %q", video)
	}
	if !strings.Contains(video, "image2pipe") {
		t.Fatalf("video stage should stream frames: %q", video)
	}
	if p.Stages[1].Argv[0] != "img2sixel" {
		t.Fatalf("render stage should invoke img2sixel: %v", p.Stages[1].Argv)
	}
	if !p.ReadsStdin {
		t.Fatal("streaming input should consume caller stdin")
	}
}

func TestComposeSixelFileKeepsPipe(t *testing.T) {
	cfg := resolved(options.FormatSixel)
	cfg.Input = "/media/clip.mkv"
	p, err := Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !p.Piped {
		t.Fatal("file-input sixel still pipes transcoder into renderer")
	}
	if p.ReadsStdin {
		t.Fatal("file input must not claim stdin")
	}
	if !strings.Contains(argvLine(p.Stages[0]), "-i /media/clip.mkv") {
		t.Fatalf("file input missing: %q", argvLine(p.Stages[0]))
	}
}

func TestComposeKittyFileSkipsTranscode(t *testing.T) {
	cfg := resolved(options.FormatKitty)
	cfg.Input = "/media/cat.png"
	p, err := Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if p.Piped || len(p.Stages) != 1 || p.Stages[0].Role != RoleRender {
		t.Fatalf("file-input kitty should be a single render stage: %#v", p)
	}
	line := argvLine(p.Stages[0])
	if !strings.HasPrefix(line, "kitten icat") || !strings.HasSuffix(line, "/media/cat.png") {
		t.Fatalf("unexpected icat invocation: %q", line)
	}
}

func TestComposeKittyStreamPipesIntoClient(t *testing.T) {
	p, err := Compose(resolved(options.FormatKitty), testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !p.Piped || len(p.Stages) != 2 {
		t.Fatalf("stream kitty should pipe transcoder into client: %#v", p)
	}
	if got := argvLine(p.Stages[1]); !strings.HasSuffix(got, "-") {
		t.Fatalf("client should read its stdin: %q", got)
	}
}

func TestComposeKittyMissingClientFailsFast(t *testing.T) {
	env := testEnv(t)
	env.LookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := Compose(resolved(options.FormatKitty), env)
	if !errors.Is(err, ErrMissingTool) {
		t.Fatalf("expected missing-tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "kitten") {
		t.Fatalf("diagnostic should name the missing tool: %v", err)
	}
}

func TestComposeTextArtStreamUsesExtraction(t *testing.T) {
	for _, format := range []options.Format{options.FormatASCII, options.FormatANSI, options.FormatUTF8, options.FormatCaca} {
		env := testEnv(t)
		p, err := Compose(resolved(format), env)
		if err != nil {
			t.Fatalf("Compose %s: %v", format, err)
		}
		if p.Piped {
			t.Fatalf("%s: extraction must be sequential, not piped", format)
		}
		if len(p.Stages) != 2 {
			t.Fatalf("%s: expected extraction + render, got %#v", format, p.Stages)
		}
		if p.TempFrame == "" || filepath.Dir(p.TempFrame) != env.Workspace {
			t.Fatalf("%s: temp frame not placed in workspace: %q", format, p.TempFrame)
		}
		extract := argvLine(p.Stages[0])
		if !strings.Contains(extract, "-frames:v 1") || !strings.Contains(extract, p.TempFrame) {
			t.Fatalf("%s: extraction stage wrong: %q", format, extract)
		}
		render := argvLine(p.Stages[1])
		if !strings.HasSuffix(render, p.TempFrame) {
			t.Fatalf("%s: render stage should read the temp frame: %q", format, render)
		}
		if format != options.FormatASCII && !strings.Contains(render, "-f "+format.String()) {
			t.Fatalf("%s: text renderer misses format selection: %q", format, render)
		}
	}
}

func TestComposeTextArtFileReadsInputDirectly(t *testing.T) {
	cfg := resolved(options.FormatASCII)
	cfg.Input = "/media/frame.jpg"
	p, err := Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(p.Stages) != 1 || p.Stages[0].Role != RoleRender {
		t.Fatalf("file-input ascii should skip extraction: %#v", p.Stages)
	}
	if p.TempFrame != "" {
		t.Fatalf("no temp frame expected, got %q", p.TempFrame)
	}
	if !strings.HasSuffix(argvLine(p.Stages[0]), "/media/frame.jpg") {
		t.Fatalf("renderer should read the input file: %q", argvLine(p.Stages[0]))
	}
}

func TestComposeTextArtGeometryDefaults(t *testing.T) {
	cfg := resolved(options.FormatASCII)
	cfg.Input = "/media/frame.jpg"
	env := testEnv(t)
	env.Geometry = termgeom.Geometry{Columns: 120, Rows: 40}
	env.GeometryKnown = true

	p, err := Compose(cfg, env)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	line := argvLine(p.Stages[0])
	if !strings.Contains(line, "--width=120") || !strings.Contains(line, "--height=39") {
		t.Fatalf("geometry defaults missing: %q", line)
	}

	cfg.RenderFlags = []string{"--width=80"}
	p, err = Compose(cfg, env)
	if err != nil {
		t.Fatalf("Compose with explicit width: %v", err)
	}
	line = argvLine(p.Stages[0])
	if strings.Contains(line, "--width=120") {
		t.Fatalf("explicit width must suppress geometry default: %q", line)
	}
}

func TestComposeGIFSingleStageWithRateFilter(t *testing.T) {
	p, err := Compose(resolved(options.FormatGIF), testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if p.Piped || len(p.Stages) != 1 || p.Stages[0].Role != RoleVideo {
		t.Fatalf("gif should be a single video stage: %#v", p)
	}
	line := argvLine(p.Stages[0])
	if !strings.Contains(line, "fps=10") || !strings.Contains(line, "-f gif") {
		t.Fatalf("gif stage misses rate filter or container: %q", line)
	}
	if !strings.HasSuffix(line, " -") {
		t.Fatalf("stream output should target stdout: %q", line)
	}
}

func TestComposeMP4OverwritePrompt(t *testing.T) {
	cfg := resolved(options.FormatMP4)
	cfg.Input = "/media/clip.mkv"
	cfg.Output = "/tmp/out.mp4"
	p, err := Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	line := argvLine(p.Stages[0])
	if strings.Contains(line, " -y ") {
		t.Fatalf("named output with file input must keep the overwrite prompt: %q", line)
	}
	if !p.PromptsOnStdin {
		t.Fatal("expected PromptsOnStdin for named output with file input")
	}
	if !strings.Contains(line, "libx264") || !strings.HasSuffix(line, "/tmp/out.mp4") {
		t.Fatalf("unexpected mp4 stage: %q", line)
	}

	cfg.Input = options.Stream
	p, err = Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose stream input: %v", err)
	}
	if p.PromptsOnStdin {
		t.Fatal("stream input cannot prompt; stdin carries media")
	}
	if !strings.Contains(argvLine(p.Stages[0]), "-y") {
		t.Fatalf("stream input with named output needs -y: %q", argvLine(p.Stages[0]))
	}
}

func TestComposeAppendsUserFlagsAfterDefaults(t *testing.T) {
	cfg := resolved(options.FormatSixel)
	cfg.VideoFlags = []string{"-pix_fmt", "rgb24"}
	cfg.RenderFlags = []string{"-p", "64"}

	p, err := Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	video := argvLine(p.Stages[0])
	if strings.Index(video, "fps=10") > strings.Index(video, "-pix_fmt") {
		t.Fatalf("user video flags must follow defaults: %q", video)
	}
	render := argvLine(p.Stages[1])
	if !strings.Contains(render, "-p 64") {
		t.Fatalf("render flags not appended: %q", render)
	}
}

func TestComposeAudioStage(t *testing.T) {
	cfg := resolved(options.FormatSixel)
	cfg.Audio = true
	cfg.AudioFlags = []string{"--volume=70"}

	p, err := Compose(cfg, testEnv(t))
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if p.Audio == nil || p.Audio.Role != RoleAudio {
		t.Fatalf("expected audio stage, got %#v", p.Audio)
	}
	line := argvLine(*p.Audio)
	if !strings.HasPrefix(line, "mpv --no-video") || !strings.Contains(line, "--volume=70") {
		t.Fatalf("unexpected audio invocation: %q", line)
	}
}

func TestComposeRejectsUnknownFormat(t *testing.T) {
	cfg := resolved(options.Format(99))
	if _, err := Compose(cfg, testEnv(t)); !errors.Is(err, options.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format error, got %v", err)
	}
}

func TestComposeDryRunStagesForEveryFormat(t *testing.T) {
	for _, name := range options.FormatNames() {
		format, err := options.ParseFormat(name)
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", name, err)
		}
		p, err := Compose(resolved(format), testEnv(t))
		if err != nil {
			t.Fatalf("Compose %s: %v", name, err)
		}
		if len(p.Stages) == 0 {
			t.Fatalf("%s: plan has no stages", name)
		}
		for _, stage := range p.Stages {
			if len(stage.Argv) == 0 {
				t.Fatalf("%s: empty stage argv", name)
			}
		}
	}
}
