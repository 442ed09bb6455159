package stageexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"termview/internal/logging"
	"termview/internal/plan"
)

// ErrIncompletePlan reports a plan missing a stage it needs. Raised before
// any process starts.
var ErrIncompletePlan = errors.New("command plan incomplete")

// Options controls plan execution.
type Options struct {
	Logger  *slog.Logger
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logging.NewNop()
}

// Run executes a plan and returns the video side's result.
func Run(ctx context.Context, p *plan.Plan, opts Options) error {
	if err := validate(p); err != nil {
		return err
	}
	logger := opts.logger()

	var audioDone chan error
	if p.Audio != nil {
		done, err := startAudio(ctx, p.Audio, logger)
		if err != nil {
			return err
		}
		audioDone = done
	}

	var videoErr error
	if p.Piped {
		videoErr = runPipeline(ctx, p, opts, logger)
	} else {
		videoErr = runSequential(ctx, p, opts, logger)
	}

	if audioDone != nil {
		if err := <-audioDone; err != nil {
			logger.Warn("audio playback failed", "error", err)
		}
	}
	return videoErr
}

func validate(p *plan.Plan) error {
	if p == nil || len(p.Stages) == 0 {
		return fmt.Errorf("%w: no stages composed", ErrIncompletePlan)
	}
	if p.Piped && len(p.Stages) != 2 {
		return fmt.Errorf("%w: pipeline needs a transcode and a render stage", ErrIncompletePlan)
	}
	for _, stage := range p.Stages {
		if len(stage.Argv) == 0 {
			return fmt.Errorf("%w: %s stage has no command", ErrIncompletePlan, stage.Role)
		}
	}
	if p.Audio != nil && len(p.Audio.Argv) == 0 {
		return fmt.Errorf("%w: audio stage has no command", ErrIncompletePlan)
	}
	return nil
}

// waitDelay bounds Wait after cancellation so an orphaned descendant that
// still holds a stdio pipe cannot block the run.
const waitDelay = 3 * time.Second

// newStageCommand builds a stage process that leads its own process group.
// Tools are often wrapped in shells or dispatchers, so cancellation signals
// the whole group; the plain child kill would leave grandchildren running
// and holding the pipes.
func newStageCommand(ctx context.Context, argv []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}
	cmd.WaitDelay = waitDelay
	return cmd
}

// runPipeline wires the transcode stage's stdout into the render stage's
// stdin over an OS pipe. Both pipe ends are closed in the parent once the
// children hold them, so a dead renderer surfaces as EPIPE upstream instead
// of a hang.
func runPipeline(ctx context.Context, p *plan.Plan, opts Options, logger *slog.Logger) error {
	first, second := p.Stages[0], p.Stages[1]

	pipeRead, pipeWrite, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create pipe: %w", err)
	}
	defer pipeRead.Close()
	defer pipeWrite.Close()

	upstream := newStageCommand(ctx, first.Argv)
	upstream.Stdin = stageStdin(p, 0, opts)
	upstream.Stdout = pipeWrite
	upstreamStderr := wireStderr(upstream, opts)

	render := newStageCommand(ctx, second.Argv)
	render.Stdin = pipeRead
	render.Stdout = opts.Stdout
	renderStderr := wireStderr(render, opts)

	if err := upstream.Start(); err != nil {
		return stageError(first.Role, err, nil)
	}
	pipeWrite.Close()

	if err := render.Start(); err != nil {
		_ = upstream.Process.Kill()
		_ = upstream.Wait()
		return stageError(second.Role, err, nil)
	}
	pipeRead.Close()

	renderErr := render.Wait()
	upstreamErr := upstream.Wait()
	if upstreamErr != nil {
		tail := ""
		if upstreamStderr != nil {
			tail = lastLines(strings.TrimSpace(upstreamStderr.String()), 3)
		}
		logger.Debug("pipeline upstream exited non-zero",
			"stage", string(first.Role), "error", upstreamErr, "stderr", tail)
	}
	if renderErr != nil {
		return stageError(second.Role, renderErr, renderStderr)
	}
	return nil
}

// runSequential runs each stage to completion in order. This is the
// extraction path: the still frame must exist before the renderer starts.
func runSequential(ctx context.Context, p *plan.Plan, opts Options, logger *slog.Logger) error {
	for i, stage := range p.Stages {
		cmd := newStageCommand(ctx, stage.Argv)
		cmd.Stdin = stageStdin(p, i, opts)
		cmd.Stdout = opts.Stdout
		captured := wireStderr(cmd, opts)

		logger.Debug("stage started", "stage", string(stage.Role), "command", stage.Argv[0])
		if err := cmd.Run(); err != nil {
			return stageError(stage.Role, err, captured)
		}
	}
	return nil
}

// stageStdin decides what the first stage reads: the caller's stream for
// piped input, the terminal for an overwrite prompt, nothing otherwise.
func stageStdin(p *plan.Plan, index int, opts Options) io.Reader {
	if index != 0 {
		return nil
	}
	if p.ReadsStdin || p.PromptsOnStdin {
		return opts.Stdin
	}
	return nil
}

// wireStderr sends tool noise to the caller's error stream under --verbose
// and otherwise captures it for failure diagnostics.
func wireStderr(cmd *exec.Cmd, opts Options) *bytes.Buffer {
	if opts.Verbose {
		cmd.Stderr = opts.Stderr
		return nil
	}
	buf := &bytes.Buffer{}
	cmd.Stderr = buf
	return buf
}

func stageError(role plan.Role, err error, captured *bytes.Buffer) error {
	detail := ""
	if captured != nil {
		if tail := strings.TrimSpace(captured.String()); tail != "" {
			detail = ": " + lastLines(tail, 5)
		}
	}
	return fmt.Errorf("%s stage: %w%s", role, err, detail)
}

func lastLines(text string, n int) string {
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// startAudio launches the audio stage with discarded output and returns the
// channel its exit status is delivered on.
func startAudio(ctx context.Context, stage *plan.Stage, logger *slog.Logger) (chan error, error) {
	cmd := newStageCommand(ctx, stage.Argv)
	// stdin, stdout, stderr all default to the null device
	if err := cmd.Start(); err != nil {
		return nil, stageError(stage.Role, err, nil)
	}
	logger.Debug("audio playback started", "command", stage.Argv[0])

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()
	return done, nil
}
