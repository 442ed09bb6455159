package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"termview/internal/config"
	"termview/internal/deps"
	"termview/internal/logging"
	"termview/internal/options"
	"termview/internal/plan"
	"termview/internal/profile"
	"termview/internal/stageexec"
	"termview/internal/termgeom"
)

type rootFlags struct {
	configPath      string
	input           string
	output          string
	format          string
	fps             int
	audio           bool
	listProfiles    bool
	useProfile      string
	restoreDefaults bool
	verbose         bool
	dryRun          bool
	videoFlags      []string
	audioFlags      []string
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "termview [flags] [input] [-- extra video flags]",
		Short: "Preview media in the terminal via sixel, kitty, text art, or re-encoding",
		Long: `termview converts a media file or stream into a terminal-displayable
representation by driving external tools: a video transcoder, terminal
graphics renderers, text-art renderers, and an audio player.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, flags)
		},
	}

	fs := rootCmd.Flags()
	fs.StringVarP(&flags.configPath, "config", "c", "", "configuration file path")
	fs.StringVarP(&flags.input, "input", "i", "", "input media path, or - for stdin")
	fs.StringVarP(&flags.output, "output", "o", "", "output path, or - for stdout")
	fs.StringVarP(&flags.format, "format", "f", "", "output format: sixel, kitty, ascii, ansi, utf8, caca, gif, mp4")
	fs.IntVar(&flags.fps, "fps", 0, "frames per second for animated output")
	fs.BoolVar(&flags.audio, "audio", false, "play audio alongside the video output")
	fs.BoolVar(&flags.listProfiles, "list-profiles", false, "list available profiles and exit")
	fs.StringVar(&flags.useProfile, "use-profile", "", "apply a named profile's format and flags")
	fs.BoolVar(&flags.restoreDefaults, "restore-defaults", false, "write the built-in profiles to the override file and exit")
	fs.BoolVar(&flags.verbose, "verbose", false, "verbose diagnostics on stderr")
	fs.BoolVar(&flags.dryRun, "dry-run", false, "print the composed commands without executing them")
	fs.StringArrayVar(&flags.videoFlags, "video-flags", nil, "extra transcoder flags, space-split (repeatable)")
	fs.StringArrayVar(&flags.audioFlags, "audio-flags", nil, "extra audio player flags, space-split (repeatable)")

	return rootCmd
}

func run(cmd *cobra.Command, args []string, flags *rootFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}

	logLevel := cfg.Logging.Level
	if flags.verbose {
		logLevel = "debug"
	}
	logger, err := logging.New(logging.Options{
		Level:  logLevel,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
		Color:  termgeom.StderrIsTerminal(),
	})
	if err != nil {
		return err
	}

	if flags.restoreDefaults {
		if err := profile.RestoreDefaults(cfg.ProfilePath); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "restored built-in profiles to", cfg.ProfilePath)
		return nil
	}

	profiles, err := profile.Load(cfg.ProfilePath, options.IsValidFormat, logger)
	if err != nil {
		return err
	}

	if flags.listProfiles {
		fmt.Fprintln(cmd.OutOrStdout(), renderProfileList(profiles.List()))
		return nil
	}

	dash := cmd.Flags().ArgsLenAtDash()
	positional, trailing := args, []string(nil)
	if dash >= 0 {
		positional, trailing = args[:dash], args[dash:]
	}

	resolved, err := options.Resolve(options.Flags{
		Input:      flags.input,
		Output:     flags.output,
		Format:     flags.format,
		FormatSet:  cmd.Flags().Changed("format"),
		FPS:        flags.fps,
		FPSSet:     cmd.Flags().Changed("fps"),
		Audio:      flags.audio,
		UseProfile: flags.useProfile,
		VideoFlags: flags.videoFlags,
		AudioFlags: flags.audioFlags,
		Verbose:    flags.verbose,
		DryRun:     flags.dryRun,
		Positional: positional,
		Trailing:   trailing,
	}, profiles)
	if err != nil {
		return err
	}

	if resolved.Verbose {
		reportDependencies(cmd.ErrOrStderr(), cfg.Tools)
	}

	if resolved.Audio && resolved.Input == options.Stream {
		logger.Warn("audio requested with stdin input; the stream feeds the video pipeline, so the audio player has nothing to read")
	}

	workspace, err := stageexec.NewWorkspace()
	if err != nil {
		return err
	}
	defer workspace.Remove()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
	defer stop()

	geometry, geometryKnown := termgeom.Detect()
	composed, err := plan.Compose(resolved, plan.Environment{
		Tools:         cfg.Tools,
		Workspace:     workspace.Dir,
		Geometry:      geometry,
		GeometryKnown: geometryKnown,
	})
	if err != nil {
		return err
	}

	if resolved.DryRun {
		return stageexec.DryRun(composed, cmd.OutOrStdout())
	}

	if terminalEscapeFormat(resolved.Format) && !termgeom.StdoutIsTerminal() {
		logger.Warn("stdout is not a terminal; emitting terminal graphics escapes anyway",
			"format", resolved.Format.String())
	}

	return stageexec.Run(ctx, composed, stageexec.Options{
		Logger:  logger,
		Stdin:   cmd.InOrStdin(),
		Stdout:  cmd.OutOrStdout(),
		Stderr:  cmd.ErrOrStderr(),
		Verbose: resolved.Verbose,
	})
}

func terminalEscapeFormat(f options.Format) bool {
	return f == options.FormatSixel || f == options.FormatKitty
}

func toolRequirements(tools config.Tools) []deps.Requirement {
	return []deps.Requirement{
		{Name: "Video transcoder", Command: tools.FFmpeg, Description: "decodes and re-encodes media"},
		{Name: "Sixel renderer", Command: tools.Img2Sixel, Description: "renders frames as sixel graphics"},
		{Name: "Kitty graphics client", Command: tools.Kitten, Description: "displays images over the kitty protocol"},
		{Name: "ASCII renderer", Command: tools.JP2A, Description: "renders stills as ASCII art"},
		{Name: "Text-art renderer", Command: tools.Img2Txt, Description: "renders stills as ansi/utf8/caca art"},
		{Name: "Audio player", Command: tools.MPV, Description: "plays the audio track", Optional: true},
	}
}
