// Package main provides the entry point for the mediamcp application.
// It serves FFmpeg based video and audio tools over the Model Context
// Protocol and offers a few local commands to inspect the installation and
// invoke tools without an MCP client.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/urfave/cli/v2"

	"github.com/torre76/mediamcp/config"
	"github.com/torre76/mediamcp/ffmpeg"
	"github.com/torre76/mediamcp/logging"
	"github.com/torre76/mediamcp/mcpserver"
	"github.com/torre76/mediamcp/metrics"
	"github.com/torre76/mediamcp/tools"
)

// Private constants (alphabetical)
const (
	descriptionWidth = 60
	spinnerInterval  = 100 * time.Millisecond
)

// Private types (alphabetical)

// appRuntime holds everything assembled from the configuration.
type appRuntime struct {
	cfg        *config.Config
	configPath string
	logger     hclog.Logger
	recorder   *metrics.Recorder
	paths      *ffmpeg.ExecutablePaths
	runner     *ffmpeg.ExecRunner
	service    *tools.Service
	server     *mcpserver.Server
}

// Public variables (alphabetical)

// BuildDate contains the date when the binary was built.
// This value is set during build using ldflags.
var BuildDate = "unknown"

// Commit contains the git commit hash that the binary was built from.
// This value is set during build using ldflags.
var Commit = "unknown"

// Version contains the current version of the application.
// This value can be overridden during build using ldflags:
// go build -ldflags="-X 'main.Version=v1.0.0'"
var Version = "Development Version"

// Private functions (alphabetical)

// buildRuntime loads the configuration, applies the global flags on top of
// it and assembles the logger, metrics, runner, service and MCP server.
func buildRuntime(c *cli.Context) (*appRuntime, error) {
	cfg, configPath, _, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if v := c.String("ffmpeg"); v != "" {
		cfg.Binaries.FFmpeg = v
	}
	if v := c.String("ffprobe"); v != "" {
		cfg.Binaries.FFprobe = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := c.String("metrics-addr"); v != "" {
		cfg.Metrics.Listen = v
	}

	logger := logging.New(logging.Options{
		Name:   cfg.Server.Name,
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: c.App.ErrWriter,
	})
	recorder := metrics.New()
	paths := ffmpeg.LocateExecutables(cfg.Binaries.FFmpeg, cfg.Binaries.FFprobe)
	runner := ffmpeg.NewExecRunner(logger.Named("exec"), recorder)

	service := tools.New(runner, tools.Options{
		FFmpegPath:          paths.FFmpeg,
		FFprobePath:         paths.FFprobe,
		Logger:              logger,
		Recorder:            recorder,
		UniqueArtifactNames: cfg.Temp.UniqueNames,
		LockSharedArtifacts: cfg.Temp.LockSharedArtifacts,
	})
	server := mcpserver.New(service, mcpserver.Options{
		Name:              cfg.Server.Name,
		Version:           cfg.Server.Version,
		Description:       cfg.Server.Description,
		MathTools:         cfg.Features.MathTools,
		GreetingResources: cfg.Features.GreetingResources,
		Logger:            logger.Named("mcp"),
	})

	logger.Debug("runtime assembled",
		"config", configPath,
		"ffmpeg", paths.FFmpeg,
		"ffprobe", paths.FFprobe,
		"profile", cfg.Server.Profile)

	return &appRuntime{
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		recorder:   recorder,
		paths:      paths,
		runner:     runner,
		service:    service,
		server:     server,
	}, nil
}

// callCommand invokes one tool in process and prints its report.
func callCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return missingArgument(c, "TOOL")
	}
	name := c.Args().Get(0)
	arguments, err := parseArguments(c.String("args"))
	if err != nil {
		return err
	}

	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}

	stop := startSpinner(c, "Running "+name)
	text, isError, err := rt.server.Call(c.Context, name, arguments)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, text)
	if isError {
		return fmt.Errorf("tool %s reported an error", name)
	}
	return nil
}

// checkCommand reports the FFmpeg installation, the host and the hardware
// acceleration support.
func checkCommand(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	ctx := c.Context
	w := c.App.Writer

	ffmpegInfo, ffmpegErr := ffmpeg.DetectFFmpeg(ctx, rt.runner, rt.paths.FFmpeg)
	ffprobeInfo, ffprobeErr := ffmpeg.DetectFFmpeg(ctx, rt.runner, rt.paths.FFprobe)

	summaryStyle.Fprintln(w, "🔧 DEPENDENCIES")
	fmt.Fprintln(w, renderTable(
		[]string{"Program", "Path", "Status", "Version"},
		[][]string{
			dependencyRow("ffmpeg", ffmpegInfo),
			dependencyRow("ffprobe", ffprobeInfo),
		},
		nil,
	))

	summaryStyle.Fprintln(w, "\n🖥️ HOST")
	fmt.Fprintln(w, renderTable([]string{"Property", "Value"}, hostRows(ctx), nil))

	if ffmpegErr != nil || !ffmpegInfo.Installed {
		errorStyle.Fprintf(w, "\n❌ FFmpeg is not usable at %s\n", rt.paths.FFmpeg)
		return errors.Join(errors.New("ffmpeg not found"), ffmpegErr)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rt.service.CheckHardwareAcceleration(ctx))

	if ffprobeErr != nil || !ffprobeInfo.Installed {
		errorStyle.Fprintf(w, "⚠️ FFprobe is not usable at %s; duration based tools will fail\n", rt.paths.FFprobe)
		return nil
	}
	successStyle.Fprintln(w, "✅ FFmpeg and FFprobe are ready")
	return nil
}

// configInitCommand writes the default configuration file.
func configInitCommand(c *cli.Context) error {
	path := c.String("path")
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}
	if err := config.WriteDefault(path); err != nil {
		return err
	}
	successStyle.Fprintf(c.App.Writer, "✅ Configuration written to %s\n", path)
	return nil
}

// dependencyRow renders one detected program.
func dependencyRow(name string, info *ffmpeg.FFmpegInfo) []string {
	if info == nil || !info.Installed {
		path := ""
		if info != nil {
			path = info.Path
		}
		return []string{name, path, "missing", "-"}
	}
	return []string{name, info.Path, "found", info.Version}
}

// hostRows describes the CPU and memory of the machine. Lookups that fail
// are left out.
func hostRows(ctx context.Context) [][]string {
	rows := [][]string{}
	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		rows = append(rows, []string{"CPU", infos[0].ModelName})
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		rows = append(rows, []string{"Logical cores", strconv.Itoa(cores)})
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		rows = append(rows, []string{"Memory", formatHumanReadableSize(int64(vm.Total))})
	}
	return rows
}

// missingArgument prints the usage hint for a missing positional argument.
func missingArgument(c *cli.Context, name string) error {
	errorStyle.Fprintf(c.App.Writer, "❌ Error: missing required argument: %s\n\n", name)
	regularStyle.Fprintf(c.App.Writer, "Run '%s %s --help' for more information.\n", c.App.Name, c.Command.Name)
	return fmt.Errorf("missing required argument: %s", name)
}

// newApp builds the command line application.
func newApp() *cli.App {
	return &cli.App{
		Name:  "mediamcp",
		Usage: "FFmpeg video and audio tools for MCP clients",
		Description: "MediaMCP serves video and audio processing tools built on FFmpeg over the " +
			"Model Context Protocol. Without a command it serves over stdin/stdout.",
		Authors: []*cli.Author{
			{
				Name: "Gian Luca Dalla Torre",
			},
		},
		Version: Version,
		Action:  serveCommand,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path of the TOML configuration file",
			},
			&cli.StringFlag{
				Name:  "ffmpeg",
				Usage: "FFmpeg executable, overriding the configuration",
			},
			&cli.StringFlag{
				Name:  "ffprobe",
				Usage: "FFprobe executable, overriding the configuration",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "host:port for the Prometheus /metrics endpoint",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the tools over stdin/stdout (default)",
				Action: serveCommand,
			},
			{
				Name:   "check",
				Usage:  "Report the FFmpeg installation and hardware acceleration support",
				Action: checkCommand,
			},
			{
				Name:   "tools",
				Usage:  "List the registered tools and resources",
				Action: toolsCommand,
			},
			{
				Name:      "probe",
				Usage:     "Summarize the streams of a media file",
				ArgsUsage: "FILE",
				Action:    probeCommand,
			},
			{
				Name:      "call",
				Usage:     "Invoke one tool locally and print its report",
				ArgsUsage: "TOOL",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "args",
						Aliases: []string{"a"},
						Usage:   "tool arguments as a JSON object",
						Value:   "{}",
					},
				},
				Action: callCommand,
			},
			{
				Name:      "read",
				Usage:     "Read one resource locally",
				ArgsUsage: "URI",
				Action:    readCommand,
			},
			{
				Name:  "config",
				Usage: "Manage the configuration file",
				Subcommands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write the default configuration",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "path",
								Usage: "destination (defaults to ~/.config/mediamcp/config.toml)",
							},
						},
						Action: configInitCommand,
					},
				},
			},
		},
	}
}

// parseArguments decodes the --args JSON object.
func parseArguments(raw string) (map[string]any, error) {
	arguments := map[string]any{}
	if raw == "" {
		return arguments, nil
	}
	if err := json.Unmarshal([]byte(raw), &arguments); err != nil {
		return nil, fmt.Errorf("invalid --args: %w", err)
	}
	if arguments == nil {
		arguments = map[string]any{}
	}
	return arguments, nil
}

// probeCommand prints the container summary of a media file.
func probeCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return missingArgument(c, "FILE")
	}
	absPath, err := filepath.Abs(c.Args().Get(0))
	if err != nil {
		return fmt.Errorf("error resolving path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", absPath)
	}

	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}

	regularStyle.Fprint(c.App.Writer, "🔧 Using FFprobe at ")
	valueStyle.Fprintf(c.App.Writer, "%s\n\n", rt.paths.FFprobe)

	prober := ffmpeg.NewProber(rt.paths.FFprobe, rt.runner)
	info, err := prober.Inspect(c.Context, absPath)
	if err != nil {
		errorStyle.Fprintf(c.App.Writer, "❌ Container not recognized: %v\n", err)
		return fmt.Errorf("container not recognized: %w", err)
	}
	printContainerSummary(c.App.Writer, info)
	return nil
}

// readCommand reads one resource in process and prints it.
func readCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return missingArgument(c, "URI")
	}
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	text, err := rt.server.Read(c.Context, c.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, text)
	return nil
}

// serveCommand serves MCP over stdio until the client disconnects or the
// process is interrupted. Nothing but protocol traffic goes to stdout.
func serveCommand(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if addr := rt.cfg.Metrics.Listen; addr != "" {
		go func() {
			if err := rt.recorder.Serve(ctx, addr, rt.logger.Named("metrics")); err != nil {
				rt.logger.Error("metrics endpoint failed", "addr", addr, "error", err)
			}
		}()
	}

	if err := rt.server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.logger.Info("server stopped")
	return nil
}

// startSpinner shows an indeterminate spinner on an interactive stderr and
// returns the function that removes it.
func startSpinner(c *cli.Context, description string) func() {
	if !logging.IsTerminal(c.App.ErrWriter) {
		return func() {}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.App.ErrWriter),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	return func() {
		close(done)
		<-stopped
		_ = bar.Finish()
	}
}

// toolsCommand prints the tool and resource catalog.
func toolsCommand(c *cli.Context) error {
	rt, err := buildRuntime(c)
	if err != nil {
		return err
	}
	w := c.App.Writer

	list := rt.server.Tools()
	summaryStyle.Fprintf(w, "🧰 %d TOOLS\n", len(list))
	fmt.Fprintln(w, renderTable([]string{"Group", "Tool", "Description"}, toolRows(list), nil, 0, 0, descriptionWidth))

	if resources := rt.server.Resources(); len(resources) > 0 {
		resourceRows := make([][]string, 0, len(resources))
		for _, r := range resources {
			resourceRows = append(resourceRows, []string{r.URI, r.Description})
		}
		summaryStyle.Fprintf(w, "\n📚 %d RESOURCES\n", len(resources))
		fmt.Fprintln(w, renderTable([]string{"URI", "Description"}, resourceRows, nil))
	}
	return nil
}

// main is the entry point of the application.
func main() {
	_ = godotenv.Load()

	cli.VersionPrinter = func(c *cli.Context) {
		versionPrinter(c.App.Writer)
	}

	app := newApp()
	app.ErrWriter = os.Stderr
	if err := app.Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "⚠️ Error: %v\n", err)
		os.Exit(1)
	}
}
