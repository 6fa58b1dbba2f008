package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/forons/fsutil/internal/configuration"
	"github.com/forons/fsutil/internal/fileio"
	"github.com/forons/fsutil/internal/filesystem/backends"
	"golang.org/x/sys/unix"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	configFile = flag.String("config", "", "load settings from a dotenv or YAML `file`")
	debug      = flag.Bool("debug", false, "enable debug logging")
	logFile    = flag.String("log-file", "", "additionally write JSON logs to `file`")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write allocs profile to `file`")
)

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, unix.SIGTERM, unix.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, unix.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

func loadConfiguration(filename string) (*configuration.Configuration, error) {
	if filename == "" {
		return configuration.Default(), nil
	}

	conf, err := configuration.NewHandler(configuration.ProviderFor(filename)).Load(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return conf, nil
}

func usage() {
	out := flag.CommandLine.Output()

	fmt.Fprintf(out, "fsutil %s\n\n", Version)
	fmt.Fprintf(out, "Usage: fsutil [flags] <command> [args]\n\nCommands:\n")

	for _, cmd := range commands() {
		fmt.Fprintf(out, "  %-38s %s\n", cmd.usage, cmd.help)
	}

	fmt.Fprintf(out, "\nFlags:\n")
	flag.PrintDefaults()
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flag.Usage = usage
	flag.Parse()

	closeLog, err := setupLogging(*debug, *logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fsutil: %v\n", err)
		ExitCode = 2

		return
	}
	defer closeLog()

	setupSignalHandlers(cancel)

	cpuProfiler := NewProfiler(ctx, ProfileCPU, *cpuprofile)
	defer cpuProfiler.Stop()

	allocProfiler := NewProfiler(ctx, ProfileAllocs, *memprofile)
	defer allocProfiler.Stop()

	conf, err := loadConfiguration(*configFile)
	if err != nil {
		slog.Error("Failed to establish configuration.",
			"err", err,
			"file", *configFile,
		)
		ExitCode = 2

		return
	}

	app := &App{
		files:  fileio.NewHandler(backends.NewRegistry(), conf),
		stdin:  os.Stdin,
		stdout: os.Stdout,
	}

	ExitCode = app.Run(ctx, flag.Args())
}
