package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/forons/fsutil/internal/fileio"
)

var (
	// errUsage is an error that occurs when a command is invoked with
	// invalid arguments.
	errUsage = errors.New("invalid usage")

	// errFalse ends a command with a failing exit code but without an
	// error message, e.g. for a test on a missing path.
	errFalse = errors.New("condition not met")
)

// App runs the commands of the CLI.
type App struct {
	files  *fileio.Handler
	stdin  io.Reader
	stdout io.Writer
}

type command struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, app *App, args []string) error
}

func commands() []command {
	return []command{
		{"cat", "cat PATH", "print the content of a file", runCat},
		{"put", "put [-no-overwrite] PATH [CONTENT]", "write CONTENT (or stdin) to a file", runPut},
		{"rm", "rm [-non-recursive] PATH", "delete a file or directory", runRm},
		{"test", "test PATH", "exit with 0 if PATH exists, 1 otherwise", runTest},
		{"mkdir", "mkdir PATH", "create a directory and its parents", runMkdir},
		{"stat", "stat PATH", "show the status of a file or directory", runStat},
		{"sum", "sum PATH", "print the BLAKE3 checksum of a file", runSum},
	}
}

// Run executes the command named by args[0] and returns the exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		slog.Error("No command given, see -help.")

		return 2 //nolint:mnd
	}

	for _, cmd := range commands() {
		if cmd.name != args[0] {
			continue
		}

		err := cmd.run(ctx, a, args[1:])

		switch {
		case err == nil:
			return 0
		case errors.Is(err, errFalse):
			return 1
		case errors.Is(err, errUsage):
			slog.Error("Invalid arguments.",
				"err", err,
				"usage", cmd.usage,
			)

			return 2 //nolint:mnd
		default:
			slog.Error("Command failed.",
				"err", err,
				"command", cmd.name,
			)

			return 1
		}
	}

	slog.Error("Unknown command, see -help.",
		"command", args[0],
	)

	return 2 //nolint:mnd
}

// parseArgs parses the flags of a command and checks the number of
// positional arguments left.
func parseArgs(fset *flag.FlagSet, args []string, minArgs int, maxArgs int) ([]string, error) {
	fset.SetOutput(io.Discard)

	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	if fset.NArg() < minArgs || fset.NArg() > maxArgs {
		return nil, fmt.Errorf("%w: %d arguments given", errUsage, fset.NArg())
	}

	return fset.Args(), nil
}

func singlePath(name string, args []string) (string, error) {
	rest, err := parseArgs(flag.NewFlagSet(name, flag.ContinueOnError), args, 1, 1)
	if err != nil {
		return "", err
	}

	return rest[0], nil
}

func runCat(ctx context.Context, app *App, args []string) error {
	path, err := singlePath("cat", args)
	if err != nil {
		return err
	}

	content, found, err := app.files.ReadFile(ctx, path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if !found {
		return fmt.Errorf("%w: %s", fs.ErrNotExist, path)
	}

	_, err = fmt.Fprintln(app.stdout, content)

	return err //nolint:wrapcheck
}

func runPut(ctx context.Context, app *App, args []string) error {
	fset := flag.NewFlagSet("put", flag.ContinueOnError)
	noOverwrite := fset.Bool("no-overwrite", false, "keep an existing file")

	rest, err := parseArgs(fset, args, 1, 2) //nolint:mnd
	if err != nil {
		return err
	}

	var content string
	if len(rest) == 2 { //nolint:mnd
		content = rest[1]
	} else {
		data, err := io.ReadAll(app.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		content = string(data)
	}

	written, err := app.files.WriteFile(ctx, content, rest[0], fileio.WithOverwrite(!*noOverwrite))
	if err != nil {
		return err //nolint:wrapcheck
	}
	if !written {
		return fmt.Errorf("%w: %s", fs.ErrExist, rest[0])
	}

	return nil
}

func runRm(ctx context.Context, app *App, args []string) error {
	fset := flag.NewFlagSet("rm", flag.ContinueOnError)
	nonRecursive := fset.Bool("non-recursive", false, "refuse to delete non-empty directories")

	rest, err := parseArgs(fset, args, 1, 1)
	if err != nil {
		return err
	}

	deleted, err := app.files.DeleteFile(ctx, rest[0], fileio.WithRecursive(!*nonRecursive))
	if err != nil {
		return err //nolint:wrapcheck
	}
	if !deleted {
		return fmt.Errorf("%w: %s", fs.ErrNotExist, rest[0])
	}

	return nil
}

func runTest(ctx context.Context, app *App, args []string) error {
	path, err := singlePath("test", args)
	if err != nil {
		return err
	}

	exists, err := app.files.Exists(ctx, path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if !exists {
		return errFalse
	}

	return nil
}

func runMkdir(ctx context.Context, app *App, args []string) error {
	path, err := singlePath("mkdir", args)
	if err != nil {
		return err
	}

	return app.files.Mkdir(ctx, path) //nolint:wrapcheck
}

func runStat(ctx context.Context, app *App, args []string) error {
	path, err := singlePath("stat", args)
	if err != nil {
		return err
	}

	info, found, err := app.files.Stat(ctx, path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if !found {
		return fmt.Errorf("%w: %s", fs.ErrNotExist, path)
	}

	_, err = fmt.Fprintln(app.stdout, renderFileInfo(info))

	return err //nolint:wrapcheck
}

func runSum(ctx context.Context, app *App, args []string) error {
	path, err := singlePath("sum", args)
	if err != nil {
		return err
	}

	sum, found, err := app.files.Checksum(ctx, path)
	if err != nil {
		return err //nolint:wrapcheck
	}
	if !found {
		return fmt.Errorf("%w: %s", fs.ErrNotExist, path)
	}

	_, err = fmt.Fprintf(app.stdout, "%s  %s\n", sum, path)

	return err //nolint:wrapcheck
}
