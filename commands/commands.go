// Package commands implements program subcommands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"kshim/provider"
	"kshim/state"
)

// output returns writer for command results: named file or command writer
// (normally STDOUT). Returned function must be called when done.
func output(cmd *cli.Command, fname string) (io.Writer, func() error, error) {
	if len(fname) == 0 {
		w := cmd.Root().Writer
		if w == nil {
			w = os.Stdout
		}
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(fname)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to create destination file '%s': %w", fname, err)
	}
	return f, f.Close, nil
}

// prepare opens host stores and loads theme definitions.
func prepare(ctx context.Context) (*state.LocalEnv, error) {
	env, err := prepareDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	if err := env.OpenStorage(); err != nil {
		return nil, err
	}
	return env, nil
}

func prepareDefinitions(ctx context.Context) (*state.LocalEnv, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)
	if err := env.LoadDefinitions(); err != nil {
		return nil, err
	}
	return env, nil
}

// register replays theme definitions against provider. Rejected definitions
// are reported together, accepted ones stay registered.
func register(env *state.LocalEnv) func(p provider.StyleConfigProvider) error {
	return func(p provider.StyleConfigProvider) error {
		return env.Definitions.Register(p)
	}
}

// registerAll is register for commands which work with whatever was
// accepted, rejected definitions are only logged.
func registerAll(env *state.LocalEnv, p provider.StyleConfigProvider) {
	if err := register(env)(p); err != nil {
		env.Log.Warn("Some theme definitions were rejected", zap.Error(err))
	}
}

// tooManyArgs warns about ignored trailing arguments.
func tooManyArgs(env *state.LocalEnv, cmd *cli.Command, expected int) {
	if cmd.Args().Len() > expected {
		env.Log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[expected:]))
	}
}
