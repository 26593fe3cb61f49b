// trackdump decodes count-prefixed keyframe tracks and evaluates them at
// given times against a reference scene.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/gonewx/actoranim/pkg/animation"
	"github.com/gonewx/actoranim/pkg/config"
)

type envKey struct{}

// env is the state shared by all subcommands.
type env struct {
	cfg         *config.Config
	log         *zap.Logger
	progression animation.ProgressionPolicy
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{cfg: config.Default(), log: zap.NewNop()}
}

func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := &env{cfg: config.Default()}

	var err error
	if name := cmd.String("config"); name != "" {
		if e.cfg, err = config.Load(name); err != nil {
			return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
		}
	}
	if cmd.Bool("debug") {
		e.cfg.Logging.Level = zap.DebugLevel.String()
		e.cfg.Logging.Development = true
	}
	if e.progression, err = e.cfg.ProgressionPolicy(); err != nil {
		return ctx, err
	}
	if e.log, err = e.cfg.Logging.Prepare(); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}

	e.log.Debug("Program started", zap.Strings("args", cmd.Args().Slice()), zap.Stringer("progression", e.progression))
	return context.WithValue(ctx, envKey{}, e), nil
}

func destroyAppContext(ctx context.Context, _ *cli.Command) error {
	e := envFromContext(ctx)
	// stderr sync errors are not actionable
	_ = e.log.Sync()
	return nil
}

// errWasHandled is set once a failure has been logged, so main does not
// report it again.
var errWasHandled bool

// exitErrHandler replaces the cli default, which exits the process on
// aggregated errors.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		e.log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

// trackFlags returns fresh flag instances, flags keep parse state.
func trackFlags(extra ...cli.Flag) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "property",
			Aliases:  []string{"p"},
			Required: true,
			Usage:    "track `PROPERTY` (posx, posy, scalex, scaley, rotation, opacity, draworder, length, vertexdeform)",
		},
		&cli.IntFlag{Name: "vertices", Value: 4, Usage: "vertex `COUNT` of the target image for vertexdeform tracks"},
		&cli.IntFlag{Name: "nodes", Value: 8, Usage: "image `COUNT` of the target actor for draworder tracks"},
	}
	return append(flags, extra...)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "trackdump",
		Usage:           "decodes and evaluates keyframe tracks",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log at debug level"},
		},
		Commands: []*cli.Command{
			{
				Name:      "frames",
				Usage:     "Lists the keyframes of track file(s)",
				ArgsUsage: "FILE...",
				Action:    runFrames,
				Flags:     trackFlags(),
			},
			{
				Name:      "eval",
				Usage:     "Evaluates track file(s) at the given times",
				ArgsUsage: "FILE...",
				Action:    runEval,
				Flags: trackFlags(
					&cli.FloatSliceFlag{Name: "time", Aliases: []string{"t"}, Usage: "evaluation `TIME` in seconds, may be repeated"},
					&cli.FloatFlag{Name: "mix", Value: 1, Usage: "blend `WEIGHT` in [0, 1]"},
					&cli.BoolFlag{Name: "world", Usage: "print vertexdeform results in world space"},
				),
			},
			{
				Name:      "reanim",
				Usage:     "Converts a Reanim file and lists the resulting keyframe tracks",
				ArgsUsage: "FILE",
				Action:    runReanim,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "part", Usage: "only list part `NAME`"},
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newApp().Run(ctx, os.Args)
	stop()
	if err != nil {
		if !errWasHandled {
			fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
		}
		os.Exit(1)
	}
}
