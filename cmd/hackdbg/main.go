package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/Hackchain/hackchain-debugger/debugger"
	"github.com/Hackchain/hackchain-debugger/debugger/backend"
	"github.com/Hackchain/hackchain-debugger/debugger/backend/headless"
	"github.com/Hackchain/hackchain-debugger/debugger/backend/terminal"
	"github.com/Hackchain/hackchain-debugger/debugger/disasm"
	"github.com/Hackchain/hackchain-debugger/debugger/phase"
	"github.com/Hackchain/hackchain-debugger/debugger/session"
	"github.com/Hackchain/hackchain-debugger/debugger/vm"
)

func main() {
	app := newApp()

	err := app.Run(os.Args)
	if err != nil {
		slog.Error("Error running debugger", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "hackdbg"
	app.Description = "Step debugger for hackchain output/input programs"
	app.Usage = "hackdbg [options] <session file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "session",
			Usage:  "Path to the session file (YAML or JSON)",
			EnvVar: "HACKDBG_SESSION",
		},
		cli.IntFlag{
			Name:   "max-init-ticks",
			Usage:  "Steps without a yield before bootstrap fails",
			Value:  debugger.DefaultMaxInitTicks,
			EnvVar: "HACKDBG_MAX_INIT_TICKS",
		},
		cli.IntFlag{
			Name:   "max-ticks",
			Usage:  "Steps both threads may run before the run passes",
			Value:  debugger.DefaultMaxTicks,
			EnvVar: "HACKDBG_MAX_TICKS",
		},
		cli.BoolFlag{
			Name:   "headless",
			Usage:  "Step until a verdict without a terminal interface",
			EnvVar: "HACKDBG_HEADLESS",
		},
		cli.IntFlag{
			Name:   "rows",
			Usage:  "Viewport rows per thread in headless mode",
			Value:  headless.DefaultRows,
			EnvVar: "HACKDBG_ROWS",
		},
		cli.BoolFlag{
			Name:   "trace",
			Usage:  "Print the view after every headless step",
			EnvVar: "HACKDBG_TRACE",
		},
		cli.StringFlag{
			Name:   "out",
			Usage:  "File to write headless views to (default: stdout)",
			EnvVar: "HACKDBG_OUT",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "Minimum log level: debug, info, warn or error",
			Value:  "info",
			EnvVar: "HACKDBG_LOG_LEVEL",
		},
	}
	app.Action = runDebugger
	return app
}

func runDebugger(c *cli.Context) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.String("log-level"))); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	sessionPath := c.String("session")
	if sessionPath == "" {
		if c.NArg() > 0 {
			sessionPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no session path provided")
		}
	}

	sess, err := session.Load(sessionPath)
	if err != nil {
		return err
	}

	cfg := debugger.DefaultConfig()
	cfg.MaxInitTicks = c.Int("max-init-ticks")
	cfg.MaxTicks = c.Int("max-ticks")
	cfg.Alignment = vm.Alignment

	stepper, err := debugger.New(vm.New(), disasm.Decoder{}, cfg)
	if err != nil {
		return err
	}

	if !c.Bool("headless") {
		return debugger.Run(terminal.New(), stepper, sess)
	}

	var out io.Writer = c.App.Writer
	if path := c.String("out"); path != "" {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %v", err)
		}
		defer file.Close()
		out = file
	}

	return runHeadless(headless.New(headless.Options{
		Rows:  c.Int("rows"),
		Trace: c.Bool("trace"),
		Out:   out,
	}), stepper, sess)
}

// runHeadless turns a failed verdict into an error so the exit status
// reflects it.
func runHeadless(b backend.Backend, stepper *debugger.Stepper, sess *session.Session) error {
	if err := debugger.Run(b, stepper, sess); err != nil {
		return err
	}
	if stepper.Phase() == phase.Failed {
		return fmt.Errorf("run %s failed: %s", stepper.RunID(), stepper.Verdict())
	}
	return nil
}
