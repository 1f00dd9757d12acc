// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

// shapes-demo is an interactive publish/subscribe client. It publishes
// a colored square on a multicast bus, moves it with the arrow keys,
// and prints every shape other participants publish on the same topic.
//
// Usage:
//
//	shapes-demo [domain] [participant] [flags]
//
// domain selects the bus domain (and so the UDP port); participant is
// an informational index distinguishing clients on one host. Both
// default to 0. Press q or Ctrl-C to quit.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/shapes/bus"
	"github.com/bureau-foundation/shapes/lib/config"
	"github.com/bureau-foundation/shapes/lib/keyboard"
	"github.com/bureau-foundation/shapes/lib/logging"
	"github.com/bureau-foundation/shapes/lib/notify"
	"github.com/bureau-foundation/shapes/lib/oneshot"
	"github.com/bureau-foundation/shapes/lib/poller"
	"github.com/bureau-foundation/shapes/lib/process"
	"github.com/bureau-foundation/shapes/lib/shape"
	"github.com/bureau-foundation/shapes/lib/version"
	"github.com/bureau-foundation/shapes/shapes"
)

const programName = "shapes-demo"

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(err)
	}
}

// options holds everything parsed from the command line.
type options struct {
	configPath  string
	topic       string
	color       string
	logFile     string
	logLevel    string
	showVersion bool
	showHelp    bool

	domain      uint16
	participant uint16
}

func parseArguments(args []string, output io.Writer) (options, error) {
	var parsed options

	flagSet := pflag.NewFlagSet(programName, pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.StringVar(&parsed.configPath, "config", "", "path to YAML config file (default: $SHAPES_CONFIG)")
	flagSet.StringVar(&parsed.topic, "topic", "", "topic to publish and subscribe on (default: Square)")
	flagSet.StringVar(&parsed.color, "color", "", "color of the local shape (default: BLUE)")
	flagSet.StringVar(&parsed.logFile, "log-file", "", "write JSON log records to this file instead of stderr")
	flagSet.StringVar(&parsed.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flagSet.BoolVar(&parsed.showVersion, "version", false, "print version information and exit")
	flagSet.BoolVarP(&parsed.showHelp, "help", "h", false, "show help")
	flagSet.Usage = func() { printHelp(flagSet, output) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			parsed.showHelp = true
			return parsed, nil
		}
		return options{}, err
	}
	if parsed.showHelp {
		printHelp(flagSet, output)
		return parsed, nil
	}

	domain, participant, err := parsePositional(flagSet.Args())
	if err != nil {
		return options{}, err
	}
	parsed.domain = domain
	parsed.participant = participant
	return parsed, nil
}

// parsePositional reads the optional [domain] [participant] arguments.
func parsePositional(args []string) (domain, participant uint16, err error) {
	if len(args) > 2 {
		return 0, 0, fmt.Errorf("unexpected argument: %s", args[2])
	}
	names := []string{"domain", "participant"}
	values := []*uint16{&domain, &participant}
	for index, arg := range args {
		value, parseErr := strconv.ParseUint(arg, 10, 16)
		if parseErr != nil {
			return 0, 0, fmt.Errorf("%s %q is not a number between 0 and 65535", names[index], arg)
		}
		*values[index] = uint16(value)
	}
	return domain, participant, nil
}

func printHelp(flagSet *pflag.FlagSet, output io.Writer) {
	fmt.Fprintf(output, `%s: move a shape with the arrow keys and watch everyone else's.

Usage:
  %s [domain] [participant] [flags]

Arguments:
  domain        bus domain; participants only see others in the same domain (default 0)
  participant   index distinguishing clients on one host (default 0)

Keys:
  arrows        move the shape one step and publish it
  q, Ctrl-C     quit

Flags:
`, programName, programName)
	flagSet.PrintDefaults()
}

// loadConfig loads the config file and layers command-line overrides
// on top, then validates the result.
func loadConfig(parsed options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if parsed.configPath != "" {
		cfg, err = config.LoadFile(parsed.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if parsed.topic != "" {
		cfg.Topic = parsed.topic
	}
	if parsed.color != "" {
		cfg.Shape.Color = parsed.color
	}
	if parsed.logFile != "" {
		cfg.Log.File = parsed.logFile
	}
	if parsed.logLevel != "" {
		cfg.Log.Level = parsed.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(args []string) error {
	parsed, err := parseArguments(args, os.Stderr)
	if err != nil {
		return err
	}
	if parsed.showHelp {
		return nil
	}
	if parsed.showVersion {
		version.Print(programName)
		return nil
	}

	cfg, err := loadConfig(parsed)
	if err != nil {
		return err
	}

	logOutput := io.Writer(os.Stderr)
	if cfg.Log.File != "" {
		logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer logFile.Close()
		logOutput = logFile
	}
	logger, err := logging.New(logging.Options{Writer: logOutput, Level: cfg.Log.Level})
	if err != nil {
		return err
	}
	logger = logger.With("domain", parsed.domain, "participant", parsed.participant)
	logger.Info("starting", "version", version.Info(), "topic", cfg.Topic, "color", cfg.Shape.Color)

	transport, err := bus.NewUDPTransport(bus.UDPConfig{
		Group:      cfg.Bus.Group,
		PortBase:   cfg.Bus.PortBase,
		DomainGain: cfg.Bus.DomainGain,
		Domain:     parsed.domain,
		Interface:  cfg.Bus.Interface,
	})
	if err != nil {
		return fmt.Errorf("creating bus transport: %w", err)
	}
	participant := bus.NewParticipant(bus.ParticipantConfig{
		Domain: parsed.domain,
		Index:  parsed.participant,
	}, transport, logger)
	defer participant.Close()
	logger.Info("joined bus",
		"group", transport.Group().String(),
		"guid", participant.GUID().String(),
		"bus_domain", participant.Domain(),
		"bus_index", participant.Index(),
	)

	topic := bus.Topic{Name: cfg.Topic, TypeName: shape.TypeName}
	reader, err := bus.NewReader[shape.Shape](participant, topic, bus.QoS{HistoryDepth: cfg.Reader.HistoryDepth})
	if err != nil {
		return fmt.Errorf("creating reader: %w", err)
	}
	defer reader.Close()
	writer, err := bus.NewWriter[shape.Shape](participant, topic)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}
	defer writer.Close()

	multiplexer, err := poller.New()
	if err != nil {
		return fmt.Errorf("creating poller: %w", err)
	}
	defer multiplexer.Close()

	timer, err := oneshot.New(cfg.Keyboard.PollInterval)
	if err != nil {
		return fmt.Errorf("creating keyboard timer: %w", err)
	}
	defer timer.Close()
	logger.Debug("keyboard timer ready", "poll_interval", timer.Interval())

	sender, receiver, err := notify.New()
	if err != nil {
		return fmt.Errorf("creating stop channel: %w", err)
	}
	defer receiver.Close()

	stdinFd := int(os.Stdin.Fd())
	if keyboard.IsTerminal(stdinFd) {
		restore, err := keyboard.MakeRaw(stdinFd)
		if err != nil {
			return fmt.Errorf("entering raw mode: %w", err)
		}
		defer func() {
			if err := restore(); err != nil {
				logger.Warn("restoring terminal failed", "error", err)
			}
		}()
	} else {
		logger.Info("stdin is not a terminal, reading keys without raw mode")
	}
	source, err := keyboard.NewSource(stdinFd)
	if err != nil {
		return fmt.Errorf("opening keyboard: %w", err)
	}
	defer source.Close()

	display := shapes.NewTerminalDisplay(os.Stdout, termenv.NewOutput(os.Stdout).EnvColorProfile())
	if keyboard.IsTerminal(int(os.Stdout.Fd())) {
		title := fmt.Sprintf("%s: %s in domain %d", programName, cfg.Topic, parsed.domain)
		if err := display.SetTitle(title); err != nil {
			logger.Debug("setting window title failed", "error", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)
	go func() {
		if err := shapes.WatchInterrupt(ctx, signals, sender, logger); err != nil {
			logger.Warn("interrupt watcher failed", "error", err)
		}
	}()

	initial := shape.New(cfg.Shape.Color, cfg.Shape.X, cfg.Shape.Y, cfg.Shape.Size)
	loop, err := shapes.New(shapes.Endpoints{
		Multiplexer: multiplexer,
		Reader:      reader,
		Writer:      writer,
		Stop:        receiver,
		Timer:       timer,
		Keyboard:    source,
		Display:     display,
		Logger:      logger,
		DrainBatch:  cfg.Reader.DrainBatch,
	}, initial)
	if err != nil {
		return err
	}
	if err := loop.Run(); err != nil {
		return err
	}

	if err := display.Err(); err != nil {
		logger.Warn("display output failed", "error", err)
	}
	logger.Info("stopped",
		"shape", loop.Shape().String(),
		"published", writer.Sequence(),
		"dropped", reader.Dropped(),
	)
	return nil
}
