package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"

	"github.com/luki/thermolink/internal/chart"
	"github.com/luki/thermolink/internal/config"
	"github.com/luki/thermolink/internal/display"
	"github.com/luki/thermolink/internal/emitter"
	"github.com/luki/thermolink/internal/log"
	"github.com/luki/thermolink/internal/monitor"
	"github.com/luki/thermolink/internal/thermometer"
)

func main() {
	args := os.Args[1:]
	cmd := "listen"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "listen":
		err = runListen(args)
	case "send":
		err = runSend(args)
	case "help":
		printHelp()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printHelp()
		os.Exit(2)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("Usage: thermolink [listen|send] [flags]")
	fmt.Println()
	fmt.Println("  listen   receive readings and show the latest temperature (default)")
	fmt.Println("  send     emit a synthetic reading to the peer every interval")
	fmt.Println()
	fmt.Println("Run 'thermolink <command> --help' for flags.")
}

func parseConfig(name string, args []string) (config.Config, error) {
	fs := pflag.NewFlagSet("thermolink "+name, pflag.ContinueOnError)
	flags := config.NewFlags(fs)
	if err := fs.Parse(args); err != nil {
		return config.Config{}, err
	}
	return flags.Resolve()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runListen(args []string) error {
	cfg, err := parseConfig("listen", args)
	if err != nil {
		return err
	}

	tui := !cfg.Plain && isatty.IsTerminal(os.Stdout.Fd())

	logs, err := log.Setup(log.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: !tui})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logs.Close()

	th, err := thermometer.New(thermometer.Config{
		ListenAddr:     cfg.ListenAddr,
		ReceiveTimeout: cfg.ReceiveTimeout,
	})
	if err != nil {
		return err
	}
	defer th.Close()

	ctx, stop := signalContext()
	defer stop()

	if tui {
		return monitor.Run(ctx, monitor.Options{
			Source:      th,
			Interval:    cfg.DisplayInterval,
			HistorySize: cfg.HistorySize,
			Thresholds:  chart.Thresholds{High: cfg.WarnTemp, Crit: cfg.CritTemp},
			Addr:        th.LocalAddr().String(),
		})
	}

	err = display.Run(ctx, th, cfg.DisplayInterval, os.Stdout)
	if errors.Is(err, context.Canceled) {
		log.Info("[MAIN] shutting down", "received", th.Stats().Received, "failures", th.Stats().Failures)
		return nil
	}
	return err
}

func runSend(args []string) error {
	cfg, err := parseConfig("send", args)
	if err != nil {
		return err
	}

	logs, err := log.Setup(log.Options{Level: cfg.LogLevel, File: cfg.LogFile, Console: true})
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer logs.Close()

	e, err := emitter.New(emitter.Config{
		BindAddr: cfg.SendBind,
		PeerAddr: cfg.PeerAddr,
		Interval: cfg.SendInterval,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	if err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
