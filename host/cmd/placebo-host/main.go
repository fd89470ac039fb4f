package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"placebo/core"
	"placebo/firmware"
	"placebo/host/config"
	"placebo/host/serial"
	"placebo/host/sim"
)

var (
	configPath string
	device     string
	baud       int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "placebo-host",
	Short: "Run the blink shell firmware on the host",
	Long: `placebo-host runs the blink controller with an emulated LED and timer.

The shell is attached to a serial device, or to this terminal when no
device is configured. Ctrl-C or Ctrl-D on the terminal stops it.`,
	SilenceUsage: true,
	RunE:         runFirmware,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the firmware (default)",
	Args:  cobra.NoArgs,
	RunE:  runFirmware,
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the shipped blink patterns",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		printPatterns(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "placebo.yaml", "Board profile")
	rootCmd.PersistentFlags().StringVarP(&device, "device", "d", "", "Serial device path (default: this terminal)")
	rootCmd.PersistentFlags().IntVar(&baud, "baud", 0, "Baud rate (ignored for USB CDC)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(runCmd, patternsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("device") {
		cfg.Device = device
	}
	if cmd.Flags().Changed("baud") {
		cfg.Baud = baud
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if verbose {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	// Firmware diagnostics are logged at debug level
	if verbose || cfg.Debug {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// debugWriter routes firmware debug output into log
func debugWriter(log *zap.Logger) core.DebugWriter {
	return func(msg string) { log.Debug(msg) }
}

func openPort(cfg *config.Config, logger *zap.Logger) (serial.Port, error) {
	if cfg.Device == "" {
		port, err := serial.OpenStdio()
		if err != nil {
			return nil, err
		}
		return port, nil
	}

	port, err := serial.Open(cfg.Serial())
	if err != nil {
		return nil, err
	}
	// Drop whatever the device sent before the session started
	if err := port.Flush(); err != nil {
		logger.Warn("flush serial port", zap.Error(err))
	}
	return port, nil
}

func runFirmware(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	fwCfg, err := cfg.Firmware()
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Firmware diagnostics surface as structured logs
	core.SetDebugWriter(debugWriter(logger.Named("firmware")))
	core.SetDebugEnabled(cfg.Debug)
	core.InitAsyncDebug()

	port, err := openPort(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream := serial.NewStream(&quitOnControl{Port: port, quit: cancel}, 0, logger.Named("serial"))
	led := sim.NewLED(logger.Named("led"))
	timer := sim.NewTimer(logger.Named("timer"))

	app, err := firmware.New(fwCfg, led, timer, stream)
	if err != nil {
		_ = port.Close()
		return fmt.Errorf("failed to build firmware: %w", err)
	}
	if app.Shell() != nil {
		stream.SetNotify(func() { app.SerialInterrupt() })
	}
	timer.SetInterrupt(func() { app.TimerInterrupt() })
	app.SetBell(func() { logger.Info("bell") })

	logger.Info("starting",
		zap.String("variant", fwCfg.Variant.String()),
		zap.String("device", cfg.Device),
		zap.Duration("period", fwCfg.InitialPeriod))

	app.Boot()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return timer.Run(ctx)
	})
	g.Go(func() error {
		// The session ends with the stream
		defer cancel()
		return stream.Run(ctx)
	})
	err = g.Wait()

	logger.Info("stopped",
		zap.Uint64("interrupts", timer.Fired()),
		zap.Uint64("edges", led.Edges()),
		zap.Int("rx_dropped", stream.Dropped()),
		zap.Int("rx_pending", stream.Pending()))
	if core.IsDebugEnabled() {
		app.DumpEvents()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// quitOnControl stops the runner on Ctrl-C or Ctrl-D. The terminal is in
// raw mode, so they arrive as bytes instead of signals.
type quitOnControl struct {
	serial.Port
	quit func()
}

func (q *quitOnControl) Read(b []byte) (int, error) {
	n, err := q.Port.Read(b)
	for i := 0; i < n; i++ {
		if b[i] == 0x03 || b[i] == 0x04 {
			q.quit()
			return i, err
		}
	}
	return n, err
}

func printPatterns(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-8s %-6s %-6s %s\n", "NAME", "MASK", "TICKS", "SEQUENCE")
	for _, p := range firmware.Patterns {
		period := p.Pattern.Period()
		var seq strings.Builder
		for tick := uint64(0); tick < period && tick < 32; tick++ {
			if core.NextLevel(uint32(tick), p.Pattern) == core.High {
				seq.WriteByte('#')
			} else {
				seq.WriteByte('.')
			}
		}
		fmt.Fprintf(out, "%-8s 0x%-4x %-6d %s\n", p.Name, uint32(p.Pattern), period, seq.String())
	}
}
