package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/leandrodaf/vpadserver/internal/config"
	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
	"github.com/leandrodaf/vpadserver/sdk/midi"
	"github.com/leandrodaf/vpadserver/sdk/vpad"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register the rtmidi driver for linux
	cfgflags "gitlab.com/metakeule/config"
	"go.uber.org/multierr"
)

const VERSION = "0.3.0"

var CONFIG = cfgflags.MustNew("vpadserver", VERSION, "performance server for remote MIDI pads")

var (
	addrArg  = CONFIG.NewString("addr", "address to listen on (host:port)", cfgflags.Shortflag('a'))
	outArg   = CONFIG.NewString("out", "instrument output, by number or name", cfgflags.Shortflag('o'))
	ctlArg   = CONFIG.NewString("ctl", "control-surface output for transport and mixer, by number or name", cfgflags.Shortflag('c'))
	dawArg   = CONFIG.NewString("daw", "transport mapping: default, flstudio, studioone, protools, reaper, live, cubase, audition, cakewalk, logic", cfgflags.Shortflag('d'))
	debugArg = CONFIG.NewBool("debug", "log every gesture")
	saveArg  = CONFIG.NewBool("save", "remember these settings in the config file")
	listCmd  = CONFIG.MustCommand("list", "list MIDI outputs")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 2)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n\n", err.Error())
		os.Exit(1)
	}
}

func run() error {
	if err := CONFIG.Run(); err != nil {
		fmt.Fprint(os.Stderr, CONFIG.Usage())
		return err
	}

	if CONFIG.ActiveCommand() == listCmd {
		return listOutputs()
	}

	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	applyFlags(settings)

	log := logger.NewZapLogger()
	level := contracts.InfoLevel
	if settings.Debug {
		level = contracts.DebugLevel
	}

	daw, err := contracts.ParseDAW(settings.DAW)
	if err != nil {
		return err
	}

	instrument, err := midi.NewOutputSink(outputOptions(log, settings.Instrument)...)
	if err != nil {
		return fmt.Errorf("opening instrument output: %w", err)
	}
	sinks := []contracts.OutputSink{instrument}
	opts := []contracts.Option{
		contracts.WithLogger(log),
		contracts.WithLogLevel(level),
		contracts.WithListenAddress(settings.ListenAddress),
		contracts.WithInstrumentSink(instrument),
		contracts.WithTargetDAW(daw),
	}
	if settings.Control != nil {
		control, err := midi.NewOutputSink(outputOptions(log, *settings.Control)...)
		if err != nil {
			closeSinks(sinks)
			return fmt.Errorf("opening control output: %w", err)
		}
		sinks = append(sinks, control)
		opts = append(opts, contracts.WithControlSink(control))
	}

	srv, err := vpad.NewServer(opts...)
	if err != nil {
		closeSinks(sinks)
		return err
	}

	if saveArg.Get() {
		if err := settings.Save(); err != nil {
			log.Warn("Could not save settings", log.Field().Error("error", err))
		}
	}

	fmt.Println(titleStyle.Render("VPadServer " + VERSION))
	fmt.Println(labelStyle.Render("listening on ") + srv.Addr().String())
	fmt.Println(labelStyle.Render("daw mapping  ") + daw.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, srv, os.Stdout)
}

// serve runs srv until ctx is done or accepting fails, then shuts it down.
// The returned error carries both the serve and the shutdown failure.
func serve(ctx context.Context, srv contracts.Server, w io.Writer) error {
	err := srv.Serve(ctx)
	if ctx.Err() != nil {
		fmt.Fprintln(w, "\n--interrupted!")
	}
	return multierr.Append(err, srv.Close())
}

// applyFlags overrides the stored settings with the flags given on the command line.
func applyFlags(c *config.Config) {
	if addrArg.IsSet() {
		c.ListenAddress = addrArg.Get()
	}
	if dawArg.IsSet() {
		c.DAW = dawArg.Get()
	}
	if outArg.IsSet() {
		c.Instrument = parseOutput(outArg.Get())
	}
	if ctlArg.IsSet() {
		o := parseOutput(ctlArg.Get())
		c.Control = &o
	}
	if debugArg.IsSet() {
		c.Debug = debugArg.Get()
	}
}

// parseOutput reads "2" as an index and anything else as a port name.
func parseOutput(s string) config.OutputConfig {
	if i, err := strconv.Atoi(s); err == nil {
		return config.OutputConfig{PortIndex: i}
	}
	return config.OutputConfig{PortName: s}
}

// closeSinks releases outputs opened before the server took ownership of them.
func closeSinks(sinks []contracts.OutputSink) {
	for _, s := range sinks {
		_ = s.Close()
	}
}

func outputOptions(log contracts.Logger, o config.OutputConfig) []contracts.OutputOption {
	return []contracts.OutputOption{
		contracts.WithOutputLogger(log),
		contracts.WithPortName(o.PortName),
		contracts.WithPortIndex(o.PortIndex),
	}
}

func listOutputs() error {
	outs, err := midi.ListOutputs()
	if err != nil {
		return err
	}

	fmt.Print("\n--- MIDI output ports ---\n\n")
	for _, o := range outs {
		fmt.Printf("[%d] %#v %s\n", o.Index, o.Name, labelStyle.Render(o.Manufacturer))
	}
	fmt.Println()
	return nil
}
