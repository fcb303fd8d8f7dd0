package midi

import (
	"errors"
	"testing"

	"github.com/leandrodaf/vpadserver/internal/logger"
	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

func TestApplyDefaultOptions(t *testing.T) {
	opts := applyDefaultOptions()
	if opts.Logger == nil {
		t.Fatal("a default logger is required")
	}
	if opts.ClientName != DefaultClientName || opts.PortIndex != 0 || opts.PortName != "" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}

	log := logger.NewNopLogger()
	opts = applyDefaultOptions(
		contracts.WithOutputLogger(log),
		contracts.WithClientName("Stage"),
		contracts.WithPortName("IAC Bus 2"),
		contracts.WithPortIndex(3),
	)
	if opts.Logger != log || opts.ClientName != "Stage" || opts.PortName != "IAC Bus 2" || opts.PortIndex != 3 {
		t.Fatalf("options not applied: %+v", opts)
	}
}

func TestUnsupportedOS(t *testing.T) {
	defer func(prev string) { goos = prev }(goos)
	goos = "plan9"

	if _, err := ListOutputs(); !errors.Is(err, ErrUnsupportedOS) {
		t.Fatalf("expected ErrUnsupportedOS, got %v", err)
	}
	if _, err := NewOutputSink(contracts.WithOutputLogger(logger.NewNopLogger())); !errors.Is(err, ErrUnsupportedOS) {
		t.Fatalf("expected ErrUnsupportedOS, got %v", err)
	}
}

func TestDriversCoverMainPlatforms(t *testing.T) {
	for _, os := range []string{"darwin", "windows", "linux"} {
		if _, err := driverFor(os); err != nil {
			t.Errorf("%s: %v", os, err)
		}
	}
}
