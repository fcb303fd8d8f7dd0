package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"github.com/leandrodaf/vpadserver/sdk/contracts"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Fatalf("got %+v", cfg)
	}
}

func TestDefaultListenAddressMatchesServer(t *testing.T) {
	if got := DefaultConfig().ListenAddress; got != contracts.DefaultListenAddress {
		t.Fatalf("default listen address = %q, want %q", got, contracts.DefaultListenAddress)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := &Config{
		ListenAddress: "127.0.0.1:9000",
		DAW:           "cubase",
		Instrument:    OutputConfig{PortName: "IAC Bus 1"},
		Control:       &OutputConfig{PortIndex: 2},
		Debug:         true,
	}
	if err := cfg.SaveFile(path); err != nil {
		t.Fatal(err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Fatalf("got %+v, want %+v", got, cfg)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"daw":"logic"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DAW != "logic" || cfg.ListenAddress != contracts.DefaultListenAddress || cfg.Control != nil {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestDefaultPathUsesHome(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("home directory comes from USERPROFILE on windows")
	}
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", "vpadserver", "config.json"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
	if err := DefaultConfig().Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}
