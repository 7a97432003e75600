package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxCycles != 1000000 {
		t.Errorf("Expected MaxCycles=1000000, got %d", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.MemSize != 0x10000 {
		t.Errorf("Expected MemSize=0x10000, got 0x%X", cfg.Execution.MemSize)
	}
	if cfg.Execution.SplitMemory {
		t.Error("Expected SplitMemory=false")
	}

	if cfg.Debugger.HistorySize != 1000 {
		t.Errorf("Expected HistorySize=1000, got %d", cfg.Debugger.HistorySize)
	}
	if !cfg.Debugger.ShowRegisters {
		t.Error("Expected ShowRegisters=true")
	}

	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("Expected NumberFormat=hex, got %s", cfg.Display.NumberFormat)
	}

	if cfg.Trace.MaxEntries != 100000 {
		t.Errorf("Expected MaxEntries=100000, got %d", cfg.Trace.MaxEntries)
	}

	if cfg.Statistics.Format != "json" {
		t.Errorf("Expected Format=json, got %s", cfg.Statistics.Format)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "tscsim" && path != "config.toml" {
			t.Errorf("Expected path in tscsim directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()
	if path == "" {
		t.Error("GetLogPath returned empty string")
	}
	if runtime.GOOS == "darwin" || runtime.GOOS == "linux" {
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 5000000
	cfg.Execution.EntryOverride = "0x0010"
	cfg.Execution.SplitMemory = true
	cfg.Trace.LogLevel = 3

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Execution.MaxCycles != 5000000 {
		t.Errorf("Expected MaxCycles=5000000, got %d", loaded.Execution.MaxCycles)
	}
	if loaded.Execution.EntryOverride != "0x0010" {
		t.Errorf("Expected EntryOverride=0x0010, got %s", loaded.Execution.EntryOverride)
	}
	if !loaded.Execution.SplitMemory {
		t.Error("Expected SplitMemory=true")
	}
	if loaded.Trace.LogLevel != 3 {
		t.Errorf("Expected LogLevel=3, got %d", loaded.Trace.LogLevel)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}
	if cfg.Execution.MaxCycles != 1000000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[execution]
max_cycles = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}
	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}

func TestParseEntry(t *testing.T) {
	v, ok, err := ParseEntry("0x0010")
	if err != nil || !ok || v != 0x10 {
		t.Errorf("ParseEntry(0x0010) = (%d,%v,%v), want (16,true,nil)", v, ok, err)
	}

	_, ok, err = ParseEntry("")
	if err != nil || ok {
		t.Errorf("ParseEntry(\"\") should report ok=false, got ok=%v err=%v", ok, err)
	}

	_, _, err = ParseEntry("not-hex")
	if err == nil {
		t.Error("ParseEntry should reject non-hex input")
	}
}
