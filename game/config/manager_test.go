package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/mcp-training/game2048/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()

		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected classic.json as default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in rules", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without presets, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.WinTile != engine.DefaultWinTile {
			t.Errorf("Expected built-in win tile %d, got %d", engine.DefaultWinTile, defaultConfig.WinTile)
		}
	})

	t.Run("first valid preset without classic", func(t *testing.T) {
		dir := t.TempDir()
		quick := createValidConfig()
		quick.Name = "Quick"
		quick.WinTile = 512
		writeConfigFile(t, dir, "quick", quick)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().WinTile != 512 {
			t.Errorf("Expected quick preset as default, got %+v", manager.GetDefault())
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	quick := createValidConfig()
	quick.Name = "Quick"
	quick.WinTile = 512
	writeConfigFile(t, dir, "quick", quick)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("quick")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Quick" || config.WinTile != 512 {
			t.Errorf("Unexpected config %+v", config)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("quick.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Quick" {
			t.Errorf("Expected config name 'Quick', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("quick")
		config2, err := manager.LoadConfig("quick")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}

		// Should be the same pointer (cached)
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		invalidData := []byte(`{"name": ""}`)
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), invalidData, 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		malformedData := []byte(`{"name": "Malformed", invalid json}`)
		if err := os.WriteFile(filepath.Join(dir, "malformed.json"), malformedData, 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}

		_, err := manager.LoadConfig("malformed")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig for malformed JSON, got %v", err)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	presets := []struct {
		filename string
		name     string
		seed     int64
	}{
		{"classic", "Classic", 0},
		{"quick", "Quick", 0},
		{"seeded", "Seeded", 77},
	}

	for _, p := range presets {
		config := createValidConfig()
		config.Name = p.name
		config.Seed = p.seed
		writeConfigFile(t, dir, p.filename, config)
	}

	// ignored: not JSON, and invalid
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 3 {
		t.Fatalf("Expected 3 configs, got %d", len(configList))
	}

	for i, p := range presets {
		info := configList[i]
		if info.ConfigID != p.filename || info.Name != p.name {
			t.Errorf("Entry %d: expected %s/%s, got %s/%s", i, p.filename, p.name, info.ConfigID, info.Name)
		}
		if info.Seeded != (p.seed != 0) {
			t.Errorf("Entry %d: expected seeded=%v", i, p.seed != 0)
		}
		if info.WinTile != engine.DefaultWinTile {
			t.Errorf("Entry %d: expected win tile %d, got %d", i, engine.DefaultWinTile, info.WinTile)
		}
	}
}

func TestManager_SaveAndRefresh(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	config := createValidConfig()
	config.Name = "Saved"
	if err := manager.SaveConfig("saved.json", config); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
		t.Errorf("Expected preset file on disk: %v", err)
	}

	loaded, err := manager.LoadConfig("saved")
	if err != nil || loaded != config {
		t.Errorf("Expected the saved preset from cache, got %v (err %v)", loaded, err)
	}

	// change the file behind the cache
	changed := createValidConfig()
	changed.Name = "Changed"
	writeConfigFile(t, dir, "saved", changed)

	manager.RefreshCache()
	reloaded, err := manager.LoadConfig("saved")
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if reloaded.Name != "Changed" {
		t.Errorf("Expected refreshed preset, got %q", reloaded.Name)
	}

	invalid := createValidConfig()
	invalid.WinTile = 3
	if err := manager.SaveConfig("invalid", invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestManager_SetDefault(t *testing.T) {
	dir := t.TempDir()
	quick := createValidConfig()
	quick.Name = "Quick"
	writeConfigFile(t, dir, "quick", quick)
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.SetDefault("quick"); err != nil {
		t.Fatalf("Failed to set default: %v", err)
	}
	if manager.GetDefault().Name != "Quick" {
		t.Errorf("Expected Quick as default, got %q", manager.GetDefault().Name)
	}
	if err := manager.SetDefault("missing"); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Expected ErrConfigNotFound, got %v", err)
	}
}

func TestManager_ConcurrentLoads(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := manager.LoadConfig("classic"); err != nil {
				t.Errorf("Concurrent load failed: %v", err)
			}
			manager.GetDefault()
		}()
	}
	wg.Wait()
}

func TestRepositoryPresetsAreValid(t *testing.T) {
	manager, err := NewManager(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("Failed to open repository presets: %v", err)
	}

	for _, name := range []string{"classic", "quick", "seeded", "fours"} {
		if _, err := manager.LoadConfig(name); err != nil {
			t.Errorf("Preset %s: %v", name, err)
		}
	}
	if manager.GetDefault().Name != "classic" {
		t.Errorf("Expected classic as default, got %q", manager.GetDefault().Name)
	}
}
