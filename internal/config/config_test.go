package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}
	if cfg.Table.RowHeight != 32 {
		t.Errorf("Table.RowHeight = %d, want 32", cfg.Table.RowHeight)
	}
	if cfg.Table.TableID != "default" {
		t.Errorf("Table.TableID = %q, want %q", cfg.Table.TableID, "default")
	}
	if cfg.Server.PageSize != 100 {
		t.Errorf("Server.PageSize = %d, want 100", cfg.Server.PageSize)
	}
	if cfg.Bootstrap.ClientSideMaxRows != 10000 {
		t.Errorf("Bootstrap.ClientSideMaxRows = %d, want 10000", cfg.Bootstrap.ClientSideMaxRows)
	}
}

func TestSetDefaultsAndLoad(t *testing.T) {
	viper.Reset()
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.MaxCachedPages != 20 {
		t.Errorf("Server.MaxCachedPages = %d, want 20", cfg.Server.MaxCachedPages)
	}
}

func TestLoadAppliesOverride(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("server.page_size", 250)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.PageSize != 250 {
		t.Errorf("Server.PageSize = %d, want 250", cfg.Server.PageSize)
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdgtest")
	if got := ConfigDir(); got != "/tmp/xdgtest/vgrid" {
		t.Errorf("ConfigDir() = %q, want %q", got, "/tmp/xdgtest/vgrid")
	}
}
