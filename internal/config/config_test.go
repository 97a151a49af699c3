package config_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/donburnsideAZ/project-tracker/internal/config"
)

func TestParseJSONC(t *testing.T) {
	data := []byte(`{
  // shared folder
  "data_folder": "/srv/tracker",
  /* block comment */
  "outlook": {"tenant_id": "contoso",},
}`)
	cfg, err := config.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.DataFolder != "/srv/tracker" {
		t.Errorf("DataFolder = %q", cfg.DataFolder)
	}
	if cfg.Outlook.TenantID != "contoso" {
		t.Errorf("TenantID = %q, want contoso", cfg.Outlook.TenantID)
	}
	if cfg.Outlook.ClientID != config.DefaultClientID || cfg.Outlook.DefaultWorkType != config.DefaultWorkType {
		t.Errorf("defaults not filled: %+v", cfg.Outlook)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := config.Parse([]byte(`{"data_folder": 3}`)); err == nil {
		t.Error("expected error for wrong field type")
	}
}

func TestLoadFileWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.json")
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.DataFolder != "" {
		t.Errorf("DataFolder = %q, want empty", cfg.DataFolder)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}

	// The template itself must parse.
	again, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile on template: %v", err)
	}
	if again.Outlook.TenantID != config.DefaultTenantID {
		t.Errorf("template TenantID = %q", again.Outlook.TenantID)
	}
}

func TestSetDataFolderRecent(t *testing.T) {
	var cfg config.Config
	for _, f := range []string{"/a", "/b", "/c", "/d", "/e", "/f", "/c"} {
		cfg.SetDataFolder(f)
	}
	want := []string{"/c", "/f", "/e", "/d", "/b"}
	if !reflect.DeepEqual(cfg.RecentFolders, want) {
		t.Errorf("RecentFolders = %v, want %v", cfg.RecentFolders, want)
	}
	if cfg.DataFolder != "/c" {
		t.Errorf("DataFolder = %q", cfg.DataFolder)
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvDataFolder, "")
	t.Setenv(config.EnvUser, "")

	var cfg config.Config
	cfg.SetDataFolder("/srv/tracker")
	cfg.Outlook.DefaultProject = "ECM-1"
	if err := config.Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DataFolder != "/srv/tracker" || got.Outlook.DefaultProject != "ECM-1" {
		t.Errorf("Load = %+v", got)
	}

	t.Setenv(config.EnvDataFolder, "/override")
	t.Setenv(config.EnvUser, "bob")
	got, err = config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got.DataFolder != "/override" || got.User != "bob" {
		t.Errorf("env overrides not applied: %+v", got)
	}
}
