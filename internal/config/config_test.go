package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sydlexius/vocasync/internal/catalog"
)

func instanceByName(t *testing.T, insts []catalog.Instance, name string) catalog.Instance {
	t.Helper()
	for _, inst := range insts {
		if inst.Name == name {
			return inst
		}
	}
	t.Fatalf("instance %q not resolved", name)
	return catalog.Instance{}
}

func TestDefaultResolvesBuiltins(t *testing.T) {
	cfg := Default()
	insts, err := cfg.ResolveInstances()
	if err != nil {
		t.Fatalf("ResolveInstances: %v", err)
	}
	if len(insts) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(insts))
	}
	want := []string{catalog.NameVocaDB, catalog.NameUtaiteDB, catalog.NameTouhouDB}
	for i, name := range want {
		if insts[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, insts[i].Name, name)
		}
	}

	s := insts[0].Settings
	fb := Fallback()
	if s.SearchLimit != fb.SearchLimit || s.SourceWeight != fb.SourceWeight || s.VariousArtists != fb.VariousArtists {
		t.Errorf("expected fallback settings, got %+v", s)
	}
	if len(s.Languages) != 1 || s.Languages[0] != "en" {
		t.Errorf("Languages = %v, want [en]", s.Languages)
	}
	if s.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", s.Timeout)
	}
}

func TestParseLayering(t *testing.T) {
	data := []byte(`
languages: [jp, en]
defaults:
  search_limit: 8
  source_weight: 0.2
  prefer_romaji: true
  timeout: 3s
instances:
  utaitedb:
    search_limit: 10
    prefer_romaji: false
    languages: [en]
  mydb:
    display_name: MyDB
    base_url: https://db.example.org/
    api_url: https://db.example.org/api/
    subcommand_prefix: mdb
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	insts, err := cfg.ResolveInstances()
	if err != nil {
		t.Fatalf("ResolveInstances: %v", err)
	}
	if len(insts) != 4 || insts[3].Name != "mydb" {
		t.Fatalf("expected custom instance last, got %+v", insts)
	}

	vdb := instanceByName(t, insts, catalog.NameVocaDB)
	if vdb.Settings.SearchLimit != 8 {
		t.Errorf("defaults layer search_limit = %d, want 8", vdb.Settings.SearchLimit)
	}
	if !vdb.Settings.PreferRomaji {
		t.Error("defaults layer prefer_romaji not applied")
	}
	if vdb.Settings.MismatchPenalty != Fallback().MismatchPenalty {
		t.Errorf("unset field should use fallback, got %v", vdb.Settings.MismatchPenalty)
	}
	if vdb.Settings.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", vdb.Settings.Timeout)
	}
	if vdb.Settings.Languages[0] != "jp" {
		t.Errorf("top-level languages not applied: %v", vdb.Settings.Languages)
	}

	udb := instanceByName(t, insts, catalog.NameUtaiteDB)
	if udb.Settings.SearchLimit != 10 {
		t.Errorf("instance layer search_limit = %d, want 10", udb.Settings.SearchLimit)
	}
	if udb.Settings.PreferRomaji {
		t.Error("instance false should override defaults true")
	}
	if udb.Settings.SourceWeight != 0.2 {
		t.Errorf("SourceWeight = %v, want 0.2 from defaults", udb.Settings.SourceWeight)
	}
	if len(udb.Settings.Languages) != 1 || udb.Settings.Languages[0] != "en" {
		t.Errorf("instance languages = %v", udb.Settings.Languages)
	}

	mydb := instanceByName(t, insts, "mydb")
	if mydb.DisplayName != "MyDB" || mydb.SubcommandPrefix != "mdb" || mydb.APIURL != "https://db.example.org/api/" {
		t.Errorf("custom descriptor = %+v", mydb)
	}
	if mydb.Settings.SearchLimit != 8 {
		t.Errorf("custom instance should inherit defaults, got %d", mydb.Settings.SearchLimit)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"negative weight", "defaults: {source_weight: -0.1}", "instances.vocadb.source_weight"},
		{"negative penalty", "instances: {touhoudb: {data_source_mismatch_penalty: -1}}", "instances.touhoudb.data_source_mismatch_penalty"},
		{"zero limit", "defaults: {search_limit: 0}", "instances.vocadb.search_limit"},
		{"zero rate", "instances: {utaitedb: {requests_per_second: 0}}", "instances.utaitedb.requests_per_second"},
		{"empty va", "defaults: {va_string: ' '}", "instances.vocadb.va_string"},
		{"custom without urls", "instances: {mydb: {display_name: MyDB}}", "instances.mydb"},
		{"duplicate prefix", "instances: {mydb: {base_url: a, api_url: b, subcommand_prefix: vdb}}", "instances.mydb.subcommand_prefix"},
		{"bad level", "logging: {level: trace}", "logging.level"},
		{"bad format", "logging: {format: xml}", "logging.format"},
		{"no database", "database: {path: ''}", "database.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			var cfgErr *ErrConfigurationInvalid
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ErrConfigurationInvalid, got %v", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Database.Path != "vocasync.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("logging: {level: warn}\ndefaults: {search_limit: 3}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("VOCASYNC_LOG_LEVEL", "debug")
	t.Setenv("VOCASYNC_DB_PATH", "/tmp/other.db")
	t.Setenv("VOCASYNC_LANGUAGES", "jp, en")
	t.Setenv("VOCASYNC_SEARCH_LIMIT", "7")
	t.Setenv("VOCASYNC_SOURCE_WEIGHT", "0.25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Database.Path != "/tmp/other.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if len(cfg.Languages) != 2 || cfg.Languages[0] != "jp" || cfg.Languages[1] != "en" {
		t.Errorf("Languages = %v", cfg.Languages)
	}

	insts, err := cfg.ResolveInstances()
	if err != nil {
		t.Fatal(err)
	}
	if insts[0].Settings.SearchLimit != 7 || insts[0].Settings.SourceWeight != 0.25 {
		t.Errorf("env settings not applied: %+v", insts[0].Settings)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("VOCASYNC_SEARCH_LIMIT", "many")
	_, err := Load("")
	var cfgErr *ErrConfigurationInvalid
	if !errors.As(err, &cfgErr) || cfgErr.Field != "VOCASYNC_SEARCH_LIMIT" {
		t.Fatalf("expected invalid search limit, got %v", err)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("languages: [unterminated\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
