package internal

import (
	"path/filepath"
	"testing"

	"github.com/iksnae/doomlearn/testutil"
)

func testPaths(t *testing.T) DataPaths {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	return DataPaths{ConfigDir: filepath.Join(dir, "config"), DataDir: filepath.Join(dir, "data")}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DOOMLEARN_API_URL", "")
	t.Setenv("DOOMLEARN_DATA_DIR", "")
	t.Setenv("DOOMLEARN_STORAGE", "")
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	clearConfigEnv(t)
	paths := testPaths(t)

	cfg, err := LoadConfig(paths.ConfigFile(), paths)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIURL != "http://localhost:8000" {
		t.Errorf("APIURL = %q", cfg.APIURL)
	}
	if cfg.DataDir != paths.DataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, paths.DataDir)
	}
	if cfg.Storage != StorageJSON || cfg.PostCount != 10 || cfg.TimeoutSecs != 60 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DefaultPlatform() != PlatformReddit {
		t.Errorf("DefaultPlatform() = %q", cfg.DefaultPlatform())
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	clearConfigEnv(t)
	paths := testPaths(t)
	testutil.WriteFile(t, paths.ConfigDir, "config.yaml", []byte(`
api_url: https://feeds.example.com
storage: SQLite
post_count: 25
timeout_secs: 5
platform: twitter
`))
	t.Setenv("DOOMLEARN_API_URL", "http://127.0.0.1:9000")

	cfg, err := LoadConfig(paths.ConfigFile(), paths)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9000" {
		t.Errorf("APIURL = %q, want env override", cfg.APIURL)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("Storage = %q, want normalized sqlite", cfg.Storage)
	}
	if cfg.PostCount != 25 || cfg.Timeout().Seconds() != 5 || cfg.DefaultPlatform() != PlatformTwitter {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad url", yaml: "api_url: ftp://example.com\n"},
		{name: "bad storage", yaml: "storage: redis\n"},
		{name: "too many posts", yaml: "post_count: 500\n"},
		{name: "negative timeout", yaml: "timeout_secs: -1\n"},
		{name: "bad platform", yaml: "platform: myspace\n"},
		{name: "not yaml", yaml: "api_url: [unclosed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			paths := testPaths(t)
			testutil.WriteFile(t, paths.ConfigDir, "config.yaml", []byte(tt.yaml))

			if _, err := LoadConfig(paths.ConfigFile(), paths); err == nil {
				t.Error("LoadConfig() should fail")
			}
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	clearConfigEnv(t)
	paths := testPaths(t)
	cfg := DefaultConfig(paths)
	cfg.PostCount = 7

	if err := cfg.Save(paths.ConfigFile()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded, err := LoadConfig(paths.ConfigFile(), paths)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if loaded.PostCount != 7 {
		t.Errorf("PostCount = %d, want 7", loaded.PostCount)
	}
}

func TestOpenPersister(t *testing.T) {
	tests := []struct {
		storage string
		want    string
	}{
		{storage: StorageJSON, want: StateFileName},
		{storage: StorageSQLite, want: StateDBName},
	}

	for _, tt := range tests {
		t.Run(tt.storage, func(t *testing.T) {
			cfg := DefaultConfig(testPaths(t))
			cfg.Storage = tt.storage

			p, err := OpenPersister(cfg)
			if err != nil {
				t.Fatalf("OpenPersister() error = %v", err)
			}
			defer p.Close()

			type pather interface{ Path() string }
			if got := filepath.Base(p.(pather).Path()); got != tt.want {
				t.Errorf("store path = %s, want %s", got, tt.want)
			}
		})
	}
}
