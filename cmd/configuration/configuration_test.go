// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package configuration

import (
	"reflect"
	"testing"

	"k8s.io/utils/pointer"
)

func fullConfig() *Config {
	return &Config{
		WorkingDir:          pointer.String("/var/docweave/work"),
		CacheHome:           pointer.String("~/.docweave/cache"),
		CatalogURL:          pointer.String("https://api.example.org/v3/catalog.json"),
		CatalogStaleMinutes: pointer.Int(720),
		AuthToken:           pointer.String("s0m3tok3n"),
		FetchWorkers:        pointer.Int(4),
		Assembly: &Assembly{
			Strategy:       pointer.String("book-language-order"),
			Layout:         pointer.String("two-column-sl-sr"),
			ChunkSize:      pointer.String("verse"),
			LayoutForPrint: pointer.Bool(true),
			Outputs:        []string{"pdf", "epub"},
		},
	}
}

func Test_load(t *testing.T) {
	tests := []struct {
		name           string
		configFilePath string
		want           *Config
		wantErr        bool
	}{
		{
			name:           "full_config",
			configFilePath: "testdata/config_full.yaml",
			want:           fullConfig(),
			wantErr:        false,
		},
		{
			name:           "missing_file_is_empty_config",
			configFilePath: "testdata/missing.yaml",
			want:           &Config{},
			wantErr:        false,
		},
		{
			name:           "directory_errors",
			configFilePath: "testdata",
			want:           nil,
			wantErr:        true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(tt.configFilePath)
			if (err != nil) != tt.wantErr {
				t.Errorf("load() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDefaultConfigurationLoader(t *testing.T) {
	loader := new(DefaultConfigurationLoader)

	t.Run("env_names_the_file", func(t *testing.T) {
		t.Setenv(DocweaveConfigEnv, "testdata/config_full.yaml")
		got, err := loader.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(got, fullConfig()) {
			t.Errorf("Load() = %+v, want full config", got)
		}
	})

	t.Run("empty_env_errors", func(t *testing.T) {
		t.Setenv(DocweaveConfigEnv, "")
		if _, err := loader.Load(); err == nil {
			t.Error("Load() expected an error for an empty DOCWEAVECONFIG")
		}
	})

	t.Run("missing_default_file_is_empty_config", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		got, err := loader.Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !reflect.DeepEqual(got, &Config{}) {
			t.Errorf("Load() = %+v, want empty config", got)
		}
	})
}
