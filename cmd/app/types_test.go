// SPDX-FileCopyrightText: 2025 Bible Translation Tools and docweave contributors
//
// SPDX-License-Identifier: Apache-2.0

package app

import (
	"reflect"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"k8s.io/utils/pointer"

	"github.com/bibletranslationtools/docweave/cmd/configuration"
	"github.com/bibletranslationtools/docweave/pkg/assemble"
	"github.com/bibletranslationtools/docweave/pkg/resource"
)

func Test_parseRequests(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    []resource.Request
		wantErr bool
	}{
		{
			name: "lang_type_book",
			args: []string{"en/ulb-wa/tit"},
			want: []resource.Request{{LangCode: "en", ResourceType: "ulb-wa", BookCode: "tit"}},
		},
		{
			name: "lang_type_only",
			args: []string{"en/tw-wa"},
			want: []resource.Request{{LangCode: "en", ResourceType: "tw-wa"}},
		},
		{
			name: "several_requests_keep_order",
			args: []string{"fr/f10/tit", "en/ulb-wa/tit"},
			want: []resource.Request{
				{LangCode: "fr", ResourceType: "f10", BookCode: "tit"},
				{LangCode: "en", ResourceType: "ulb-wa", BookCode: "tit"},
			},
		},
		{
			name:    "single_segment_rejected",
			args:    []string{"en"},
			wantErr: true,
		},
		{
			name:    "four_segments_rejected",
			args:    []string{"en/ulb/tit/extra"},
			wantErr: true,
		},
		{
			name:    "empty_segment_rejected",
			args:    []string{"en//tit"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequests(tt.args)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseRequests() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseRequests() = %v, want %v", got, tt.want)
			}
		})
	}
}

func testFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("working-dir", "/working/tn-temp", "")
	flags.String("catalog-url", "https://api.example.org/v3/catalog.json", "")
	flags.Int("fetch-workers", 8, "")
	flags.String("assembly-strategy", "language-book-order", "")
	flags.StringSlice("output", nil, "")
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return flags
}

func Test_applyConfig(t *testing.T) {
	cfg := &configuration.Config{
		WorkingDir:   pointer.String("/from/config"),
		FetchWorkers: pointer.Int(2),
		Assembly: &configuration.Assembly{
			Strategy: pointer.String("book-language-order"),
			Outputs:  []string{"pdf"},
		},
	}

	t.Run("config_fills_unset_settings", func(t *testing.T) {
		o := &options{WorkingDir: "/working/tn-temp", FetchWorkers: 8, Strategy: "language-book-order"}
		o.applyConfig(testFlags(t), cfg)
		assert.Equal(t, "/from/config", o.WorkingDir)
		assert.Equal(t, 2, o.FetchWorkers)
		assert.Equal(t, "book-language-order", o.Strategy)
		assert.Equal(t, []string{"pdf"}, o.Outputs)
	})

	t.Run("changed_flag_wins", func(t *testing.T) {
		o := &options{WorkingDir: "/explicit", FetchWorkers: 8}
		o.applyConfig(testFlags(t, "--working-dir=/explicit"), cfg)
		assert.Equal(t, "/explicit", o.WorkingDir)
		assert.Equal(t, 2, o.FetchWorkers, "untouched settings still merge")
	})

	t.Run("environment_wins", func(t *testing.T) {
		t.Setenv("DOCWEAVE_WORKING_DIR", "/from/env")
		o := &options{WorkingDir: "/from/env"}
		o.applyConfig(testFlags(t), cfg)
		assert.Equal(t, "/from/env", o.WorkingDir)
	})

	t.Run("nil_config_is_a_no_op", func(t *testing.T) {
		o := &options{WorkingDir: "/working/tn-temp"}
		o.applyConfig(testFlags(t), nil)
		assert.Equal(t, "/working/tn-temp", o.WorkingDir)
	})
}

func Test_assembleConfig(t *testing.T) {
	o := &options{
		Strategy:       "book-language-order",
		Layout:         "two-column-sl-sr",
		ChunkSize:      "verse",
		LayoutForPrint: true,
		Outputs:        []string{"pdf"},
	}
	cfg, err := o.assembleConfig()
	assert.NoError(t, err)
	assert.Equal(t, assemble.BookLanguageOrder, cfg.Strategy)
	assert.Equal(t, assemble.TwoColumnSideBySide, cfg.Layout)
	assert.Equal(t, assemble.Verse, cfg.ChunkSize)
	assert.True(t, cfg.LayoutForPrint)
	assert.Equal(t, []string{"pdf"}, cfg.Outputs)

	_, err = (&options{Strategy: "shuffled"}).assembleConfig()
	assert.Error(t, err)
}

func Test_envName(t *testing.T) {
	assert.Equal(t, "DOCWEAVE_WORKING_DIR", envName("working-dir"))
	assert.Equal(t, "DOCWEAVE_LISTEN", envName("listen"))
}
