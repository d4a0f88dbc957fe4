package cli

import (
	"testing"

	"github.com/ardnew/hbind/log"
)

func TestLogScan(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{"none", []string{"render", "x.hbs"}, "", "", true, false},
		{"level_next", []string{"--log-level", "debug"}, "debug", "", true, false},
		{"level_assigned", []string{"--log-level=warn"}, "warn", "", true, false},
		{"format", []string{"render", "--log-format", "json"}, "", "json", true, false},
		{"no_pretty", []string{"--no-log-pretty"}, "", "", false, false},
		{"pretty_false", []string{"--log-pretty=false"}, "", "", false, false},
		{"no_pretty_false", []string{"--no-log-pretty=false"}, "", "", true, false},
		{"caller", []string{"--log-caller", "render"}, "", "", true, true},
		{"caller_invalid", []string{"--log-caller=maybe"}, "", "", true, false},
		{
			"level_flag_follows",
			[]string{"--log-level", "--log-caller"},
			"", "", true, true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level {
				t.Errorf("expected level %q, got %q", tt.level, f.Level)
			}

			if f.Format != tt.format {
				t.Errorf("expected format %q, got %q", tt.format, f.Format)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("expected pretty %v, got %v", tt.pretty, f.Pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("expected caller %v, got %v", tt.caller, f.Caller)
			}
		})
	}
}

func TestLogVars(t *testing.T) {
	var f logConfig

	vars := f.vars()

	if vars["logLevelEnum"] != "trace,debug,info,warn,error" {
		t.Errorf("unexpected level enum %q", vars["logLevelEnum"])
	}

	if vars["logFormatEnum"] != "json,text" {
		t.Errorf("unexpected format enum %q", vars["logFormatEnum"])
	}
}
