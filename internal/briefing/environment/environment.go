package environment

import (
	"os"

	"go-stock-briefing/internal/briefing/config"
)

// Descriptor captures where a run executes and which capabilities are
// available there. It is resolved once at startup and stamped into every
// report, so the same binary behaves predictably across machines.
type Descriptor struct {
	Name          string
	ReportDir     string
	StdoutOnly    bool
	History       bool
	SharedCache   bool
	Notifications bool
}

// Detect resolves the environment descriptor from configuration. A missing
// app env falls back to "local"; stdout-only mode is forced when the report
// directory cannot be created.
func Detect(cfg *config.Config) Descriptor {
	desc := Descriptor{
		Name:          cfg.App.Env,
		ReportDir:     cfg.Output.ReportDir,
		StdoutOnly:    cfg.Output.StdoutOnly,
		History:       cfg.Database.Enabled,
		SharedCache:   cfg.Redis.Enabled,
		Notifications: cfg.Telegram.Enabled,
	}
	if desc.Name == "" {
		desc.Name = "local"
	}
	if !desc.StdoutOnly {
		if err := os.MkdirAll(desc.ReportDir, 0o755); err != nil {
			desc.StdoutOnly = true
		}
	}
	return desc
}
