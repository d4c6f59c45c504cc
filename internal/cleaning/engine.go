package cleaning

import (
	"context"
	"log/slog"
	"os"
	"sort"

	"github.com/meteoci/regress/internal/config"
	"github.com/meteoci/regress/internal/scheduler"
	"github.com/meteoci/regress/internal/store"
)

// Engine applies cleaning rules per discovered per-case output
// configuration file and finishes with best-effort scheduler suite
// removal.
type Engine struct {
	// RulesPath is the cleaning-rule document (a TOML file with a
	// [cleaning] table).
	RulesPath string

	// BindServer constructs a scheduler server from the last successfully
	// loaded case configuration. Nil uses scheduler.NewFromConfig.
	BindServer func(*config.Document) (scheduler.Server, error)

	// Ledger records applied rules when non-nil.
	Ledger *store.Store
}

// Remove cleans the output of every discovered case configuration file.
//
// Returns false only for empty input. Once any file has been considered,
// the result is true even if every file was skipped: the cleaning pass
// itself completed. A missing file or a failed rule is a logged warning,
// and the terminal scheduler step degrades to a warning when the backend
// is unavailable or no configuration was ever bound. Local cleanup is
// never rolled back.
func (e *Engine) Remove(ctx context.Context, files []string, dryRun bool) (bool, error) {
	if len(files) == 0 {
		slog.Info("no files, no cleaning")
		return false, nil
	}

	rulesDoc, err := config.Load(e.RulesPath)
	if err != nil {
		return false, err
	}
	section, ok := rulesDoc.Section("cleaning")
	if !ok {
		return false, config.NewMissingKeyError("cleaning")
	}
	defaults, _ := section["defaults"].(map[string]any)
	rules := ruleNames(section)

	var suites []string
	var bound *config.Document

	for _, filename := range files {
		if _, err := os.Stat(filename); err != nil {
			slog.Warn("cannot find file", "file", filename)
			continue
		}
		doc, err := config.Load(filename)
		if err != nil {
			slog.Warn("cannot load file", "file", filename, "error", err)
			continue
		}
		doc = doc.Merge(doc.DeriveTimesSection())
		doc = doc.Merge(rulesDoc.Raw())
		resolved := doc.Expand()
		caseID := resolved["general.case"]
		bound = doc

		for _, rule := range rules {
			choices, ok := doc.Section("cleaning." + rule)
			if !ok {
				slog.Warn("rule has no choices", "rule", rule, "file", filename)
				continue
			}
			if dryRun {
				choices = forceDryRun(choices)
			}
			cleaner := NewCleaner(doc, defaults)
			cleaner.Prep(choices)
			if dryRun {
				slog.Info("would have cleaned", "case", caseID, "rule", rule)
				for _, task := range cleaner.Tasks() {
					t, _ := cleaner.Task(task)
					slog.Info("cleaning task", "task", task, "path", t.Path, "dry_run", t.DryRun)
				}
			} else {
				cleaner.Clean()
			}
			suites = append(suites, caseID)

			if e.Ledger != nil {
				if _, err := e.Ledger.RecordCleaning(ctx, caseID, rule, dryRun); err != nil {
					slog.Warn("failed to record cleaning", "case", caseID, "rule", rule, "error", err)
				}
			}
		}
	}

	if dryRun {
		slog.Info("would have removed suites", "suites", suites)
		return true, nil
	}

	e.removeSuites(ctx, bound, suites)
	return true, nil
}

// removeSuites asks the external scheduler to drop the processed suites.
// Best-effort: an unavailable backend or unbound configuration is a
// warning, and so is a failed removal call. Local cleanup already
// happened and stands.
func (e *Engine) removeSuites(ctx context.Context, bound *config.Document, suites []string) {
	bind := e.BindServer
	if bind == nil {
		bind = scheduler.NewFromConfig
	}
	server, err := bind(bound)
	if err != nil {
		if scheduler.IsUnavailable(err) {
			slog.Warn("scheduler or configuration not found, suites not removed", "error", err)
			return
		}
		slog.Warn("could not bind scheduler, suites not removed", "error", err)
		return
	}
	if err := server.RemoveSuites(ctx, suites, true); err != nil {
		slog.Warn("suite removal failed", "error", err)
	}
}

// ruleNames returns the rule keys of the cleaning section minus the
// reserved defaults entry. TOML decoding loses authoring order, so rules
// apply in sorted name order.
func ruleNames(section map[string]any) []string {
	names := make([]string, 0, len(section))
	for name := range section {
		if name == "defaults" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// forceDryRun returns a copy of the choice set with every choice's
// dry_run flag forced true. The override is hard: configured values are
// ignored, not consulted.
func forceDryRun(choices map[string]any) map[string]any {
	out := make(map[string]any, len(choices))
	for name, v := range choices {
		settings, ok := v.(map[string]any)
		if !ok {
			out[name] = v
			continue
		}
		copied := make(map[string]any, len(settings)+1)
		for k, sv := range settings {
			copied[k] = sv
		}
		copied["dry_run"] = true
		out[name] = copied
	}
	return out
}
