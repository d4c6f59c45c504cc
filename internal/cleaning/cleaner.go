package cleaning

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/meteoci/regress/internal/config"
)

// Task is one primed cleanup unit: a path pattern to remove and whether
// the removal is simulated.
type Task struct {
	Path   string
	DryRun bool
}

// Cleaner removes generated artifacts for one case configuration.
// Choice settings missing from a rule fall back to the defaults entry;
// path patterns are macro-expanded against the merged configuration.
type Cleaner struct {
	doc      *config.Document
	defaults map[string]any
	tasks    map[string]Task
	order    []string
}

// NewCleaner creates a cleaner bound to the merged configuration and the
// reserved defaults entry.
func NewCleaner(doc *config.Document, defaults map[string]any) *Cleaner {
	return &Cleaner{doc: doc, defaults: defaults, tasks: map[string]Task{}}
}

// Prep primes the cleaner with a rule's choice set. Each choice becomes a
// task named after the choice key. Safe to call repeatedly; later choices
// with the same name replace earlier ones without duplicating order.
func (c *Cleaner) Prep(choices map[string]any) {
	names := make([]string, 0, len(choices))
	for name := range choices {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		settings, ok := choices[name].(map[string]any)
		if !ok {
			slog.Warn("cleaning choice is not a table, skipped", "choice", name)
			continue
		}
		task := Task{
			Path:   c.doc.ExpandValue(c.setting(settings, "path")),
			DryRun: c.boolSetting(settings, "dry_run"),
		}
		if task.Path == "" {
			slog.Warn("cleaning choice has no path, skipped", "choice", name)
			continue
		}
		if _, exists := c.tasks[name]; !exists {
			c.order = append(c.order, name)
		}
		c.tasks[name] = task
	}
}

// Tasks returns the primed tasks in priming order.
func (c *Cleaner) Tasks() []string {
	return append([]string(nil), c.order...)
}

// Task returns a primed task by name.
func (c *Cleaner) Task(name string) (Task, bool) {
	t, ok := c.tasks[name]
	return t, ok
}

// Clean removes every primed task's matches from disk. Dry-run tasks only
// log. Removal errors are logged per match and do not stop the rest.
func (c *Cleaner) Clean() {
	for _, name := range c.order {
		task := c.tasks[name]
		matches, err := filepath.Glob(task.Path)
		if err != nil {
			slog.Warn("bad cleaning pattern", "task", name, "path", task.Path, "error", err)
			continue
		}
		for _, match := range matches {
			if task.DryRun {
				slog.Info("would remove", "task", name, "path", match)
				continue
			}
			if err := os.RemoveAll(match); err != nil {
				slog.Warn("failed to remove", "task", name, "path", match, "error", err)
				continue
			}
			slog.Info("removed", "task", name, "path", match)
		}
	}
}

// setting resolves a string setting with defaults fallback.
func (c *Cleaner) setting(settings map[string]any, key string) string {
	if v, ok := settings[key].(string); ok {
		return v
	}
	if c.defaults != nil {
		if v, ok := c.defaults[key].(string); ok {
			return v
		}
	}
	return ""
}

// boolSetting resolves a bool setting with defaults fallback.
func (c *Cleaner) boolSetting(settings map[string]any, key string) bool {
	if v, ok := settings[key].(bool); ok {
		return v
	}
	if c.defaults != nil {
		if v, ok := c.defaults[key].(bool); ok {
			return v
		}
	}
	return false
}
