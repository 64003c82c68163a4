// Package migrations embeds the SQL schema files.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.sql
var files embed.FS

// Migration is one numbered schema step.
type Migration struct {
	Name string
	Up   string
	Down string
}

// All returns the migrations in apply order.
func All() ([]Migration, error) {
	entries, err := fs.Glob(files, "*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	out := make([]Migration, 0, len(entries))
	for _, upName := range entries {
		name := strings.TrimSuffix(upName, ".up.sql")

		up, err := files.ReadFile(upName)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", upName, err)
		}
		down, err := files.ReadFile(name + ".down.sql")
		if err != nil {
			return nil, fmt.Errorf("read %s down: %w", name, err)
		}

		out = append(out, Migration{Name: name, Up: string(up), Down: string(down)})
	}
	return out, nil
}

// Find returns the migration with the given name, such as "000002_meetings".
func Find(name string) (Migration, error) {
	all, err := All()
	if err != nil {
		return Migration{}, err
	}
	for _, m := range all {
		if m.Name == name {
			return m, nil
		}
	}
	return Migration{}, fmt.Errorf("migration %q not found", name)
}
