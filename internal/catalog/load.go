package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/naoina/toml"

	"github.com/litescript/ls-skyplan/internal/astro"
)

// fileTarget is one [[target]] table. Coordinates are strings so both
// sexagesimal ("05:35:17.3") and decimal degrees ("83.82") are accepted.
type fileTarget struct {
	ID   string  `toml:"id"`
	Name string  `toml:"name"`
	RA   string  `toml:"ra"`
	Dec  string  `toml:"dec"`
	Type string  `toml:"type"`
	Mag  float64 `toml:"mag"`
}

type catalogFile struct {
	Target []fileTarget `toml:"target"`
}

// LoadResult reports what happened to each entry of a catalog file.
type LoadResult struct {
	Catalog  *Catalog
	Imported int
	Skipped  int
	Errors   []string
}

// Load reads a TOML target list. Entries with bad coordinates or duplicate
// IDs are skipped and reported; only a malformed document is an error.
func Load(r io.Reader) (LoadResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return LoadResult{}, fmt.Errorf("read catalog: %w", err)
	}

	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return LoadResult{}, fmt.Errorf("parse catalog: %w", err)
	}

	res := LoadResult{Catalog: &Catalog{byID: make(map[string]int, len(f.Target))}}
	for i, ft := range f.Target {
		t, err := ft.toTarget()
		if err == nil {
			err = res.Catalog.Add(t)
		}
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("target %d (%s): %v", i+1, ft.ID, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}

// LoadFile reads a TOML target list from disk.
func LoadFile(path string) (LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f)
}

func (ft fileTarget) toTarget() (Target, error) {
	ra, err := astro.ParseRA(ft.RA)
	if err != nil {
		return Target{}, err
	}
	dec, err := astro.ParseDec(ft.Dec)
	if err != nil {
		return Target{}, err
	}
	return Target{
		ID:   ft.ID,
		Name: ft.Name,
		RA:   ra,
		Dec:  dec,
		Type: ft.Type,
		Mag:  ft.Mag,
	}, nil
}
