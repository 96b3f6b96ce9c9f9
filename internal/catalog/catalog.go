package catalog

import (
	"fmt"
)

// Catalog is an ordered set of targets with unique IDs.
type Catalog struct {
	targets []Target
	byID    map[string]int
}

// New builds a catalog, rejecting invalid targets and duplicate IDs.
func New(targets ...Target) (*Catalog, error) {
	c := &Catalog{
		targets: make([]Target, 0, len(targets)),
		byID:    make(map[string]int, len(targets)),
	}
	for _, t := range targets {
		if err := c.Add(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Add appends a target.
func (c *Catalog) Add(t Target) error {
	if err := t.Validate(); err != nil {
		return err
	}
	key := normalizeID(t.ID)
	if _, ok := c.byID[key]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTarget, t.ID)
	}
	c.byID[key] = len(c.targets)
	c.targets = append(c.targets, t)
	return nil
}

// Remove deletes a target by ID, keeping the order of the rest.
func (c *Catalog) Remove(id string) error {
	idx, ok := c.byID[normalizeID(id)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	c.targets = append(c.targets[:idx], c.targets[idx+1:]...)
	c.reindex()
	return nil
}

// Get looks up a target by ID (case and whitespace insensitive).
func (c *Catalog) Get(id string) (Target, error) {
	idx, ok := c.byID[normalizeID(id)]
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownTarget, id)
	}
	return c.targets[idx], nil
}

// Lookup resolves a list of IDs in order.
func (c *Catalog) Lookup(ids ...string) ([]Target, error) {
	out := make([]Target, 0, len(ids))
	for _, id := range ids {
		t, err := c.Get(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// All returns a copy of the targets in insertion order.
func (c *Catalog) All() []Target {
	out := make([]Target, len(c.targets))
	copy(out, c.targets)
	return out
}

// Len returns the number of targets.
func (c *Catalog) Len() int {
	return len(c.targets)
}

// Merge adds every target from o that is not already present and returns
// how many were added.
func (c *Catalog) Merge(o *Catalog) int {
	added := 0
	for _, t := range o.targets {
		if _, ok := c.byID[normalizeID(t.ID)]; ok {
			continue
		}
		if c.Add(t) == nil {
			added++
		}
	}
	return added
}

func (c *Catalog) reindex() {
	c.byID = make(map[string]int, len(c.targets))
	for i, t := range c.targets {
		c.byID[normalizeID(t.ID)] = i
	}
}
