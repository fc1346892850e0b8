package diag

import (
	"sort"
	"strings"

	"github.com/teranos/patternkit/errors"
)

// Catalog indexes descriptors by ID for `pkgen explain` and for tooling that
// wants to list every rule a build can report.
type Catalog struct {
	byID map[string]Descriptor
}

// NewCatalog builds a catalog. Registering the same ID twice with a
// different definition is a programming error and returns an error.
func NewCatalog(groups ...[]Descriptor) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Descriptor)}
	for _, g := range groups {
		for _, d := range g {
			if err := c.add(d); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Catalog) add(d Descriptor) error {
	if d.ID == "" {
		return errors.New("descriptor without ID")
	}
	if prev, ok := c.byID[d.ID]; ok && prev != d {
		return errors.Newf("descriptor %s registered twice with different definitions", d.ID)
	}
	c.byID[d.ID] = d
	return nil
}

// Lookup finds a descriptor by ID, case-insensitively
func (c *Catalog) Lookup(id string) (Descriptor, bool) {
	d, ok := c.byID[strings.ToUpper(strings.TrimSpace(id))]
	return d, ok
}

// All returns every descriptor sorted by ID
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, 0, len(c.byID))
	for _, d := range c.byID {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Prefix returns the alphabetic family prefix of an ID ("PKST004" -> "PKST")
func Prefix(id string) string {
	i := len(id)
	for i > 0 && id[i-1] >= '0' && id[i-1] <= '9' {
		i--
	}
	return id[:i]
}
