package generator

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
	"github.com/mr-tron/base58"

	"github.com/teranos/patternkit/errors"
	"github.com/teranos/patternkit/model"
)

var separator = []byte{0}

func sum(h *xxhash.Digest) string {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], h.Sum64())
	return base58.Encode(b[:])
}

// DeclarationFingerprint hashes the canonical JSON of one declaration
func DeclarationFingerprint(d *model.Declaration) (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", errors.Wrapf(err, "encode %s", d.QualifiedName())
	}
	h := xxhash.New()
	_, _ = h.Write(b)
	return sum(h), nil
}

// shape is the part of a declaration that name resolution and hierarchy
// listings read. Members, markers and locations are left out.
type shape struct {
	Name           string                 `json:"name"`
	Namespace      string                 `json:"namespace"`
	Containing     []model.ContainingType `json:"containing"`
	Kind           model.Kind             `json:"kind"`
	Modifiers      model.Modifiers        `json:"modifiers"`
	Accessibility  model.Accessibility    `json:"accessibility"`
	TypeParameters []string               `json:"type_parameters"`
	BaseType       model.TypeRef          `json:"base"`
	Interfaces     []model.TypeRef        `json:"interfaces"`
}

// ShapeFingerprint hashes the shapes of every declaration of a unit in
// order. Two units with the same shape fingerprint resolve names and list
// hierarchies identically.
func ShapeFingerprint(unit *model.Unit) (string, error) {
	h := xxhash.New()
	for _, d := range unit.Declarations {
		b, err := json.Marshal(shape{
			Name:           d.Name,
			Namespace:      d.Namespace,
			Containing:     d.Containing,
			Kind:           d.Kind,
			Modifiers:      d.Modifiers,
			Accessibility:  d.Accessibility,
			TypeParameters: d.TypeParameters,
			BaseType:       d.BaseType,
			Interfaces:     d.Interfaces,
		})
		if err != nil {
			return "", errors.Wrapf(err, "encode shape of %s", d.QualifiedName())
		}
		_, _ = h.Write(b)
		_, _ = h.Write(separator)
	}
	return sum(h), nil
}

// candidateFingerprint combines the salt, the candidate key, the unit shape
// and the content fingerprints of deps. ok is false when a dependency is
// no longer part of the unit.
func candidateFingerprint(salt, key, unitShape string, deps []string, prints map[string]string) (string, bool) {
	h := xxhash.New()
	for _, s := range []string{salt, key, unitShape} {
		_, _ = h.WriteString(s)
		_, _ = h.Write(separator)
	}
	for _, dep := range deps {
		p, ok := prints[dep]
		if !ok {
			return "", false
		}
		_, _ = h.WriteString(dep)
		_, _ = h.Write(separator)
		_, _ = h.WriteString(p)
		_, _ = h.Write(separator)
	}
	return sum(h), true
}
