// Package hetnet holds the knowledge graph record types and the closed
// vocabularies of entity kinds and metaedges.
package hetnet

import (
	"fmt"
	"strings"
)

// IDSeparator divides an entity id into its kind and the namespaced local id
const IDSeparator = "::"

// Record is a row ingested into both stores
type Record interface {
	// Key is the natural uniqueness key of the record
	Key() string
	// Validate checks presence of key fields and vocabulary membership
	Validate() error
}

// Node is an entity of the knowledge graph
type Node struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Kind  Kind              `json:"kind"`
	Extra map[string]string `json:"extra,omitempty"` // additional source columns
}

// Key returns the entity id
func (n Node) Key() string {
	return n.ID
}

// Validate checks that the id carries the node's kind as prefix
func (n Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("missing id")
	}
	if n.Kind == "" {
		return fmt.Errorf("missing kind for %s", n.ID)
	}
	if !n.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", n.Kind)
	}
	kind, _, err := SplitID(n.ID)
	if err != nil {
		return err
	}
	if kind != n.Kind {
		return fmt.Errorf("id prefix %q does not match kind %q", kind, n.Kind)
	}
	return nil
}

// Edge is a directed, typed relationship between two entities
type Edge struct {
	Source   string            `json:"source"`
	Target   string            `json:"target"`
	Metaedge string            `json:"metaedge"`
	Extra    map[string]string `json:"extra,omitempty"`
}

// Key returns the (source, target, metaedge) triple joined by tabs
func (e Edge) Key() string {
	return e.Source + "\t" + e.Target + "\t" + e.Metaedge
}

// Validate checks presence of the triple and that the metaedge is known
func (e Edge) Validate() error {
	if e.Source == "" || e.Target == "" || e.Metaedge == "" {
		return fmt.Errorf("incomplete edge (source=%q target=%q metaedge=%q)", e.Source, e.Target, e.Metaedge)
	}
	if _, ok := LookupMetaedge(e.Metaedge); !ok {
		return fmt.Errorf("unknown metaedge %q", e.Metaedge)
	}
	return nil
}

// SplitID splits "Disease::DOID:263" into (Disease, "DOID:263")
func SplitID(id string) (Kind, string, error) {
	kind, local, ok := strings.Cut(id, IDSeparator)
	if !ok || kind == "" || local == "" {
		return "", "", fmt.Errorf("identifier %q is not of the form Kind::Namespace:LocalId", id)
	}
	return Kind(kind), local, nil
}

// HasKind reports whether id is well-formed and prefixed by kind
func HasKind(id string, kind Kind) bool {
	k, _, err := SplitID(id)
	return err == nil && k == kind
}
