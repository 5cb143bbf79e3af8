package graph

import (
	"fmt"
	"strings"

	"hetio-cli/backend/internal/hetnet"
)

// Labels and relationship types cannot be query parameters in Cypher, so
// they are spliced into the query text. Only vocabulary entries get there.

func quoteLabel(kind hetnet.Kind) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("kind %q is not in the vocabulary", kind)
	}
	return "`" + string(kind) + "`", nil
}

func quoteRelType(m hetnet.MetaedgeInfo) (string, error) {
	known, ok := hetnet.LookupMetaedge(m.Abbrev)
	if !ok || known != m {
		return "", fmt.Errorf("metaedge %q is not in the vocabulary", m.Abbrev)
	}
	return "`" + known.MirrorType() + "`", nil
}

func nodeUpsertQuery(kind hetnet.Kind) (string, error) {
	label, err := quoteLabel(kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		MERGE (n:%s {id: $id})
		SET n.name = $name
	`, label), nil
}

func edgeUpsertQuery(m hetnet.MetaedgeInfo) (string, error) {
	relType, err := quoteRelType(m)
	if err != nil {
		return "", err
	}
	source, _ := quoteLabel(m.Source)
	target, _ := quoteLabel(m.Target)
	return fmt.Sprintf(`
		MATCH (a:%s {id: $source})
		MATCH (b:%s {id: $target})
		MERGE (a)-[r:%s]->(b)
		SET r.metaedge = $metaedge
		RETURN count(r) AS merged
	`, source, target, relType), nil
}

func nodeQuery(kind hetnet.Kind) (string, error) {
	label, err := quoteLabel(kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		MATCH (n:%s {id: $id})
		RETURN n.id AS id, n.name AS name
		LIMIT 1
	`, label), nil
}

func findNodeQuery(kind hetnet.Kind) (string, error) {
	label, err := quoteLabel(kind)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`
		MATCH (n:%s {name: $name})
		RETURN n.id AS id, n.name AS name
		ORDER BY id
		LIMIT 1
	`, label), nil
}

// neighborsQuery follows m from the vertices in $ids. Outgoing starts at
// the metaedge's source kind, incoming at its target kind.
func neighborsQuery(m hetnet.MetaedgeInfo, dir hetnet.Direction) (string, error) {
	relType, err := quoteRelType(m)
	if err != nil {
		return "", err
	}
	source, _ := quoteLabel(m.Source)
	target, _ := quoteLabel(m.Target)

	pattern := fmt.Sprintf("(s:%s {id: id})-[:%s]->(t:%s)", source, relType, target)
	if dir == hetnet.Incoming {
		pattern = fmt.Sprintf("(s:%s {id: id})<-[:%s]-(t:%s)", target, relType, source)
	}
	return strings.Join([]string{
		"UNWIND $ids AS id",
		"MATCH " + pattern,
		"RETURN s.id AS from, t.id AS id, t.name AS name",
		"ORDER BY from, id",
	}, "\n"), nil
}

func constraintStatements() []string {
	var out []string
	for _, kind := range hetnet.Kinds() {
		label, _ := quoteLabel(kind)
		slug := strings.ToLower(strings.ReplaceAll(string(kind), " ", "_"))
		out = append(out,
			fmt.Sprintf("CREATE CONSTRAINT hetio_%s_id IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", slug, label),
			fmt.Sprintf("CREATE INDEX hetio_%s_name IF NOT EXISTS FOR (n:%s) ON (n.name)", slug, label),
		)
	}
	return out
}
