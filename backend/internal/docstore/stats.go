package docstore

import (
	"context"
	"fmt"

	"hetio-cli/backend/internal/hetnet"
)

// Count is a labelled tally
type Count struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CompoundReach ranks a compound by the genes it regulates
type CompoundReach struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Genes    int64  `json:"genes"`
	Diseases int64  `json:"diseases"`
}

// DrugBucket is the number of diseases having exactly Drugs known drugs
type DrugBucket struct {
	Drugs    int64 `json:"drugs"`
	Diseases int64 `json:"diseases"`
}

// Stats summarizes the catalog
type Stats struct {
	Nodes              int64           `json:"nodes"`
	Edges              int64           `json:"edges"`
	NodesByKind        []Count         `json:"nodes_by_kind"`
	EdgesByMetaedge    []Count         `json:"edges_by_metaedge"`
	TopCompoundsByGene []CompoundReach `json:"top_compounds_by_gene"`
	DiseasesByDrugs    []DrugBucket    `json:"diseases_by_drug_count"`
}

// Stats aggregates counts over the stored documents. limit bounds the two
// ranked lists.
func (s *Store) Stats(ctx context.Context, limit int) (*Stats, error) {
	if limit <= 0 {
		limit = 5
	}

	st := &Stats{}
	var err error
	if st.Nodes, st.Edges, err = s.Counts(ctx); err != nil {
		return nil, err
	}
	if st.NodesByKind, err = s.tally(ctx, `SELECT kind, COUNT(*) FROM nodes GROUP BY kind ORDER BY kind`); err != nil {
		return nil, fmt.Errorf("nodes by kind: %w", err)
	}
	if st.EdgesByMetaedge, err = s.tally(ctx, `SELECT metaedge, COUNT(*) FROM edges GROUP BY metaedge ORDER BY metaedge`); err != nil {
		return nil, fmt.Errorf("edges by metaedge: %w", err)
	}
	if st.TopCompoundsByGene, err = s.topCompounds(ctx, limit); err != nil {
		return nil, fmt.Errorf("top compounds: %w", err)
	}
	if st.DiseasesByDrugs, err = s.drugBuckets(ctx, limit); err != nil {
		return nil, fmt.Errorf("diseases by drugs: %w", err)
	}
	return st, nil
}

func (s *Store) tally(ctx context.Context, query string) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Label, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) topCompounds(ctx context.Context, limit int) ([]CompoundReach, error) {
	query := `
		SELECT g.source, COALESCE(n.name, g.source), g.genes, COALESCE(d.diseases, 0)
		FROM (
			SELECT source, COUNT(DISTINCT target) AS genes
			FROM edges WHERE metaedge IN (?, ?) GROUP BY source
		) g
		LEFT JOIN (
			SELECT source, COUNT(DISTINCT target) AS diseases
			FROM edges WHERE metaedge IN (?, ?) GROUP BY source
		) d ON d.source = g.source
		LEFT JOIN nodes n ON n.id = g.source
		ORDER BY g.genes DESC, g.source
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, s.rebind(query),
		hetnet.CompoundDownregulatesGene, hetnet.CompoundUpregulatesGene,
		hetnet.CompoundTreatsDisease, hetnet.CompoundPalliatesDisease,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CompoundReach
	for rows.Next() {
		var c CompoundReach
		if err := rows.Scan(&c.ID, &c.Name, &c.Genes, &c.Diseases); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) drugBuckets(ctx context.Context, limit int) ([]DrugBucket, error) {
	query := `
		SELECT t.drugs, COUNT(*) AS diseases
		FROM (
			SELECT target, COUNT(DISTINCT source) AS drugs
			FROM edges WHERE metaedge IN (?, ?) GROUP BY target
		) t
		GROUP BY t.drugs
		ORDER BY diseases DESC, t.drugs
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, s.rebind(query),
		hetnet.CompoundTreatsDisease, hetnet.CompoundPalliatesDisease, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DrugBucket
	for rows.Next() {
		var b DrugBucket
		if err := rows.Scan(&b.Drugs, &b.Diseases); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
