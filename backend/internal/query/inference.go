package query

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
)

// Candidate is a compound proposed as a new treatment
type Candidate struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// regulationPairs pairs the anatomy-gene regulation with the compound-gene
// regulation of opposite direction
var regulationPairs = [][2]string{
	{hetnet.AnatomyUpregulatesGene, hetnet.CompoundDownregulatesGene},
	{hetnet.AnatomyDownregulatesGene, hetnet.CompoundUpregulatesGene},
}

// InferTreatments finds compounds that regulate a gene in the direction
// opposite to an anatomy the disease localizes in, excluding compounds
// already known to treat or palliate the disease. An empty result is not
// an error.
func (s *Service) InferTreatments(ctx context.Context, id string) ([]Candidate, error) {
	disease, err := s.disease(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := []string{disease.ID}

	anatomies, err := s.hop(ctx, ids, hetnet.DiseaseLocalizesAnatomy, hetnet.Outgoing)
	if err != nil {
		return nil, fmt.Errorf("inference anatomies: %w", err)
	}

	candidates := map[string]hetnet.Node{}
	if len(anatomies) > 0 {
		for _, pair := range regulationPairs {
			genes, err := s.hop(ctx, keys(anatomies), pair[0], hetnet.Outgoing)
			if err != nil {
				return nil, fmt.Errorf("inference via %s: %w", pair[0], err)
			}
			if len(genes) == 0 {
				continue
			}
			compounds, err := s.hop(ctx, keys(genes), pair[1], hetnet.Incoming)
			if err != nil {
				return nil, fmt.Errorf("inference via %s: %w", pair[1], err)
			}
			for cid, n := range compounds {
				candidates[cid] = n
			}
		}
	}

	if len(candidates) > 0 {
		for _, known := range []string{hetnet.CompoundTreatsDisease, hetnet.CompoundPalliatesDisease} {
			existing, err := s.hop(ctx, ids, known, hetnet.Incoming)
			if err != nil {
				return nil, fmt.Errorf("inference exclusions: %w", err)
			}
			for cid := range existing {
				delete(candidates, cid)
			}
		}
	}

	out := make([]Candidate, 0, len(candidates))
	for _, n := range candidates {
		out = append(out, Candidate{ID: n.ID, Name: n.Name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})

	s.logger.Debug("Treatment inference",
		zap.String("disease_id", disease.ID),
		zap.Int("anatomies", len(anatomies)),
		zap.Int("candidates", len(out)),
	)
	return out, nil
}
