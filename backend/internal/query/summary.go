package query

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
)

// DiseaseSummary lists what is directly connected to a disease
type DiseaseSummary struct {
	DiseaseID   string   `json:"disease_id"`
	DiseaseName string   `json:"disease_name"`
	Drugs       []string `json:"drugs"`
	Genes       []string `json:"genes"`
	Anatomies   []string `json:"anatomies"`
}

// DiseaseSummary gathers the compounds that treat or palliate the disease,
// the genes it associates and the anatomies it localizes in. A disease
// that does not exist yields a *errors.NotFoundWarning.
func (s *Service) DiseaseSummary(ctx context.Context, id string) (*DiseaseSummary, error) {
	disease, err := s.disease(ctx, id)
	if err != nil {
		return nil, err
	}
	ids := []string{disease.ID}

	drugs, err := s.hop(ctx, ids, hetnet.CompoundTreatsDisease, hetnet.Incoming)
	if err != nil {
		return nil, fmt.Errorf("summary drugs: %w", err)
	}
	palliative, err := s.hop(ctx, ids, hetnet.CompoundPalliatesDisease, hetnet.Incoming)
	if err != nil {
		return nil, fmt.Errorf("summary drugs: %w", err)
	}
	for id, n := range palliative {
		drugs[id] = n
	}

	genes, err := s.hop(ctx, ids, hetnet.DiseaseAssociatesGene, hetnet.Outgoing)
	if err != nil {
		return nil, fmt.Errorf("summary genes: %w", err)
	}
	anatomies, err := s.hop(ctx, ids, hetnet.DiseaseLocalizesAnatomy, hetnet.Outgoing)
	if err != nil {
		return nil, fmt.Errorf("summary anatomies: %w", err)
	}

	s.logger.Debug("Disease summary",
		zap.String("disease_id", disease.ID),
		zap.Int("drugs", len(drugs)),
		zap.Int("genes", len(genes)),
		zap.Int("anatomies", len(anatomies)),
	)

	return &DiseaseSummary{
		DiseaseID:   disease.ID,
		DiseaseName: disease.Name,
		Drugs:       sortedNames(drugs),
		Genes:       sortedNames(genes),
		Anatomies:   sortedNames(anatomies),
	}, nil
}
