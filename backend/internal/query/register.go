package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hetio-cli/backend/internal/hetnet"
	"hetio-cli/backend/internal/source"
	apperrors "hetio-cli/backend/pkg/errors"
)

// RegisterDisease adds a disease localized in an existing anatomy, found by
// its exact name. Both records go through the ingestor so the two stores
// stay in step. An already registered disease is returned unchanged.
func (s *Service) RegisterDisease(ctx context.Context, id, name, anatomyName string) (*hetnet.Node, error) {
	if s.registrar == nil {
		return nil, errors.New("disease registration is not available")
	}
	if !hetnet.HasKind(id, hetnet.KindDisease) {
		return nil, apperrors.NewInvalidIdentifierError(id, string(hetnet.KindDisease))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("disease name is required")
	}

	if existing, err := s.graph.Node(ctx, id); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	anatomy, err := s.graph.FindNode(ctx, hetnet.KindAnatomy, strings.TrimSpace(anatomyName))
	if err != nil {
		return nil, err
	}
	if anatomy == nil {
		return nil, apperrors.NewNotFoundWarning("anatomy", anatomyName)
	}

	disease := hetnet.Node{ID: id, Name: name, Kind: hetnet.KindDisease}
	localizes := hetnet.Edge{Source: id, Target: anatomy.ID, Metaedge: hetnet.DiseaseLocalizesAnatomy}

	sum, err := s.registrar.Ingest(ctx, source.Records(disease))
	if err != nil {
		return nil, err
	}
	if sum.Failed > 0 {
		return nil, fmt.Errorf("registering %s: disease record failed", id)
	}
	if sum.Inserted == 0 {
		// the primary store has it but the query store did not see it
		return nil, fmt.Errorf("disease %s already exists in the primary store but not in the query store; reload with --reset to bring the stores back in step", id)
	}

	sum, err = s.registrar.Ingest(ctx, source.Records(localizes))
	if err != nil {
		return nil, err
	}
	if sum.Failed > 0 {
		return nil, fmt.Errorf("registering %s: %s edge to %s failed", id, hetnet.DiseaseLocalizesAnatomy, anatomy.ID)
	}

	s.logger.Info("Disease registered",
		zap.String("disease_id", id),
		zap.String("anatomy_id", anatomy.ID),
	)
	return &disease, nil
}
