package localisation

import (
	"context"
	"time"

	"github.com/localisation/backend/internal/domain/localisation"
	"github.com/localisation/backend/internal/domain/shared"
	"github.com/localisation/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// ReferenceService exposes reservists, brigades and campaigns
type ReferenceService struct {
	catalog localisation.ReferenceCatalog
}

// NewReferenceService creates a new ReferenceService
func NewReferenceService(catalog localisation.ReferenceCatalog) *ReferenceService {
	return &ReferenceService{catalog: catalog}
}

func (s *ReferenceService) ListReservistes(ctx context.Context) ([]ReservisteResponse, error) {
	rows, err := s.catalog.ListReservistes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ReservisteResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToReservisteResponse(r))
	}
	return out, nil
}

func (s *ReferenceService) GetReserviste(ctx context.Context, cin string) (*ReservisteResponse, error) {
	r, err := s.catalog.FindReserviste(ctx, cin)
	if err != nil {
		return nil, err
	}
	resp := ToReservisteResponse(*r)
	return &resp, nil
}

func (s *ReferenceService) ListBrigades(ctx context.Context) ([]BrigadeResponse, error) {
	rows, err := s.catalog.ListBrigades(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BrigadeResponse, 0, len(rows))
	for _, b := range rows {
		out = append(out, ToBrigadeResponse(b))
	}
	return out, nil
}

func (s *ReferenceService) GetBrigade(ctx context.Context, id int) (*BrigadeResponse, error) {
	b, err := s.catalog.FindBrigade(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBrigadeResponse(*b)
	return &resp, nil
}

func (s *ReferenceService) ListCampagnes(ctx context.Context) (ListResult[CampagneResponse], error) {
	rows, err := s.catalog.ListCampagnes(ctx)
	if err != nil {
		return ListResult[CampagneResponse]{}, err
	}
	out := make([]CampagneResponse, 0, len(rows))
	for _, c := range rows {
		out = append(out, ToCampagneResponse(c))
	}
	return newListResult(out), nil
}

func (s *ReferenceService) GetCampagne(ctx context.Context, id int) (*CampagneResponse, error) {
	c, err := s.catalog.FindCampagne(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCampagneResponse(*c)
	return &resp, nil
}

// CreateCampagne validates and stores a new campaign
func (s *ReferenceService) CreateCampagne(ctx context.Context, req CreateCampagneRequest) (*CampagneResponse, error) {
	debut, err := parseOptionalDate("dateDebut", req.DateDebut)
	if err != nil {
		return nil, err
	}
	fin, err := parseOptionalDate("dateFin", req.DateFin)
	if err != nil {
		return nil, err
	}
	camp, err := localisation.NewCampagne(req.Nom, debut, fin, localisation.CampagneStatut(req.Statut))
	if err != nil {
		return nil, err
	}
	if err := s.catalog.CreateCampagne(ctx, camp); err != nil {
		return nil, err
	}
	logger.L(ctx).Info("Campaign created", zap.Int("campagne_id", camp.ID), zap.String("nom", camp.Nom))
	resp := ToCampagneResponse(*camp)
	return &resp, nil
}

func parseOptionalDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, shared.NewValidationError(field + " must use the yyyy-MM-dd format")
	}
	return t, nil
}
