package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/JuliusDeane-data/careplan/internal/models"
	"github.com/JuliusDeane-data/careplan/internal/repositories"
)

// QualificationCatalogService exposes the read-mostly qualification
// reference data (RN, CNA, BLS and friends).
type QualificationCatalogService struct {
	qualRepo repositories.QualificationRepository
}

func NewQualificationCatalogService(qualRepo repositories.QualificationRepository) *QualificationCatalogService {
	return &QualificationCatalogService{qualRepo: qualRepo}
}

func (s *QualificationCatalogService) ListActive(ctx context.Context) ([]*models.Qualification, error) {
	return s.qualRepo.ListActive(ctx)
}

func (s *QualificationCatalogService) GetByCode(ctx context.Context, code string) (*models.Qualification, error) {
	return s.qualRepo.GetByCode(ctx, code)
}

// Register adds a new qualification type to the catalog. Codes are
// unique; re-registering an existing code is a no-op.
func (s *QualificationCatalogService) Register(ctx context.Context, q *models.Qualification) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return s.qualRepo.CreateIfNotExists(ctx, q)
}
