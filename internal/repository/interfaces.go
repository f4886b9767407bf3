package repository

import (
	"context"

	"github.com/RMahshie/pitchscope/pkg/models"
)

// AnalysisRepository defines the interface for analysis log operations
type AnalysisRepository interface {
	Create(ctx context.Context, record *models.AnalysisRecord) error
	GetByID(ctx context.Context, id string) (*models.AnalysisRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AnalysisRecord, error)
}
