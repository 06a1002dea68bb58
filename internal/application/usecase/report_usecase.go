package usecase

import (
	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

// ReportUseCase consultas agregadas de solo lectura para el dashboard.
type ReportUseCase struct {
	repo repository.ReportRepository
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(repo repository.ReportRepository) *ReportUseCase {
	return &ReportUseCase{repo: repo}
}

// Summary devuelve los totales de la empresa.
func (uc *ReportUseCase) Summary(companyID string) (*dto.SummaryResponse, error) {
	summary, err := uc.repo.Summary(companyID)
	if err != nil {
		return nil, err
	}
	return &dto.SummaryResponse{
		Products:       summary.Products,
		Warehouses:     summary.Warehouses,
		Suppliers:      summary.Suppliers,
		Movements:      summary.Movements,
		PendingReturns: summary.PendingReturns,
		PendingOrders:  summary.PendingOrders,
		TotalStock:     summary.TotalStock,
		LowStockCount:  summary.LowStockCount,
	}, nil
}
