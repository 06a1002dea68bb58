package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

// BatchUseCase casos de uso CRUD para lotes.
type BatchUseCase struct {
	repo        repository.BatchRepository
	productRepo repository.ProductRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(repo repository.BatchRepository, productRepo repository.ProductRepository) *BatchUseCase {
	return &BatchUseCase{repo: repo, productRepo: productRepo}
}

// Create crea un lote asociado a un producto de la empresa.
func (uc *BatchUseCase) Create(companyID string, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if in.ProductID == "" || in.Code == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "producto", ID: in.ProductID}
	}
	now := time.Now()
	batch := &entity.Batch{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ProductID:  in.ProductID,
		Code:       in.Code,
		Quantity:   in.Quantity,
		ExpiresAt:  in.ExpiresAt,
		ReceivedAt: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// GetByID obtiene un lote de la empresa por ID.
func (uc *BatchUseCase) GetByID(companyID, id string) (*dto.BatchResponse, error) {
	batch, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// Update actualiza cantidad o vencimiento de un lote.
func (uc *BatchUseCase) Update(companyID, id string, in dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Quantity != nil {
		if *in.Quantity < 0 {
			return nil, domain.ErrInvalidInput
		}
		batch.Quantity = *in.Quantity
	}
	if in.ExpiresAt != nil {
		batch.ExpiresAt = in.ExpiresAt
	}
	batch.UpdatedAt = time.Now()
	if err := uc.repo.Update(batch); err != nil {
		return nil, err
	}
	return toBatchResponse(batch), nil
}

// List lista lotes de la empresa, o de un producto si productID no es vacío.
func (uc *BatchUseCase) List(companyID, productID string, limit, offset int) (*dto.BatchListResponse, error) {
	var (
		list []*entity.Batch
		err  error
	)
	if productID != "" {
		product, perr := uc.productRepo.GetByID(productID)
		if perr != nil {
			return nil, perr
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, &domain.TenantMismatchError{Entity: "producto", ID: productID}
		}
		list, err = uc.repo.ListByProduct(productID, limit, offset)
	} else {
		list, err = uc.repo.ListByCompany(companyID, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBatchResponse(b))
	}
	return &dto.BatchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un lote de la empresa por ID.
func (uc *BatchUseCase) Delete(companyID, id string) error {
	if _, err := uc.getOwned(companyID, id); err != nil {
		return err
	}
	return uc.repo.Delete(id)
}

func (uc *BatchUseCase) getOwned(companyID, id string) (*entity.Batch, error) {
	batch, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "lote", ID: id}
	}
	return batch, nil
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	if b == nil {
		return nil
	}
	return &dto.BatchResponse{
		ID:         b.ID,
		CompanyID:  b.CompanyID,
		ProductID:  b.ProductID,
		Code:       b.Code,
		Quantity:   b.Quantity,
		ExpiresAt:  b.ExpiresAt,
		ReceivedAt: b.ReceivedAt,
		CreatedAt:  b.CreatedAt,
	}
}
