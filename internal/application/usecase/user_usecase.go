package usecase

import (
	"time"

	"github.com/arrublas1208/logitrack-api/internal/application/dto"
	"github.com/arrublas1208/logitrack-api/internal/domain"
	"github.com/arrublas1208/logitrack-api/internal/domain/entity"
	"github.com/arrublas1208/logitrack-api/internal/domain/repository"
)

// UserUseCase consultas y administración de usuarios de la empresa. El alta
// vive en auth.AuthUseCase porque requiere hashear la contraseña.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario de la empresa por ID.
func (uc *UserUseCase) GetByID(companyID, id string) (*dto.UserResponse, error) {
	user, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

// List lista usuarios por empresa con paginación.
func (uc *UserUseCase) List(companyID string, limit, offset int) ([]dto.UserResponse, error) {
	list, err := uc.repo.ListByCompany(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *userToResponse(u))
	}
	return items, nil
}

// SetStatus activa o desactiva un usuario.
func (uc *UserUseCase) SetStatus(companyID, id, status string) (*dto.UserResponse, error) {
	if status != "active" && status != "inactive" && status != "suspended" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.getOwned(companyID, id)
	if err != nil {
		return nil, err
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(user); err != nil {
		return nil, err
	}
	return userToResponse(user), nil
}

func (uc *UserUseCase) getOwned(companyID, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if user.CompanyID != companyID {
		return nil, &domain.TenantMismatchError{Entity: "usuario", ID: id}
	}
	return user, nil
}

func userToResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}
