package services

import (
	"context"
	"errors"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UserTypeService manages the role directory. The default user types named in
// the configuration always exist and may never be renamed or deleted.
type UserTypeService struct {
	db     *gorm.DB
	cfg    *config.Configuration
	logger *zap.Logger
}

func NewUserTypeService(db *gorm.DB, cfg *config.Configuration, logger *zap.Logger) *UserTypeService {
	return &UserTypeService{
		db:     db,
		cfg:    cfg,
		logger: logger.With(zap.String("service", "usertype_service")),
	}
}

func (uts *UserTypeService) isDefault(name string) bool {
	for _, d := range uts.cfg.UserTypes.Defaults() {
		if d == name {
			return true
		}
	}
	return false
}

func (uts *UserTypeService) List(ctx context.Context) ([]models.UserType, error) {
	var userTypes []models.UserType
	if err := uts.db.WithContext(ctx).Order("id").Find(&userTypes).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return userTypes, nil
}

func (uts *UserTypeService) GetByID(ctx context.Context, id uint) (*models.UserType, error) {
	var userType models.UserType
	if err := uts.db.WithContext(ctx).First(&userType, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}
	return &userType, nil
}

func (uts *UserTypeService) GetByName(ctx context.Context, name string) (*models.UserType, error) {
	var userType models.UserType
	if err := uts.db.WithContext(ctx).Where("name = ?", name).First(&userType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}
	return &userType, nil
}

func (uts *UserTypeService) Create(ctx context.Context, name string) (*models.UserType, error) {
	userType := &models.UserType{Name: name}
	if err := uts.db.WithContext(ctx).Create(userType).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, wrapStorage(err)
	}

	uts.logger.Info("User type created", zap.String("name", name))
	return userType, nil
}

func (uts *UserTypeService) Update(ctx context.Context, id uint, newName string) (*models.UserType, error) {
	userType, err := uts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uts.isDefault(userType.Name) {
		return nil, ErrProtectedRole
	}

	if err := uts.db.WithContext(ctx).Model(userType).Update("name", newName).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, wrapStorage(err)
	}
	userType.Name = newName
	return userType, nil
}

func (uts *UserTypeService) Delete(ctx context.Context, id uint) (*models.UserType, error) {
	userType, err := uts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if uts.isDefault(userType.Name) {
		return nil, ErrProtectedRole
	}

	var count int64
	if err := uts.db.WithContext(ctx).Model(&models.User{}).Where("user_type_id = ?", id).Count(&count).Error; err != nil {
		return nil, wrapStorage(err)
	}
	if count > 0 {
		return nil, ErrRoleInUse
	}

	// Hard delete: a soft-deleted row would keep holding the unique name, so
	// the role could never be recreated.
	if err := uts.db.WithContext(ctx).Unscoped().Delete(userType).Error; err != nil {
		return nil, wrapStorage(err)
	}

	uts.logger.Info("User type deleted", zap.String("name", userType.Name))
	return userType, nil
}

func (uts *UserTypeService) UsersOf(ctx context.Context, id uint) ([]models.User, error) {
	if _, err := uts.GetByID(ctx, id); err != nil {
		return nil, err
	}

	var users []models.User
	if err := uts.db.WithContext(ctx).Preload("UserType").Where("user_type_id = ?", id).Find(&users).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return users, nil
}
