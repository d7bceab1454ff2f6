package services

import (
	"context"
	"errors"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/utils"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/pkg/metrics"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	db      *gorm.DB
	cfg     *config.Configuration
	logger  *zap.Logger
	metrics *metrics.MetricsCollector
}

type RegisterInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Phone        string
	Address      string
	UserTypeName string // defaults to the regular type when empty
}

// UserPatch enumerates the mutable profile fields. Nil means "leave as is".
type UserPatch struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	Image     *string
	Password  *string
}

func NewUserService(db *gorm.DB, cfg *config.Configuration, logger *zap.Logger, metricsCollector *metrics.MetricsCollector) *UserService {
	return &UserService{
		db:      db,
		cfg:     cfg,
		logger:  logger.With(zap.String("service", "user_service")),
		metrics: metricsCollector,
	}
}

func (us *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	typeName := in.UserTypeName
	if typeName == "" {
		typeName = us.cfg.UserTypes.Regular
	}

	var userType models.UserType
	if err := us.db.WithContext(ctx).Where("name = ?", typeName).First(&userType).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}

	hashed, err := utils.EncryptPassword(in.Password)
	if err != nil {
		return nil, wrapStorage(err)
	}

	user := &models.User{
		ID:             uuid.New().String(),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		HashedPassword: hashed,
		IsActive:       true,
		UserTypeID:     userType.ID,
	}

	if err := us.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyExists
		}
		return nil, wrapStorage(err)
	}

	user.UserType = userType
	us.metrics.IncrementCounter("users_registered")
	us.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("user_type", typeName))
	return user, nil
}

// Authenticate checks credentials without revealing whether the email or the
// password was wrong. Inactive users are rejected even with a valid password.
func (us *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := us.db.WithContext(ctx).Preload("UserType").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			us.metrics.IncrementCounter("logins_failed")
			return nil, ErrIncorrectLogin
		}
		return nil, wrapStorage(err)
	}

	if !utils.VerifyPassword(user.HashedPassword, password) {
		us.metrics.IncrementCounter("logins_failed")
		return nil, ErrIncorrectLogin
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := us.db.WithContext(ctx).Model(&user).Update("last_login", time.Now()).Error; err != nil {
		us.logger.Warn("Failed to record login time", zap.String("user_id", user.ID), zap.Error(err))
	}

	us.metrics.IncrementCounter("logins_succeeded")
	return &user, nil
}

func (us *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := us.db.WithContext(ctx).Preload("UserType").First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapStorage(err)
	}
	return &user, nil
}

func (us *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := us.db.WithContext(ctx).Preload("UserType").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, wrapStorage(err)
	}
	return &user, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, userID string, patch UserPatch) (*models.User, error) {
	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if patch.FirstName != nil {
		updates["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		updates["last_name"] = *patch.LastName
	}
	if patch.Phone != nil {
		updates["phone"] = *patch.Phone
	}
	if patch.Address != nil {
		updates["address"] = *patch.Address
	}
	if patch.Image != nil {
		updates["image"] = *patch.Image
	}
	if patch.Password != nil {
		hashed, err := utils.EncryptPassword(*patch.Password)
		if err != nil {
			return nil, wrapStorage(err)
		}
		updates["hashed_password"] = hashed
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := us.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, wrapStorage(err)
	}
	return us.GetByID(ctx, userID)
}

// ResetPassword replaces the password of the account behind email. The caller
// is responsible for having validated a reset token first.
func (us *UserService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := us.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	hashed, err := utils.EncryptPassword(newPassword)
	if err != nil {
		return wrapStorage(err)
	}
	if err := us.db.WithContext(ctx).Model(user).Update("hashed_password", hashed).Error; err != nil {
		return wrapStorage(err)
	}

	us.logger.Info("Password reset", zap.String("user_id", user.ID))
	return nil
}

func (us *UserService) Activate(ctx context.Context, userID string) (*models.User, error) {
	return us.setActivationStatus(ctx, userID, true)
}

func (us *UserService) Deactivate(ctx context.Context, userID string) (*models.User, error) {
	return us.setActivationStatus(ctx, userID, false)
}

func (us *UserService) setActivationStatus(ctx context.Context, userID string, active bool) (*models.User, error) {
	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsActive == active {
		return user, nil
	}

	if err := us.db.WithContext(ctx).Model(user).Update("is_active", active).Error; err != nil {
		return nil, wrapStorage(err)
	}
	user.IsActive = active
	us.logger.Info("User activation changed", zap.String("user_id", userID), zap.Bool("active", active))
	return user, nil
}

func (us *UserService) SetUserType(ctx context.Context, userID string, userTypeID uint) (*models.User, error) {
	user, err := us.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var userType models.UserType
	if err := us.db.WithContext(ctx).First(&userType, userTypeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, wrapStorage(err)
	}

	if err := us.db.WithContext(ctx).Model(user).Update("user_type_id", userType.ID).Error; err != nil {
		return nil, wrapStorage(err)
	}
	user.UserTypeID = userType.ID
	user.UserType = userType
	return user, nil
}
