package database

import (
	"context"
	"errors"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	. "github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserOperation struct {
	config       *config.GeneralConfig
	db           *gorm.DB
	queryTimeout time.Duration
}

func NewUserOperation(db *gorm.DB, queryTimeout time.Duration, config *config.GeneralConfig) *UserOperation {
	return &UserOperation{config: config, db: db, queryTimeout: queryTimeout}
}

func (userOperation *UserOperation) GetUserByUid(ctx context.Context, uid uint) (user *User, err error) {
	user = &User{}
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("id = ?", uid).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	return
}

func (userOperation *UserOperation) GetUserByUsernameOrEmail(ctx context.Context, ident string) (user *User, err error) {
	user = &User{}
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("username = ? OR email = ?", ident, ident).
		First(user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = ErrUserNotFound
	}
	return
}

func (userOperation *UserOperation) GetUsers(ctx context.Context, page, pageSize int) (users []*User, total int64, err error) {
	users = make([]*User, 0, pageSize)
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	if err = userOperation.db.WithContext(ctx).Model(&User{}).Select("id").Count(&total).Error; err != nil {
		return
	}
	err = userOperation.db.WithContext(ctx).Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error
	return
}

func (userOperation *UserOperation) GetUsersByDeviceRequest(ctx context.Context, request DeviceRequest) (users []*User, err error) {
	users = make([]*User, 0)
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	err = userOperation.db.WithContext(ctx).
		Where("device_request = ?", request).
		Where("NOT EXISTS (SELECT 1 FROM devices WHERE devices.owner_id = users.id)").
		Order("created_at").
		Find(&users).Error
	return
}

func (userOperation *UserOperation) NewUser(username string, email string, password string, request DeviceRequest) (user *User, err error) {
	encodePassword, err := bcrypt.GenerateFromPassword([]byte(password), userOperation.config.BcryptCost)
	if err != nil {
		return nil, ErrPasswordEncode
	}
	if request != NeedsDevice {
		request = HasOwnDevice
	}
	user = &User{
		Username:      username,
		Email:         email,
		Password:      string(encodePassword),
		Permission:    0,
		DeviceRequest: request,
	}
	return
}

func (userOperation *UserOperation) AddUser(ctx context.Context, user *User) error {
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	return userOperation.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := isUserIdentifierTaken(tx, user.Username, user.Email)
		if err != nil {
			return ErrIdentifierCheck
		}
		if taken {
			return ErrIdentifierTaken
		}
		return tx.Create(user).Error
	})
}

func (userOperation *UserOperation) UpdateUserPermission(ctx context.Context, user *User, permission Permission) error {
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	if err := userOperation.db.WithContext(ctx).Model(user).Update("permission", int64(permission)).Error; err != nil {
		return err
	}
	user.Permission = int64(permission)
	return nil
}

func (userOperation *UserOperation) UpdateUserDeviceRequest(ctx context.Context, user *User, request DeviceRequest) error {
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	if err := userOperation.db.WithContext(ctx).Model(user).Update("device_request", request).Error; err != nil {
		return err
	}
	user.DeviceRequest = request
	return nil
}

func (userOperation *UserOperation) VerifyUserPassword(user *User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	return err == nil
}

func (userOperation *UserOperation) IsUserIdentifierTaken(ctx context.Context, username, email string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, userOperation.queryTimeout)
	defer cancel()
	return isUserIdentifierTaken(userOperation.db.WithContext(ctx), username, email)
}

func isUserIdentifierTaken(tx *gorm.DB, username, email string) (bool, error) {
	var count int64
	err := tx.Model(&User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
