// Package config
package config

import (
	"errors"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"golang.org/x/crypto/bcrypt"
)

type GeneralConfig struct {
	BcryptCost    int    `json:"bcrypt_cost"`
	AdminUsername string `json:"admin_username"` // 启动时自动创建的管理员账号, 密码为空时不创建
	AdminEmail    string `json:"admin_email"`
	AdminPassword string `json:"admin_password"`
}

func defaultGeneralConfig() *GeneralConfig {
	return &GeneralConfig{
		BcryptCost:    12,
		AdminUsername: "admin",
		AdminEmail:    "admin@example.com",
		AdminPassword: "",
	}
}

func (config *GeneralConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if config.BcryptCost < bcrypt.MinCost || config.BcryptCost > bcrypt.MaxCost {
		return ValidFail(errors.New("bcrypt_cost out of range, must between 4 and 31"))
	}
	if config.AdminPassword != "" && (config.AdminUsername == "" || config.AdminEmail == "") {
		return ValidFail(errors.New("admin_username and admin_email are required when admin_password is set"))
	}
	if config.AdminPassword == "" {
		logger.Debug("No admin password configured, skip admin account seeding")
	}
	return ValidPass()
}

func (config *GeneralConfig) SeedAdmin() bool {
	return config.AdminPassword != ""
}
