// Package service
package service

import (
	"html/template"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

type EmailServiceInterface interface {
	RenderTemplate(template *template.Template, data interface{}) (string, error)
	// SendDeviceAssignedEmail 通知用户已为其分配设备, 邮件未启用时直接返回nil
	SendDeviceAssignedEmail(user *operation.User, operator *operation.User, deviceId string) error
}
