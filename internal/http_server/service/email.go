// Package service
package service

import (
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"gopkg.in/gomail.v2"
)

var (
	ErrRenderingTemplate      = errors.New("error rendering template")
	ErrTemplateNotInitialized = errors.New("error template not initialized")
)

// MailSender 邮件发送方, gomail.Dialer 实现了该接口
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailService struct {
	logger log.LoggerInterface
	config *config.EmailConfig
	sender MailSender
}

type EmailDeviceAssignedData struct {
	Username string
	DeviceId string
	Operator string
	Time     string
}

func NewEmailService(logger log.LoggerInterface, config *config.EmailConfig) *EmailService {
	service := &EmailService{logger: logger, config: config}
	if config.Enabled && config.EmailServer != nil {
		service.sender = config.EmailServer
	}
	return service
}

func (emailService *EmailService) RenderTemplate(template *template.Template, data interface{}) (string, error) {
	if template == nil {
		return "", ErrTemplateNotInitialized
	}
	var sb strings.Builder
	if err := template.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (emailService *EmailService) SendDeviceAssignedEmail(user *operation.User, operator *operation.User, deviceId string) error {
	if emailService.sender == nil {
		return nil
	}
	email := strings.ToLower(user.Email)
	data := &EmailDeviceAssignedData{
		Username: user.Username,
		DeviceId: deviceId,
		Operator: operator.Username,
		Time:     time.Now().Format(time.DateTime),
	}
	message, err := emailService.RenderTemplate(emailService.config.DeviceAssignedTemplate, data)
	if err != nil {
		emailService.logger.WarnF("Error rendering device assigned template: %v", err)
		return ErrRenderingTemplate
	}

	m := gomail.NewMessage()
	m.SetHeader("From", emailService.config.Username)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "飞行记录仪分配通知")
	m.SetBody("text/html", message)

	emailService.logger.InfoF("Sending device assigned email to %s(%d)", email, user.ID)

	return emailService.sender.DialAndSend(m)
}
