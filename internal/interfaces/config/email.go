// Package config
package config

import (
	"errors"
	"html/template"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
	"gopkg.in/gomail.v2"
)

const defaultDeviceAssignedTemplate = `<p>Hello {{.Username}},</p>
<p>A flight data recorder <b>{{.DeviceId}}</b> has been assigned to your account by {{.Operator}} at {{.Time}}.</p>
<p>You can now sync its recorded flights from the cloud inbox.</p>
`

type EmailConfig struct {
	Enabled                    bool               `json:"enabled"`
	Host                       string             `json:"host"`
	Port                       int                `json:"port"`
	EmailServer                *gomail.Dialer     `json:"-"`
	Username                   string             `json:"username"`
	Password                   string             `json:"password"`
	SendTimeout                string             `json:"send_timeout"`
	SendDuration               time.Duration      `json:"-"`
	DeviceAssignedTemplateFile string             `json:"device_assigned_template_file"`
	DeviceAssignedTemplate     *template.Template `json:"-"`
}

func defaultEmailConfig() *EmailConfig {
	return &EmailConfig{
		Enabled:                    false,
		Host:                       "smtp.example.com",
		Port:                       465,
		Username:                   "noreply@example.com",
		Password:                   "",
		SendTimeout:                "10s",
		DeviceAssignedTemplateFile: "template/device_assigned.template",
	}
}

func (config *EmailConfig) checkValid(logger log.LoggerInterface) *ValidResult {
	if !config.Enabled {
		logger.Info("Email notification disabled")
		return ValidPass()
	}

	if result := parseDuration("http_server.email.send_timeout", config.SendTimeout, &config.SendDuration); result.IsFail() {
		return result
	}

	if bytes, err := loadOrCreateFile(config.DeviceAssignedTemplateFile, []byte(defaultDeviceAssignedTemplate)); err != nil {
		return ValidFailWith(errors.New("fail to load device_assigned_template_file"), err)
	} else if parse, err := template.New("device_assigned").Parse(string(bytes)); err != nil {
		return ValidFailWith(errors.New("fail to parse device_assigned_template"), err)
	} else {
		config.DeviceAssignedTemplate = parse
	}

	config.EmailServer = gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	dial, err := config.EmailServer.Dial()
	if err != nil {
		return ValidFailWith(errors.New("connecting to smtp server fail"), err)
	}
	_ = dial.Close()

	return ValidPass()
}
