// Package config
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/log"
)

type HttpServerLimit struct {
	RateLimit         int           `json:"rate_limit"`        // 每个窗口内允许的请求数, 同时作为令牌桶容量
	RateLimitWindow   string        `json:"rate_limit_window"` // 令牌桶完全回满所需时间
	RateLimitDuration time.Duration `json:"-"`
	IdleEviction      string        `json:"idle_eviction"` // 客户端桶闲置多久后回收
	IdleDuration      time.Duration `json:"-"`
	UsernameLengthMin int           `json:"username_length_min"`
	UsernameLengthMax int           `json:"username_length_max"`
	EmailLengthMin    int           `json:"email_length_min"`
	EmailLengthMax    int           `json:"email_length_max"`
	PasswordLengthMin int           `json:"password_length_min"`
	PasswordLengthMax int           `json:"password_length_max"`
}

func defaultHttpServerLimit() *HttpServerLimit {
	return &HttpServerLimit{
		RateLimit:         60,
		RateLimitWindow:   "1m",
		IdleEviction:      "10m",
		UsernameLengthMin: 4,
		UsernameLengthMax: 32,
		EmailLengthMin:    4,
		EmailLengthMax:    128,
		PasswordLengthMin: 8,
		PasswordLengthMax: 64,
	}
}

func checkRange(field string, minValue, maxValue, upper int) *ValidResult {
	if minValue <= 0 {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_min, value must larger than 0", field))
	}
	if maxValue <= 0 {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_max, value must larger than 0", field))
	}
	if maxValue > upper {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_max, value must less than %d", field, upper))
	}
	if minValue >= maxValue {
		return ValidFail(fmt.Errorf("invalid json field http_server.limits.%s_min, value must less than http_server.limits.%s_max", field, field))
	}
	return ValidPass()
}

func (config *HttpServerLimit) checkValid(_ log.LoggerInterface) *ValidResult {
	if config.RateLimit <= 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.rate_limit, value must larger than 0"))
	}
	if result := parseDuration("http_server.limits.rate_limit_window", config.RateLimitWindow, &config.RateLimitDuration); result.IsFail() {
		return result
	}
	if config.RateLimitDuration == 0 {
		return ValidFail(errors.New("invalid json field http_server.limits.rate_limit_window, value must larger than 0"))
	}
	if result := parseDuration("http_server.limits.idle_eviction", config.IdleEviction, &config.IdleDuration); result.IsFail() {
		return result
	}
	if result := checkRange("username_length", config.UsernameLengthMin, config.UsernameLengthMax, 64); result.IsFail() {
		return result
	}
	if result := checkRange("email_length", config.EmailLengthMin, config.EmailLengthMax, 128); result.IsFail() {
		return result
	}
	if result := checkRange("password_length", config.PasswordLengthMin, config.PasswordLengthMax, 128); result.IsFail() {
		return result
	}
	return ValidPass()
}
