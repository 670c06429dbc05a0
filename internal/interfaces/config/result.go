// Package config
package config

import "fmt"

type validType int

const (
	PASS validType = iota
	FAIL
)

// ValidResult 配置校验结果, originErr 保存触发失败的底层错误
type ValidResult struct {
	validType validType
	err       error
	originErr error
}

func ValidPass() *ValidResult {
	return &ValidResult{validType: PASS}
}

func ValidFail(err error) *ValidResult {
	return &ValidResult{validType: FAIL, err: err}
}

func ValidFailWith(err error, originErr error) *ValidResult {
	return &ValidResult{validType: FAIL, err: err, originErr: originErr}
}

func (r *ValidResult) IsFail() bool {
	return r.validType == FAIL
}

func (r *ValidResult) Error() error {
	return r.err
}

func (r *ValidResult) OriginErr() error { return r.originErr }

func (r *ValidResult) String() string {
	switch {
	case !r.IsFail():
		return "pass"
	case r.originErr != nil:
		return fmt.Sprintf("%v: %v", r.err, r.originErr)
	default:
		return r.err.Error()
	}
}
