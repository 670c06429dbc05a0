// Package config
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/global"
	"github.com/half-nothing/simple-fdr/internal/utils"
)

var (
	ConfVersion, _ = newVersion(global.ConfigVersion)
	AppVersion, _  = newVersion(global.AppVersion)
)

// loadOrCreateFile 读取文件内容, 文件不存在时用默认内容创建
func loadOrCreateFile(filePath string, defaultContent []byte) ([]byte, error) {
	if content, err := os.ReadFile(filePath); err == nil {
		return content, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("file read error: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filePath), global.DefaultDirectoryPermission); err != nil {
		return nil, fmt.Errorf("directory create error: %w", err)
	}
	if err := os.WriteFile(filePath, defaultContent, global.DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("file write error: %w", err)
	}
	return defaultContent, nil
}

// parseDuration 解析 json 中的时长字段, field 用于错误信息
func parseDuration(field string, value string, target *time.Duration) *ValidResult {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return ValidFailWith(fmt.Errorf("invalid json field %s", field), err)
	}
	if duration < 0 {
		return ValidFail(fmt.Errorf("invalid json field %s, duration cannot be negative", field))
	}
	*target = duration
	return ValidPass()
}

func checkPort(port uint) *ValidResult {
	if port <= 0 {
		return ValidFail(errors.New("port must be greater than zero"))
	}
	if port > 65535 {
		return ValidFail(errors.New("port must be less than 65535"))
	}
	if port < 1024 {
		return ValidFail(fmt.Errorf("the %d port may have a special usage, use it with caution", port))
	}
	return ValidPass()
}

type checkVersionResult int

const (
	AllMatch checkVersionResult = iota
	MajorUnmatch
	MinorUnmatch
	PatchUnmatch
)

type Version struct {
	major   int
	minor   int
	patch   int
	version string
}

func newVersion(version string) (*Version, error) {
	versions := strings.Split(version, ".")
	if len(versions) < 3 {
		return nil, errors.New("invalid version String")
	}
	return &Version{
		major:   utils.StrToInt(versions[0], 0),
		minor:   utils.StrToInt(versions[1], 0),
		patch:   utils.StrToInt(versions[2], 0),
		version: version,
	}, nil
}

func (v *Version) checkVersion(version *Version) checkVersionResult {
	if v.major != version.major {
		return MajorUnmatch
	}
	if v.minor != version.minor {
		return MinorUnmatch
	}
	if v.patch != version.patch {
		return PatchUnmatch
	}
	return AllMatch
}

func (v *Version) String() string {
	return v.version
}
