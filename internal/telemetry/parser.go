// Package telemetry 飞行日志单行解析与航迹几何计算
package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultColumns 一行数据至少包含的列数
	DefaultColumns = 14
	timeLayout     = "15:04:05"
)

const (
	ColumnTime = iota
	ColumnLatitude
	ColumnLongitude
	ColumnTemperature
	ColumnPressure
	ColumnAltitude
	ColumnImuX
	ColumnImuY
	ColumnImuZ
	ColumnTurbulence
	ColumnReserved1
	ColumnReserved2
	ColumnReserved3
	ColumnSpeed
)

// ErrBlankLine 空行, 调用方应直接跳过且不计入坏行
var ErrBlankLine = errors.New("blank line")

// ParseError 结构性解析失败, Line 为去除首尾空白后的原始内容
type ParseError struct {
	Reason string
	Line   string
}

func (e *ParseError) Error() string {
	return e.Reason
}

// Sample 一条遥测采样, 数值字段为nil表示该列为空
type Sample struct {
	// TimeOfDay 距当天零点的偏移
	TimeOfDay    time.Duration
	Latitude     *float64
	Longitude    *float64
	TemperatureC *float64
	PressureHpa  *float64
	AltitudeM    *float64
	ImuX         *float64
	ImuY         *float64
	ImuZ         *float64
	TurbulenceG  *float64
	SpeedKn      *float64
	// Reserved 第10到12列, 当前不解析, 原样保留
	Reserved [3]string
}

// Clock 以 HH:MM:SS 格式输出采样时刻
func (s *Sample) Clock() string {
	return FormatDuration(s.TimeOfDay)
}

// HasPosition 经纬度均存在
func (s *Sample) HasPosition() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// ParseLine 解析一行遥测数据, 列之间以任意空白分隔
func ParseLine(line string, expectedColumns int) (*Sample, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, ErrBlankLine
	}
	if expectedColumns < DefaultColumns {
		expectedColumns = DefaultColumns
	}

	tokens := strings.Fields(trimmed)
	if len(tokens) < expectedColumns {
		return nil, &ParseError{Reason: fmt.Sprintf("not enough columns: %d < %d", len(tokens), expectedColumns), Line: trimmed}
	}

	clock, err := time.Parse(timeLayout, tokens[ColumnTime])
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("invalid time %q", tokens[ColumnTime]), Line: trimmed}
	}

	sample := &Sample{
		TimeOfDay: time.Duration(clock.Hour())*time.Hour +
			time.Duration(clock.Minute())*time.Minute +
			time.Duration(clock.Second())*time.Second,
		Reserved: [3]string{tokens[ColumnReserved1], tokens[ColumnReserved2], tokens[ColumnReserved3]},
	}

	fields := []struct {
		column int
		target **float64
	}{
		{ColumnLatitude, &sample.Latitude},
		{ColumnLongitude, &sample.Longitude},
		{ColumnTemperature, &sample.TemperatureC},
		{ColumnPressure, &sample.PressureHpa},
		{ColumnAltitude, &sample.AltitudeM},
		{ColumnImuX, &sample.ImuX},
		{ColumnImuY, &sample.ImuY},
		{ColumnImuZ, &sample.ImuZ},
		{ColumnTurbulence, &sample.TurbulenceG},
		{ColumnSpeed, &sample.SpeedKn},
	}
	for _, field := range fields {
		value, err := ParseDecimal(tokens[field.column])
		if err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("column %d: %v", field.column, err), Line: trimmed}
		}
		*field.target = value
	}
	return sample, nil
}

// ParseDecimal 严格解析数值, 逗号视为小数点, 空串返回nil
func ParseDecimal(token string) (*float64, error) {
	token = strings.TrimSpace(strings.ReplaceAll(token, ",", "."))
	if token == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", token)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("non-finite number %q", token)
	}
	return &value, nil
}
