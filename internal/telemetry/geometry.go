package telemetry

import (
	"fmt"
	"math"
	"time"

	"github.com/half-nothing/simple-fdr/internal/utils"
)

const EarthRadiusKm = 6371.0

// HaversineKm 两点间大圆距离, 单位千米
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	rLat1 := lat1 * math.Pi / 180
	rLat2 := lat2 * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// Accumulator 累计航迹距离
// 经纬度缺失的点被跳过, 但不会打断航迹, 下一个有效点与最近一个有效点相连
type Accumulator struct {
	prevLat float64
	prevLon float64
	hasPrev bool
	totalKm float64
}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) Add(lat, lon *float64) {
	if lat == nil || lon == nil {
		return
	}
	if a.hasPrev {
		a.totalKm += HaversineKm(a.prevLat, a.prevLon, *lat, *lon)
	}
	a.prevLat, a.prevLon, a.hasPrev = *lat, *lon, true
}

// TotalKm 未舍入的累计距离
func (a *Accumulator) TotalKm() float64 {
	return a.totalKm
}

// RoundedKm 保留两位小数, 只在最终结果上舍入
func (a *Accumulator) RoundedKm() float64 {
	return utils.RoundTo(a.totalKm, 2)
}

// FormatDuration 以 HH:MM:SS 输出时长, 小时数不按天取模
func FormatDuration(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}
	total := int64(duration / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total%3600/60, total%60)
}
