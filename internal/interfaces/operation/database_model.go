package operation

import (
	"time"
)

type DeviceRequest string

const (
	HasOwnDevice DeviceRequest = "HAS_OWN_DEVICE"
	NeedsDevice  DeviceRequest = "NEEDS_DEVICE"
)

type User struct {
	ID            uint          `gorm:"primarykey" json:"id"`
	Username      string        `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email         string        `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Password      string        `gorm:"size:128;not null" json:"-"`
	Permission    int64         `gorm:"default:0" json:"permission"`
	DeviceRequest DeviceRequest `gorm:"size:16;index;default:HAS_OWN_DEVICE;not null" json:"device_request"`
	Flights       []*Flight     `gorm:"foreignKey:OwnerId;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Devices       []*Device     `gorm:"foreignKey:OwnerId;references:ID" json:"-"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"-"`
}

// Flight 一次入库的飞行日志, 入库后除删除外不再修改
type Flight struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	OwnerId         uint            `gorm:"index;not null" json:"owner_id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	StartTime       *time.Time      `json:"start_time"`
	EndTime         *time.Time      `json:"end_time"`
	RecordCount     int             `gorm:"default:0;not null" json:"record_count"`
	TotalDistanceKm float64         `gorm:"default:0;not null" json:"total_distance_km"`
	ArchivePath     string          `gorm:"size:512;default:'';not null" json:"archive_path,omitempty"`
	Records         []*FlightRecord `gorm:"foreignKey:FlightId;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"-"`
}

// FlightRecord 单条遥测采样, 所有数值字段可为空
type FlightRecord struct {
	ID           uint     `gorm:"primarykey" json:"id"`
	FlightId     uint     `gorm:"index;not null" json:"flight_id"`
	Time         string   `gorm:"size:8;not null" json:"time"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	TemperatureC *float64 `json:"temperature_c"`
	PressureHpa  *float64 `json:"pressure_hpa"`
	AltitudeM    *float64 `json:"altitude_m"`
	ImuX         *float64 `json:"imu_x"`
	ImuY         *float64 `json:"imu_y"`
	ImuZ         *float64 `json:"imu_z"`
	TurbulenceG  *float64 `json:"turbulence_g"`
	SpeedKn      *float64 `json:"speed_kn"`
}

type Device struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	DeviceId      string     `gorm:"size:32;uniqueIndex;not null" json:"device_id"`
	DeviceKeyHash string     `gorm:"size:128;not null" json:"-"`
	PairingCode   string     `gorm:"size:32;uniqueIndex;not null" json:"-"`
	OwnerId       *uint      `gorm:"index" json:"owner_id"`
	PairedAt      *time.Time `json:"paired_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"-"`
}
