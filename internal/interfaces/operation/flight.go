package operation

import (
	"context"
	"errors"
)

var (
	// ErrFlightNotFound 航班不存在
	ErrFlightNotFound = errors.New("flight does not exist")
)

// AccessibleBy 航班所有者或管理员可访问
func (flight *Flight) AccessibleBy(uid uint, permission Permission) bool {
	return flight.OwnerId == uid || permission.IsElevated()
}

// FlightOperationInterface 航班与遥测记录操作接口定义
type FlightOperationInterface interface {
	// NewFlight 创建一个新航班(只是创建, 没有写入数据库)
	NewFlight(ownerId uint, name string) (flight *Flight)
	// SaveFlight 保存航班, 新航班会分配ID, 当err为nil时表示保存成功
	SaveFlight(ctx context.Context, flight *Flight) (err error)
	// SaveRecordsBatch 批量写入遥测记录, 记录的FlightId必须已经设置
	SaveRecordsBatch(ctx context.Context, records []*FlightRecord) (err error)
	// GetFlightById 通过ID获取航班, 当err为nil时返回值flight有效
	GetFlightById(ctx context.Context, id uint) (flight *Flight, err error)
	// GetFlightsByOwner 获取用户的全部航班, 按开始时间倒序
	GetFlightsByOwner(ctx context.Context, ownerId uint) (flights []*Flight, err error)
	// GetRecordsByFlight 获取航班的全部遥测记录, 按插入顺序
	GetRecordsByFlight(ctx context.Context, flightId uint) (records []*FlightRecord, err error)
	// CountRecordsByOwner 统计用户全部航班的记录总数
	CountRecordsByOwner(ctx context.Context, ownerId uint) (total int64, err error)
	// DeleteRecordsByFlight 删除航班的全部遥测记录
	DeleteRecordsByFlight(ctx context.Context, flightId uint) (err error)
	// DeleteFlight 删除航班, 记录会被级联删除
	DeleteFlight(ctx context.Context, flight *Flight) (err error)
	// Transaction 在事务中执行fn, fn返回错误时回滚
	Transaction(ctx context.Context, fn func(tx FlightOperationInterface) error) (err error)
}
