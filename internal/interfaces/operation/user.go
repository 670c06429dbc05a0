// Package operation
package operation

import (
	"context"
	"errors"
)

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("user does not exist")
	// ErrIdentifierTaken 用户名或邮箱已被使用
	ErrIdentifierTaken = errors.New("user identifiers have been used")
	// ErrIdentifierCheck 用户名或邮箱检查异常
	ErrIdentifierCheck = errors.New("identifier check error")
	// ErrPasswordEncode 密码编码错误
	ErrPasswordEncode = errors.New("password encode error")
)

// UserOperationInterface 用户操作接口定义
type UserOperationInterface interface {
	// GetUserByUid 通过主键ID获取用户, 当err为nil时返回值user有效
	GetUserByUid(ctx context.Context, uid uint) (user *User, err error)
	// GetUserByUsernameOrEmail 通过用户名或者邮箱获取用户, 当err为nil时返回值user有效
	GetUserByUsernameOrEmail(ctx context.Context, ident string) (user *User, err error)
	// GetUsers 获取分页用户数据, 当err为nil时返回值users有效, total表示数据总数目
	GetUsers(ctx context.Context, page, pageSize int) (users []*User, total int64, err error)
	// GetUsersByDeviceRequest 获取指定设备需求且当前名下没有设备的用户
	GetUsersByDeviceRequest(ctx context.Context, request DeviceRequest) (users []*User, err error)
	// NewUser 创建一个新用户(只是创建, 没有写入数据库), 密码会被bcrypt编码, 当err为nil时返回值user有效
	NewUser(username string, email string, password string, request DeviceRequest) (user *User, err error)
	// AddUser 创建一个新用户(写入数据库), 在写入之前会检查用户名与邮箱的唯一性, 当err为nil时表示创建成功
	AddUser(ctx context.Context, user *User) (err error)
	// UpdateUserPermission 更新用户权限, 当err为nil时表示更新成功
	UpdateUserPermission(ctx context.Context, user *User, permission Permission) (err error)
	// UpdateUserDeviceRequest 更新用户的设备需求, 当err为nil时表示更新成功
	UpdateUserDeviceRequest(ctx context.Context, user *User, request DeviceRequest) (err error)
	// VerifyUserPassword 验证用户密码是否正确, pass为true表示验证通过
	VerifyUserPassword(user *User, password string) (pass bool)
	// IsUserIdentifierTaken 检查用户名或邮箱是否已被使用
	IsUserIdentifierTaken(ctx context.Context, username, email string) (taken bool, err error)
}
