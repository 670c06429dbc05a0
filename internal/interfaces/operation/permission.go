// Package operation
package operation

type Permission int64

// 权限节点上限是64, 超过64需要使用切片
const (
	AdminEntry Permission = 1 << iota
	UserShowList
	UserEditPermission
	DeviceCreate
	DeviceAssign
	DeviceShowRequests
	FlightShowAll
)

var PermissionMap = map[string]Permission{
	"AdminEntry":         AdminEntry,
	"UserShowList":       UserShowList,
	"UserEditPermission": UserEditPermission,
	"DeviceCreate":       DeviceCreate,
	"DeviceAssign":       DeviceAssign,
	"DeviceShowRequests": DeviceShowRequests,
	"FlightShowAll":      FlightShowAll,
}

// AllPermissions 管理员账号拥有的全部权限
const AllPermissions = FlightShowAll<<1 - 1

func (p *Permission) IsValid() bool {
	return *p >= 0 && *p <= AllPermissions
}

func (p *Permission) HasPermission(perm Permission) bool {
	return *p&perm != 0
}

// IsElevated 拥有 AdminEntry 即视为管理员, 可访问任意用户的航班与设备
func (p *Permission) IsElevated() bool {
	return p.HasPermission(AdminEntry)
}

func (p *Permission) Grant(perm Permission) {
	*p |= perm
}

func (p *Permission) Revoke(perm Permission) {
	*p &^= perm
}
