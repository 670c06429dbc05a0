package testutils

import (
	"context"
	"sort"
	"sync"

	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
)

// MemoryUsers 内存中的用户仓库, 密码以明文保存
type MemoryUsers struct {
	mu      sync.Mutex
	nextId  uint
	users   map[uint]*operation.User
	Devices *MemoryDevices
}

func NewMemoryUsers(devices *MemoryDevices, users ...*operation.User) *MemoryUsers {
	m := &MemoryUsers{users: make(map[uint]*operation.User), Devices: devices}
	for _, user := range users {
		_ = m.AddUser(context.Background(), user)
	}
	return m
}

func (m *MemoryUsers) GetUserByUid(_ context.Context, uid uint) (*operation.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[uid]
	if !ok {
		return nil, operation.ErrUserNotFound
	}
	return user, nil
}

func (m *MemoryUsers) GetUserByUsernameOrEmail(_ context.Context, ident string) (*operation.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == ident || user.Email == ident {
			return user, nil
		}
	}
	return nil, operation.ErrUserNotFound
}

func (m *MemoryUsers) sorted() []*operation.User {
	users := make([]*operation.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

func (m *MemoryUsers) GetUsers(_ context.Context, page, pageSize int) ([]*operation.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := m.sorted()
	start := min((page-1)*pageSize, len(users))
	end := min(start+pageSize, len(users))
	return users[start:end], int64(len(users)), nil
}

func (m *MemoryUsers) GetUsersByDeviceRequest(ctx context.Context, request operation.DeviceRequest) ([]*operation.User, error) {
	m.mu.Lock()
	candidates := m.sorted()
	m.mu.Unlock()
	result := make([]*operation.User, 0)
	for _, user := range candidates {
		if user.DeviceRequest != request {
			continue
		}
		if m.Devices != nil {
			if count, _ := m.Devices.CountDevicesByOwner(ctx, user.ID); count > 0 {
				continue
			}
		}
		result = append(result, user)
	}
	return result, nil
}

func (m *MemoryUsers) NewUser(username string, email string, password string, request operation.DeviceRequest) (*operation.User, error) {
	return &operation.User{Username: username, Email: email, Password: password, DeviceRequest: request}, nil
}

func (m *MemoryUsers) AddUser(ctx context.Context, user *operation.User) error {
	if taken, _ := m.IsUserIdentifierTaken(ctx, user.Username, user.Email); taken {
		return operation.ErrIdentifierTaken
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextId++
	user.ID = m.nextId
	if user.DeviceRequest == "" {
		user.DeviceRequest = operation.HasOwnDevice
	}
	m.users[user.ID] = user
	return nil
}

func (m *MemoryUsers) UpdateUserPermission(_ context.Context, user *operation.User, permission operation.Permission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.Permission = int64(permission)
	return nil
}

func (m *MemoryUsers) UpdateUserDeviceRequest(_ context.Context, user *operation.User, request operation.DeviceRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.DeviceRequest = request
	return nil
}

func (m *MemoryUsers) VerifyUserPassword(user *operation.User, password string) bool {
	return user.Password == password
}

func (m *MemoryUsers) IsUserIdentifierTaken(_ context.Context, username, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}
