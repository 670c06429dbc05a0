package service

import (
	"bytes"
	"context"
	"html/template"
	"mime/multipart"
	"testing"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"github.com/half-nothing/simple-fdr/internal/testutils"
)

const telemetryHeader = "time lat lon temp press alt ix iy iz turb r1 r2 r3 speed"

func testHttpConfig() *config.HttpServerConfig {
	cfg := config.DefaultConfig().Server.HttpServer
	cfg.JWT.Secret = "test-secret"
	return cfg
}

func testGeneralConfig() *config.GeneralConfig {
	cfg := config.DefaultConfig().Server.General
	cfg.BcryptCost = 4
	return cfg
}

func testIngestConfig() *config.IngestConfig {
	cfg := config.DefaultConfig().Ingest
	cfg.MaxLineLength = 64 * 1024
	return cfg
}

type sentEmail struct {
	user     string
	operator string
	deviceId string
}

type fakeEmailService struct {
	sent []sentEmail
}

func (f *fakeEmailService) RenderTemplate(*template.Template, interface{}) (string, error) {
	return "", nil
}

func (f *fakeEmailService) SendDeviceAssignedEmail(user *operation.User, operator *operation.User, deviceId string) error {
	f.sent = append(f.sent, sentEmail{user: user.Username, operator: operator.Username, deviceId: deviceId})
	return nil
}

type fakeStore struct {
	removed []string
}

func (f *fakeStore) ArchiveRawLog(_ context.Context, name string, _ []byte) (string, error) {
	return "flights/" + name, nil
}

func (f *fakeStore) RemoveRawLog(_ context.Context, path string) error {
	f.removed = append(f.removed, path)
	return nil
}

// fixture 两个普通用户和一个管理员
type fixture struct {
	users   *testutils.MemoryUsers
	devices *testutils.MemoryDevices
	flights *testutils.MemoryFlights
	alice   *operation.User
	bob     *operation.User
	admin   *operation.User
}

func newFixture() *fixture {
	f := &fixture{
		devices: testutils.NewMemoryDevices(),
		flights: testutils.NewMemoryFlights(),
		alice:   &operation.User{Username: "alice", Email: "alice@example.com", Password: "password-a"},
		bob:     &operation.User{Username: "bob", Email: "bob@example.com", Password: "password-b", DeviceRequest: operation.NeedsDevice},
		admin:   &operation.User{Username: "admin", Email: "admin@example.com", Password: "password-root", Permission: int64(operation.AllPermissions)},
	}
	f.users = testutils.NewMemoryUsers(f.devices, f.alice, f.bob, f.admin)
	return f
}

func multipartFile(t *testing.T, name string, content string) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(content))
	_ = writer.Close()
	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatal(err)
	}
	return form.File["file"][0]
}
