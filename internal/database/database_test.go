package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
	"github.com/half-nothing/simple-fdr/internal/interfaces/operation"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDatabase(t *testing.T) (*gorm.DB, *operation.DatabaseOperations) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	pool, _ := db.DB()
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = pool.Close() })
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	return db, NewOperations(db, 5*time.Second, &config.GeneralConfig{BcryptCost: 4})
}

func addUser(t *testing.T, ops *operation.DatabaseOperations, name string) *operation.User {
	t.Helper()
	user, err := ops.UserOperation().NewUser(name, name+"@example.com", "password123", operation.HasOwnDevice)
	if err != nil {
		t.Fatal(err)
	}
	if err := ops.UserOperation().AddUser(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return user
}

func f(v float64) *float64 { return &v }

func TestUserOperation(t *testing.T) {
	_, ops := openTestDatabase(t)
	users := ops.UserOperation()
	ctx := context.Background()

	alice := addUser(t, ops, "alice")
	duplicate, _ := users.NewUser("alice", "other@example.com", "password123", operation.NeedsDevice)
	if err := users.AddUser(ctx, duplicate); !errors.Is(err, operation.ErrIdentifierTaken) {
		t.Errorf("duplicate username returned %v", err)
	}

	found, err := users.GetUserByUsernameOrEmail(ctx, "alice@example.com")
	if err != nil || found.ID != alice.ID {
		t.Fatalf("lookup by email = %+v, %v", found, err)
	}
	if !users.VerifyUserPassword(found, "password123") || users.VerifyUserPassword(found, "wrong") {
		t.Errorf("password verification mismatch")
	}
	if found.DeviceRequest != operation.HasOwnDevice {
		t.Errorf("device request = %s", found.DeviceRequest)
	}
	if _, err := users.GetUserByUid(ctx, 999); !errors.Is(err, operation.ErrUserNotFound) {
		t.Errorf("missing user returned %v", err)
	}

	if err := users.UpdateUserPermission(ctx, found, operation.AdminEntry); err != nil {
		t.Fatal(err)
	}
	reloaded, _ := users.GetUserByUid(ctx, alice.ID)
	permission := operation.Permission(reloaded.Permission)
	if !permission.IsElevated() {
		t.Errorf("permission not persisted")
	}

	bob, _ := users.NewUser("bob", "bob@example.com", "password123", operation.NeedsDevice)
	_ = users.AddUser(ctx, bob)
	needing, err := users.GetUsersByDeviceRequest(ctx, operation.NeedsDevice)
	if err != nil || len(needing) != 1 || needing[0].Username != "bob" {
		t.Errorf("users needing a device = %v, %v", needing, err)
	}
	list, total, err := users.GetUsers(ctx, 1, 10)
	if err != nil || total != 2 || len(list) != 2 {
		t.Errorf("GetUsers = %d/%d, %v", len(list), total, err)
	}
}

func TestFlightTransactionRollback(t *testing.T) {
	_, ops := openTestDatabase(t)
	owner := addUser(t, ops, "pilot")
	flights := ops.FlightOperation()
	ctx := context.Background()

	failure := errors.New("no valid records")
	err := flights.Transaction(ctx, func(tx operation.FlightOperationInterface) error {
		flight := tx.NewFlight(owner.ID, "draft.txt")
		if err := tx.SaveFlight(ctx, flight); err != nil {
			return err
		}
		if err := tx.SaveRecordsBatch(ctx, []*operation.FlightRecord{{FlightId: flight.ID, Time: "10:00:00"}}); err != nil {
			return err
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("Transaction returned %v", err)
	}
	list, _ := flights.GetFlightsByOwner(ctx, owner.ID)
	total, _ := flights.CountRecordsByOwner(ctx, owner.ID)
	if len(list) != 0 || total != 0 {
		t.Errorf("rollback left %d flights and %d records", len(list), total)
	}
}

func TestFlightLifecycle(t *testing.T) {
	_, ops := openTestDatabase(t)
	owner := addUser(t, ops, "pilot")
	flights := ops.FlightOperation()
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var flight *operation.Flight
	err := flights.Transaction(ctx, func(tx operation.FlightOperationInterface) error {
		flight = tx.NewFlight(owner.ID, "trip.txt")
		if err := tx.SaveFlight(ctx, flight); err != nil {
			return err
		}
		records := make([]*operation.FlightRecord, 0, 250)
		for i := 0; i < 250; i++ {
			records = append(records, &operation.FlightRecord{FlightId: flight.ID, Time: "10:00:00", AltitudeM: f(float64(i))})
		}
		if err := tx.SaveRecordsBatch(ctx, records); err != nil {
			return err
		}
		flight.StartTime = &start
		flight.RecordCount = 250
		return tx.SaveFlight(ctx, flight)
	})
	if err != nil {
		t.Fatal(err)
	}

	records, err := flights.GetRecordsByFlight(ctx, flight.ID)
	if err != nil || len(records) != 250 || *records[249].AltitudeM != 249 || records[0].Latitude != nil {
		t.Fatalf("records = %d, %v", len(records), err)
	}
	if total, _ := flights.CountRecordsByOwner(ctx, owner.ID); total != 250 {
		t.Errorf("CountRecordsByOwner = %d", total)
	}

	err = flights.Transaction(ctx, func(tx operation.FlightOperationInterface) error {
		if err := tx.DeleteRecordsByFlight(ctx, flight.ID); err != nil {
			return err
		}
		return tx.DeleteFlight(ctx, flight)
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := flights.GetFlightById(ctx, flight.ID); !errors.Is(err, operation.ErrFlightNotFound) {
		t.Errorf("deleted flight lookup returned %v", err)
	}
	if err := flights.DeleteFlight(ctx, flight); !errors.Is(err, operation.ErrFlightNotFound) {
		t.Errorf("second delete returned %v", err)
	}
}

func TestFlightCascadeDelete(t *testing.T) {
	db, ops := openTestDatabase(t)
	owner := addUser(t, ops, "pilot")
	flights := ops.FlightOperation()
	ctx := context.Background()

	flight := flights.NewFlight(owner.ID, "cascade.txt")
	_ = flights.SaveFlight(ctx, flight)
	_ = flights.SaveRecordsBatch(ctx, []*operation.FlightRecord{{FlightId: flight.ID, Time: "10:00:00"}})
	if err := db.Delete(&operation.Flight{}, flight.ID).Error; err != nil {
		t.Fatal(err)
	}
	var count int64
	db.Model(&operation.FlightRecord{}).Count(&count)
	if count != 0 {
		t.Errorf("records survived flight delete: %d", count)
	}
}

func TestDevicePairing(t *testing.T) {
	_, ops := openTestDatabase(t)
	owner := addUser(t, ops, "pilot")
	other := addUser(t, ops, "other")
	devices := ops.DeviceOperation()
	ctx := context.Background()

	device := &operation.Device{DeviceId: "DEV_0123456789ab", DeviceKeyHash: "hash", PairingCode: "PAIR_abcdef0123"}
	if err := devices.AddDevice(ctx, device); err != nil {
		t.Fatal(err)
	}
	found, err := devices.GetDeviceByPairingCode(ctx, "PAIR_abcdef0123")
	if err != nil {
		t.Fatal(err)
	}
	if err := devices.PairDevice(ctx, found, owner.ID); err != nil {
		t.Fatal(err)
	}
	stale, _ := devices.GetDeviceByDeviceId(ctx, "DEV_0123456789ab")
	if !stale.OwnedBy(owner.ID) || stale.PairedAt == nil {
		t.Errorf("pairing not persisted: %+v", stale)
	}
	stale.OwnerId = nil
	if err := devices.PairDevice(ctx, stale, other.ID); !errors.Is(err, operation.ErrDeviceAlreadyPaired) {
		t.Errorf("second pairing returned %v", err)
	}
	if count, _ := devices.CountDevicesByOwner(ctx, owner.ID); count != 1 {
		t.Errorf("CountDevicesByOwner = %d", count)
	}
	if _, err := devices.GetDeviceByDeviceId(ctx, "DEV_ffffffffffff"); !errors.Is(err, operation.ErrDeviceNotFound) {
		t.Errorf("unknown device returned %v", err)
	}
	if _, err := devices.GetDeviceByPairingCode(ctx, "PAIR_0000000000"); !errors.Is(err, operation.ErrPairingCodeNotFound) {
		t.Errorf("unknown pairing code returned %v", err)
	}
}
