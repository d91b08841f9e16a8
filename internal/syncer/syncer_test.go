package syncer

import (
	"context"
	"errors"
	"os"
	"testing"

	"tinytreats/internal/cloud"
	"tinytreats/internal/model"
	"tinytreats/pkg/config"
	"tinytreats/pkg/database"
	"tinytreats/prometheus"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{
		Metrics: config.MetricsConfig{Prefix: "syncertest"},
	})
	os.Exit(m.Run())
}

// fakeStore is an in-memory stand-in for the cloud datastore
type fakeStore struct {
	enabled bool
	pending []cloud.Order
	fetchEr error
	synced  []string
}

func (f *fakeStore) Enabled() bool                                        { return f.enabled }
func (f *fakeStore) InsertOrder(ctx context.Context, o cloud.Order) error { return nil }
func (f *fakeStore) PendingOrders(ctx context.Context) ([]cloud.Order, error) {
	return f.pending, f.fetchEr
}
func (f *fakeStore) MarkSynced(ctx context.Context, id string) error {
	f.synced = append(f.synced, id)
	return nil
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestRunSkipsWhenStoreDisabled(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{enabled: false}

	if err := New(db, store, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&model.SyncLog{}).Count(&count)
	if count != 0 {
		t.Error("a disabled store must not produce sync logs")
	}
}

func TestRunImportsPendingOrders(t *testing.T) {
	db := newTestDB(t)
	db.Create(&model.Product{Name: "Birthday Surprise Box", Price: 2500, Stock: 10})

	store := &fakeStore{
		enabled: true,
		pending: []cloud.Order{{
			ID:           "cloud_abc",
			CustomerName: "Ali",
			Phone:        "923001234567",
			TotalPrice:   5000,
			Status:       "pending",
			Items: []cloud.OrderItem{
				{Name: "Birthday Surprise Box", Quantity: 2, Price: 2500},
			},
		}},
	}

	if err := New(db, store, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var order model.Order
	if result := db.Preload("Items").First(&order, "cloud_id = ?", "cloud_abc"); result.Error != nil {
		t.Fatalf("order not imported: %v", result.Error)
	}
	if order.Status != model.StatusPending {
		t.Errorf("imported orders start pending, got %q", order.Status)
	}
	if len(order.Items) != 1 || order.Items[0].ProductID != 1 {
		t.Errorf("item not matched to the local product: %+v", order.Items)
	}

	if len(store.synced) != 1 || store.synced[0] != "cloud_abc" {
		t.Errorf("imported order must be marked synced, got %v", store.synced)
	}

	var log model.SyncLog
	if result := db.First(&log); result.Error != nil {
		t.Fatalf("sync log not written: %v", result.Error)
	}
	if log.Status != "success" || log.OrdersSynced != 1 {
		t.Errorf("unexpected sync log: %+v", log)
	}
}

func TestRunSkipsAlreadySyncedOrders(t *testing.T) {
	db := newTestDB(t)
	db.Create(&model.Order{CloudID: "cloud_abc", CustomerName: "Ali", Phone: "0300111", Total: 5000})

	store := &fakeStore{
		enabled: true,
		pending: []cloud.Order{{ID: "cloud_abc", CustomerName: "Ali", TotalPrice: 5000}},
	}

	if err := New(db, store, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int64
	db.Model(&model.Order{}).Count(&count)
	if count != 1 {
		t.Errorf("expected no duplicate import, got %d orders", count)
	}
	if len(store.synced) != 0 {
		t.Errorf("a skipped order must not be re-marked, got %v", store.synced)
	}
}

func TestRunImportsOrderWithUnknownProduct(t *testing.T) {
	db := newTestDB(t)

	store := &fakeStore{
		enabled: true,
		pending: []cloud.Order{{
			ID:           "cloud_xyz",
			CustomerName: "Sara",
			TotalPrice:   800,
			Items:        []cloud.OrderItem{{Name: "Discontinued Treat", Quantity: 1, Price: 800}},
		}},
	}

	if err := New(db, store, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The order itself imports; only the unmatched line is dropped
	var order model.Order
	if result := db.Preload("Items").First(&order, "cloud_id = ?", "cloud_xyz"); result.Error != nil {
		t.Fatalf("order not imported: %v", result.Error)
	}
	if len(order.Items) != 0 {
		t.Errorf("unmatched items must be skipped, got %+v", order.Items)
	}
}

func TestRunRecordsFetchFailure(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{enabled: true, fetchEr: errors.New("datastore unreachable")}

	if err := New(db, store, zap.NewNop()).Run(context.Background()); err == nil {
		t.Fatal("expected the fetch error to propagate")
	}

	var log model.SyncLog
	if result := db.First(&log); result.Error != nil {
		t.Fatalf("failure log not written: %v", result.Error)
	}
	if log.Status != "failure" || log.ErrorMessage != "datastore unreachable" {
		t.Errorf("unexpected sync log: %+v", log)
	}
}
