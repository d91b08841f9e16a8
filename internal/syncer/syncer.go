package syncer

import (
	"context"
	"time"

	"tinytreats/internal/cloud"
	"tinytreats/internal/model"
	"tinytreats/prometheus"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Syncer pulls externally placed orders from the cloud datastore into
// the local database
type Syncer struct {
	db    *gorm.DB
	store cloud.Store
	log   *zap.Logger
}

// New creates a Syncer
func New(db *gorm.DB, store cloud.Store, log *zap.Logger) *Syncer {
	return &Syncer{db: db, store: store, log: log}
}

// Run performs one sync pass. Orders already present locally (matched
// by cloud id) are skipped; per-order failures are logged and skipped
// so one bad row never aborts the run.
func (s *Syncer) Run(ctx context.Context) error {
	if !s.store.Enabled() {
		s.log.Info("Sync skipped: cloud datastore not configured")
		return nil
	}

	s.log.Info("Starting cloud order sync")

	cloudOrders, err := s.store.PendingOrders(ctx)
	if err != nil {
		s.log.Error("Failed to fetch pending cloud orders", zap.Error(err))
		s.recordLog(0, "failure", err.Error())
		prometheus.RecordSyncRun("failure")
		return err
	}

	if len(cloudOrders) == 0 {
		s.log.Info("No pending cloud orders found")
		prometheus.RecordSyncRun("success")
		return nil
	}

	synced := 0
	for _, co := range cloudOrders {
		// Skip orders already synced
		var existing model.Order
		result := s.db.Where("cloud_id = ?", co.ID).First(&existing)
		if result.Error == nil {
			continue
		}

		if err := s.importOrder(ctx, co); err != nil {
			s.log.Error("Error syncing order",
				zap.String("cloud_id", co.ID),
				zap.Error(err))
			continue
		}

		synced++
		prometheus.SyncedOrdersCounter.Inc()
		s.log.Info("Synced order", zap.String("cloud_id", co.ID))
	}

	s.recordLog(synced, "success", "")
	prometheus.RecordSyncRun("success")
	s.log.Info("Cloud order sync finished", zap.Int("orders_synced", synced))
	return nil
}

func (s *Syncer) importOrder(ctx context.Context, co cloud.Order) error {
	createdAt := co.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order := model.Order{
			CloudID:      co.ID,
			CustomerName: co.CustomerName,
			Phone:        co.Phone,
			Total:        co.TotalPrice,
			Status:       model.StatusPending,
			CreatedAt:    createdAt,
		}
		if result := tx.Create(&order); result.Error != nil {
			return result.Error
		}

		for _, item := range co.Items {
			// Cloud items carry product names; match them to local products
			var product model.Product
			result := tx.Where("name = ?", item.Name).First(&product)
			if result.Error != nil {
				s.log.Warn("Cloud order item has no matching product",
					zap.String("cloud_id", co.ID),
					zap.String("product_name", item.Name))
				continue
			}

			orderItem := model.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  item.Quantity,
				UnitPrice: item.Price,
			}
			if result := tx.Create(&orderItem); result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	return s.store.MarkSynced(ctx, co.ID)
}

func (s *Syncer) recordLog(count int, status, errMsg string) {
	log := model.SyncLog{
		Timestamp:    time.Now().UTC(),
		OrdersSynced: count,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if result := s.db.Create(&log); result.Error != nil {
		s.log.Error("Failed to record sync log", zap.Error(result.Error))
	}
}
