package services

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/smartorder/backend/models"
	"github.com/smartorder/backend/store"
	"github.com/smartorder/backend/utils"
)

// PresenceRequestTracker mengelola permintaan bantuan staff satu meja.
// Send sengaja tidak mengecek request pending yang sudah ada: eksklusivitas
// dijaga di caller lewat subscription, bukan oleh server.
type PresenceRequestTracker struct {
	DB    *gorm.DB
	Store *store.Store
}

func NewPresenceRequestTracker(db *gorm.DB, st *store.Store) *PresenceRequestTracker {
	return &PresenceRequestTracker{DB: db, Store: st}
}

// Send membuat HelpRequest baru berstatus pending.
func (pt *PresenceRequestTracker) Send(sess models.TableSession, reason string) (models.HelpRequest, error) {
	request := models.HelpRequest{
		RestaurantID: sess.RestaurantID,
		TableID:      sess.TableID,
		UserName:     sess.UserName,
		Reason:       reason,
		Status:       models.RequestStatusPending,
		CreatedAt:    time.Now().UTC(),
	}

	if err := pt.DB.Create(&request).Error; err != nil {
		return models.HelpRequest{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	if err := pt.Store.RecordChange(store.CollectionRequests, sess.RestaurantID, sess.TableID); err != nil {
		utils.ErrorLogger.Printf("Error recording request change: %v", err)
	}

	return request, nil
}

// Pending mengembalikan request pending pertama milik meja, atau nil.
// Kalau ada lebih dari satu (race dua Send beruntun), yang pertama dipakai
// dan sisanya menunggu diselesaikan staff.
func (pt *PresenceRequestTracker) Pending(restaurantID, tableID string) (*models.HelpRequest, error) {
	var requests []models.HelpRequest
	err := pt.DB.
		Where("restaurant_id = ? AND table_id = ? AND status = ?",
			restaurantID, tableID, models.RequestStatusPending).
		Order("created_at ASC").
		Limit(1).
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// Watch -> stream snapshot request pending meja ini.
func (pt *PresenceRequestTracker) Watch(restaurantID, tableID string) *store.Subscription {
	return pt.Store.Subscribe(store.Query{
		Collection:   store.CollectionRequests,
		RestaurantID: restaurantID,
		TableID:      tableID,
		PendingOnly:  true,
	})
}

// Attend menandai request sudah dilayani (jalur staff).
func (pt *PresenceRequestTracker) Attend(requestID uint) (models.HelpRequest, error) {
	var request models.HelpRequest
	if err := pt.DB.First(&request, requestID).Error; err != nil {
		return models.HelpRequest{}, err
	}

	request.Status = models.RequestStatusAttended
	if err := pt.DB.Save(&request).Error; err != nil {
		return models.HelpRequest{}, fmt.Errorf("%w: %v", ErrTransientWrite, err)
	}

	if err := pt.Store.RecordChange(store.CollectionRequests, request.RestaurantID, request.TableID); err != nil {
		utils.ErrorLogger.Printf("Error recording request change: %v", err)
	}

	return request, nil
}

// FormatElapsed -> tampilan "MM:SS" dari umur request.
func FormatElapsed(createdAt, now time.Time) string {
	diff := now.Sub(createdAt)
	if diff < 0 {
		diff = 0
	}
	return utils.FormatElapsedClock(int(diff.Seconds()))
}

// ElapsedTicker menghitung ulang tampilan elapsed tiap detik selama satu
// request pending terlihat. Terikat ke lifetime request: Stop wajib
// dipanggil saat request hilang, dan tampilan kembali ke "00:00".
type ElapsedTicker struct {
	C chan string

	createdAt time.Time
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewElapsedTicker(createdAt time.Time) *ElapsedTicker {
	t := &ElapsedTicker{
		C:         make(chan string, 1),
		createdAt: createdAt,
		stop:      make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *ElapsedTicker) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	emit := func(v string) {
		select {
		case t.C <- v:
		default:
			select {
			case <-t.C:
			default:
			}
			select {
			case t.C <- v:
			default:
			}
		}
	}

	emit(FormatElapsed(t.createdAt, time.Now()))
	for {
		select {
		case <-ticker.C:
			emit(FormatElapsed(t.createdAt, time.Now()))
		case <-t.stop:
			emit("00:00")
			close(t.C)
			return
		}
	}
}

// Stop menghentikan ticker dan mengembalikan tampilan ke nol. Aman
// dipanggil lebih dari sekali.
func (t *ElapsedTicker) Stop() {
	t.stopOnce.Do(func() {
		close(t.stop)
	})
}
