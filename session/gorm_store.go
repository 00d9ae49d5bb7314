package session

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sessionRecord struct {
	Token  string    `gorm:"primaryKey;size:64"`
	Data   []byte    `gorm:"not null"`
	Expiry time.Time `gorm:"not null;index"`
}

func (sessionRecord) TableName() string { return "sessions" }

// GormStore implements scs.Store on the application database. Expired rows
// are purged by a background sweep until Close is called.
type GormStore struct {
	db   *gorm.DB
	stop chan struct{}
}

// NewGormStore migrates the sessions table and starts the sweep. A
// non-positive interval disables the sweep.
func NewGormStore(db *gorm.DB, cleanupInterval time.Duration) (*GormStore, error) {
	if err := db.AutoMigrate(&sessionRecord{}); err != nil {
		return nil, err
	}
	s := &GormStore{db: db, stop: make(chan struct{})}
	if cleanupInterval > 0 {
		go s.sweep(cleanupInterval)
	}
	return s, nil
}

func (s *GormStore) Find(token string) ([]byte, bool, error) {
	var rec sessionRecord
	err := s.db.Where("token = ? AND expiry > ?", token, time.Now().UTC()).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return rec.Data, true, nil
}

func (s *GormStore) Commit(token string, b []byte, expiry time.Time) error {
	rec := sessionRecord{Token: token, Data: b, Expiry: expiry.UTC()}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expiry"}),
	}).Create(&rec).Error
}

func (s *GormStore) Delete(token string) error {
	return s.db.Where("token = ?", token).Delete(&sessionRecord{}).Error
}

// DeleteExpired removes every session past its expiry.
func (s *GormStore) DeleteExpired() error {
	return s.db.Where("expiry <= ?", time.Now().UTC()).Delete(&sessionRecord{}).Error
}

func (s *GormStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.DeleteExpired(); err != nil {
				logger.Warn().Err(err).Msg("session sweep failed")
			}
		case <-s.stop:
			return
		}
	}
}

func (s *GormStore) Close() error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	return nil
}
