package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/utils"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to :memory: is a new database.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, initializers.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type published struct {
	Channel string
	Name    string
	Data    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, channel, name string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{Channel: channel, Name: name, Data: data})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) channels(name string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		if e.Name == name {
			out = append(out, e.Channel)
		}
	}
	return out
}

type sentMail struct {
	To      string
	Subject string
	Data    utils.EmailData
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendEmail(emailTo, emailSubject string, data utils.EmailData, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: emailTo, Subject: emailSubject, Data: data})
	return nil
}

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, m.sent, "no email sent")
	return m.sent[len(m.sent)-1].Data.Code
}

var errRelayDown = errors.New("relay down")

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *clock {
	return &clock{now: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func seedProduct(t *testing.T, db *gorm.DB, sellerID uint, name, price string, stock int) models.Product {
	t.Helper()
	p := models.Product{
		SellerID: sellerID,
		Name:     name,
		Category: "pastry",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func stockOf(t *testing.T, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, productID).Error)
	return p.Stock
}

func historyOf(t *testing.T, db *gorm.DB, orderID uint) []models.TrackingHistory {
	t.Helper()
	var rows []models.TrackingHistory
	require.NoError(t, db.Where("order_id = ?", orderID).Order("id ASC").Find(&rows).Error)
	return rows
}
