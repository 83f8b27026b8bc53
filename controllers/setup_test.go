package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Kariqs/lawlaw-api/initializers"
	"github.com/Kariqs/lawlaw-api/models"
	"github.com/Kariqs/lawlaw-api/routes"
	"github.com/Kariqs/lawlaw-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "controller-secret"

type fakeMailer struct {
	mu   sync.Mutex
	sent []utils.EmailData
}

func (m *fakeMailer) SendEmail(_, _ string, data utils.EmailData, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, data)
	return nil
}

func (m *fakeMailer) lastCode(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent, "no email sent")
	return m.sent[len(m.sent)-1].Code
}

type recordingPublisher struct {
	mu    sync.Mutex
	names []string
}

func (p *recordingPublisher) Publish(_ context.Context, _, name string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names = append(p.names, name)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	mailer *fakeMailer
	relay  *recordingPublisher
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, initializers.Migrate(db))
	t.Cleanup(func() { _ = sqlDB.Close() })

	env := &testEnv{t: t, db: db, mailer: &fakeMailer{}, relay: &recordingPublisher{}}
	initializers.DB = db
	initializers.Mailer = env.mailer
	initializers.Relay = env.relay
	initializers.Redis = nil
	initializers.Storage = nil
	initializers.Config = initializers.AppConfig{
		JWTSecret:          testSecret,
		JWTTTL:             time.Hour,
		CancellationPolicy: "immediate",
		OTPTTL:             10 * time.Minute,
		OTPMaxAttempts:     5,
	}

	env.router = gin.New()
	routes.Register(env.router)
	return env
}

func (e *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// user creates a verified account and returns it with a signed token.
func (e *testEnv) user(role, email string) (models.User, string) {
	e.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	require.NoError(e.t, err)
	u := models.User{Fullname: role + " user", Email: email, Password: string(hash), Role: role, EmailVerified: true}
	require.NoError(e.t, e.db.Create(&u).Error)
	token, err := utils.GenerateJWT(u.ID, u.Email, u.Role, testSecret, time.Hour)
	require.NoError(e.t, err)
	return u, token
}

func (e *testEnv) product(sellerID uint, price string, stock int) models.Product {
	e.t.Helper()
	p := models.Product{SellerID: sellerID, Name: "Ube Halaya", Category: "jam", Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(e.t, e.db.Create(&p).Error)
	return p
}

func path(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

type orderResponse struct {
	Message string       `json:"message"`
	Order   models.Order `json:"order"`
}

type messageResponse struct {
	Message string `json:"message"`
}
