package handlers

import (
	"context"
	"net/http"
	"time"

	relaygov "relay_governor"
	"relay_governor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockRelay struct {
	onErr       error
	offErr      error
	toggleErr   error
	onCalls     int
	offCalls    int
	toggleCalls int
}

func (m *mockRelay) TurnOn(ctx context.Context) error {
	m.onCalls++
	return m.onErr
}
func (m *mockRelay) TurnOff(ctx context.Context) error {
	m.offCalls++
	return m.offErr
}
func (m *mockRelay) Toggle(ctx context.Context) error {
	m.toggleCalls++
	return m.toggleErr
}

type mockMonitoring struct {
	state relaygov.RelaySnapshot
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (relaygov.RelaySnapshot, error) {
	return m.state, m.err
}

type mockEventLog struct {
	resp     []relaygov.RelayEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
}

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]relaygov.RelayEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
