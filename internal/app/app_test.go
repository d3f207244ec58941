package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GoArmGo/UserService/internal/config"
	"github.com/GoArmGo/UserService/internal/database/memory"
	"github.com/GoArmGo/UserService/internal/domain"
	"github.com/GoArmGo/UserService/internal/logger"
	"github.com/GoArmGo/UserService/internal/messaging/payloads"
	"github.com/GoArmGo/UserService/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubUseCase реализует только проверку изображения; остальное не вызывается
type stubUseCase struct {
	usecase.UserUseCase
	verifyErr error
	verified  []int64
}

func (s *stubUseCase) VerifyRegistrationImage(_ context.Context, p payloads.UserRegisteredPayload) error {
	s.verified = append(s.verified, p.UserID)
	return s.verifyErr
}

type stubConsumer struct {
	started chan struct{}
	err     error
}

func (c *stubConsumer) StartConsumingUserRegistered(context.Context, func(context.Context, payloads.UserRegisteredPayload) error) error {
	if c.started != nil {
		close(c.started)
	}
	return c.err
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func testConfig() *config.Config {
	cfg := &config.Config{
		ServerPort:     "0",
		RequestTimeout: 5 * time.Second,
		MaxUploadBytes: 1 << 20,
		StorageBackend: config.StorageBackendMemory,
	}
	return cfg
}

func TestRun_UnknownMode(t *testing.T) {
	a := NewApp(testConfig(), logger.Discard(), memory.NewUserStorage(), &stubUseCase{}, nil)

	err := a.Run(context.Background(), "batch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestRun_WorkerRequiresRabbitMQ(t *testing.T) {
	a := NewApp(testConfig(), logger.Discard(), memory.NewUserStorage(), &stubUseCase{}, nil)

	err := a.Run(context.Background(), ModeWorker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RABBITMQ_URL")
}

func TestRun_MigrateRejectsMemoryBackend(t *testing.T) {
	a := NewApp(testConfig(), logger.Discard(), memory.NewUserStorage(), &stubUseCase{}, nil)

	err := a.Run(context.Background(), ModeMigrate)
	require.Error(t, err)
}

func TestRun_WorkerStopsOnCancel(t *testing.T) {
	uc := &stubUseCase{}
	consumer := &stubConsumer{started: make(chan struct{})}
	closed := false
	a := NewApp(testConfig(), logger.Discard(), memory.NewUserStorage(), uc, consumer,
		closerFunc(func() error { closed = true; return nil }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx, ModeWorker) }()

	select {
	case <-consumer.started:
	case <-time.After(time.Second):
		t.Fatal("consumer was not started")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
	assert.True(t, closed)
}

func TestRun_WorkerConsumerError(t *testing.T) {
	consumer := &stubConsumer{err: errors.New("channel closed")}
	a := NewApp(testConfig(), logger.Discard(), memory.NewUserStorage(), &stubUseCase{}, consumer)

	err := a.Run(context.Background(), ModeWorker)
	require.Error(t, err)
}

func TestRegistrationHandler(t *testing.T) {
	ctx := context.Background()

	uc := &stubUseCase{}
	require.NoError(t, registrationHandler(uc, logger.Discard())(ctx, payloads.UserRegisteredPayload{UserID: 1}))
	assert.Equal(t, []int64{1}, uc.verified)

	// отсутствующее изображение не возвращается в очередь
	uc.verifyErr = domain.ErrImageMissing
	assert.NoError(t, registrationHandler(uc, logger.Discard())(ctx, payloads.UserRegisteredPayload{UserID: 2}))

	uc.verifyErr = errors.New("s3 timeout")
	assert.Error(t, registrationHandler(uc, logger.Discard())(ctx, payloads.UserRegisteredPayload{UserID: 3}))
}

func TestShutdown_ClosesInReverseOrder(t *testing.T) {
	var order []string
	a := NewApp(testConfig(), logger.Discard(), nil, nil, nil,
		closerFunc(func() error { order = append(order, "db"); return nil }),
		closerFunc(func() error { order = append(order, "rabbitmq"); return errors.New("already closed") }),
	)

	err := a.Shutdown()
	require.Error(t, err)
	assert.Equal(t, []string{"rabbitmq", "db"}, order)

	// повторный вызов ничего не закрывает
	require.NoError(t, a.Shutdown())
}

func TestNewRouter_Healthz(t *testing.T) {
	router := NewRouter(testConfig(), &stubUseCase{}, memory.NewUserStorage(), logger.Discard())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
