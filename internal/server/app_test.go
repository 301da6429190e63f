package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = ""
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.BcryptCost = 4
	return c
}

func TestNewApp_InMemory(t *testing.T) {
	var logs bytes.Buffer
	app, err := newApp(context.Background(), memoryConfig(), &logs)
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.db)
	assert.Nil(t, app.redis)
	assert.Contains(t, logs.String(), "accounts are kept in memory")

	ctx := context.Background()
	_, err = app.userService.Signup(ctx, services.SignupRequest{Username: "alice", Password: "s3cretpw", Email: "a@x.io"})
	require.NoError(t, err)
	s, err := app.userService.Login(ctx, services.LoginRequest{Username: "alice", Password: "s3cretpw"})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, time.Minute)
}

func TestNewApp_RedisRegistry(t *testing.T) {
	mr := miniredis.RunT(t)

	c := memoryConfig()
	c.RedisAddr = mr.Addr()

	app, err := newApp(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)
	defer app.Close()
	require.NotNil(t, app.redis)

	ctx := context.Background()
	_, err = app.userService.Signup(ctx, services.SignupRequest{Username: "bob", Password: "s3cretpw", Email: "b@x.io"})
	require.NoError(t, err)
	s, err := app.userService.Login(ctx, services.LoginRequest{Username: "bob", Password: "s3cretpw"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("auth:session:"+s.Token))
}

func TestNewApp_Errors(t *testing.T) {
	c := memoryConfig()
	c.LogLevel = "chatty"
	_, err := newApp(context.Background(), c, &bytes.Buffer{})
	assert.Error(t, err)

	c = memoryConfig()
	c.PasswordHashAlgorithm = "md5"
	_, err = newApp(context.Background(), c, &bytes.Buffer{})
	assert.Error(t, err)

	c = memoryConfig()
	c.RedisAddr = "127.0.0.1:1"
	_, err = newApp(context.Background(), c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "redis init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	var logs bytes.Buffer
	app, err := newApp(context.Background(), memoryConfig(), &logs)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.Contains(t, logs.String(), "App stopped")
}
