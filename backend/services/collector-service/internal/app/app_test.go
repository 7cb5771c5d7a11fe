package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"multisib/backend/services/collector-service/internal/config"
)

func unreachableConfig(httpPort string) *config.Config {
	return &config.Config{
		Endpoint: config.Endpoint{AddressIP: "127.0.0.1", Port: "1", APIKey: "k"},
		Database: config.Database{Host: "127.0.0.1", Port: "1", User: "sib", Database: "energy", Table: "multisib", SSLMode: "disable"},
		Poll:     config.Poll{Interval: 10 * time.Millisecond, RequestTimeout: 200 * time.Millisecond},
		HTTP:     config.HTTP{Port: httpPort},
	}
}

func TestNew_ToleratesUnreachableDatabase(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	a, err := New(unreachableConfig(""), zap.New(core))
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.db)
	assert.Nil(t, a.server)
	assert.Equal(t, 1, logs.FilterMessage("error while connecting to the database").Len())

	entries := logs.FilterMessage("collector initialised").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "http://127.0.0.1:1/?GetLiveData&APIKey=***", entries[0].ContextMap()["endpoint"])
}

func TestRun_StopsOnCancel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	a, err := New(unreachableConfig(":0"), zap.New(core))
	require.NoError(t, err)
	defer a.Close()
	require.NotNil(t, a.server)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	err = a.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, logs.FilterMessage("failed to fetch live data").Len(), 1)
	assert.Equal(t, 1, logs.FilterMessage("interrupt received, stopping poller").Len())
}

func TestNew_InvalidEndpoint(t *testing.T) {
	cfg := unreachableConfig("")
	cfg.Endpoint.AddressIP = ""

	_, err := New(cfg, zap.NewNop())
	assert.Error(t, err)
}
