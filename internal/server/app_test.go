package server

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/intelshare/internal/audit"
	"github.com/dmitrijs2005/intelshare/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.LogLevel = "error"
	return c
}

func stubDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	prev := openDB
	openDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = prev })
	return mock
}

func stubS3(t *testing.T) *fakeUploader {
	t.Helper()
	up := &fakeUploader{}
	prev := newS3Client
	newS3Client = func(context.Context, audit.S3Settings) (audit.Uploader, error) { return up, nil }
	t.Cleanup(func() { newS3Client = prev })
	return up
}

func TestNewApp_DBError(t *testing.T) {
	prev := openDB
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("boom") }
	t.Cleanup(func() { openDB = prev })

	_, err := NewApp(context.Background(), testConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_MemorySessionsNoArchive(t *testing.T) {
	stubDB(t)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)
	assert.Nil(t, app.redis)
	assert.Nil(t, app.archive)
	assert.NotNil(t, app.server)
}

func TestNewApp_RedisSessions(t *testing.T) {
	stubDB(t)
	mr := miniredis.RunT(t)

	c := testConfig()
	c.SessionBackend = "redis"
	c.RedisAddr = mr.Addr()

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, app.redis)
	_ = app.redis.Close()
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mock := stubDB(t)
	mock.ExpectClose()

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	c := testConfig()
	c.SessionBackend = "redis"
	c.RedisAddr = addr

	_, err := NewApp(context.Background(), c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session init error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunStopsAndFlushesArchive(t *testing.T) {
	mock := stubDB(t)
	mock.ExpectClose()
	up := stubS3(t)

	c := testConfig()
	c.AuditBucket = "decisions"
	c.AuditBatchSize = 10

	app, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, app.archive)

	require.NoError(t, app.archive.Write(context.Background(), audit.Record{Actor: "alice", Action: "view", EventID: 1, Allowed: true}))
	require.Equal(t, 1, app.archive.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	app.Run(ctx)

	assert.Equal(t, 0, app.archive.Pending())
	up.mu.Lock()
	assert.Len(t, up.keys, 1)
	up.mu.Unlock()
	assert.NoError(t, mock.ExpectationsWereMet())
}
