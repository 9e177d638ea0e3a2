package audit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/intelshare/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_String(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "allowed",
			rec:  Record{Actor: "alice", Action: "view", EventID: 7, Allowed: true},
			want: `User "alice" can perform action "view" on event "7"`,
		},
		{
			name: "denied",
			rec:  Record{Actor: "bob", Action: "delete", EventID: 7},
			want: `User "bob" is not allowed to perform action "delete" on event "7"`,
		},
		{
			name: "item with reason",
			rec:  Record{Actor: "anonymous", Action: "view", EventID: 7, ItemID: 3, Reason: "tlp"},
			want: `User "anonymous" is not allowed to perform action "view" on event "7" for item 3 (tlp)`,
		},
		{
			name: "user level check",
			rec:  Record{Actor: "bob", Action: "admin", Reason: "not privileged"},
			want: `User "bob" is not allowed to perform action "admin" (not privileged)`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.String())
		})
	}
}

type recordingSink struct {
	got []Record
	err error
}

func (s *recordingSink) Write(_ context.Context, r Record) error {
	s.got = append(s.got, r)
	return s.err
}

func TestMulti_WritesEverySinkAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a, b := &recordingSink{err: boom}, &recordingSink{}

	err := Multi(a, b, Discard).Write(context.Background(), Record{Action: "view"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)

	assert.NoError(t, Multi().Write(context.Background(), Record{}))
}

func TestLogSink_LevelsByOutcome(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	sink := NewLogSink(log)
	ctx := context.Background()

	require.NoError(t, sink.Write(ctx, Record{Actor: "alice", Action: "view", EventID: 1, Allowed: true}))
	require.NoError(t, sink.Write(ctx, Record{Actor: "bob", Action: "modify", EventID: 1, ItemID: 4, SessionID: "s1"}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "level=INFO")
	assert.Contains(t, lines[0], "module=audit")
	assert.Contains(t, lines[0], "allowed=true")
	assert.Contains(t, lines[1], "level=WARN")
	assert.Contains(t, lines[1], "item_id=4")
	assert.Contains(t, lines[1], "session=s1")
}

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, _ := io.ReadAll(in.Body)
	f.inputs = append(f.inputs, in)
	f.bodies = append(f.bodies, string(b))
	return &s3.PutObjectOutput{}, nil
}

func fixClock(t *testing.T) {
	t.Helper()
	orig := now
	now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })
}

func TestS3Archive_UploadsFullBatches(t *testing.T) {
	fixClock(t)
	up := &fakeUploader{}
	a := NewS3Archive(up, "audit", "/decisions/", 2)
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, Record{Actor: "alice", Action: "view", EventID: 1, Allowed: true}))
	assert.Empty(t, up.inputs)
	assert.Equal(t, 1, a.Pending())

	require.NoError(t, a.Write(ctx, Record{Actor: "bob", Action: "view", EventID: 1}))
	require.Len(t, up.inputs, 1)
	assert.Equal(t, 0, a.Pending())

	in := up.inputs[0]
	assert.Equal(t, "audit", aws.ToString(in.Bucket))
	assert.True(t, strings.HasPrefix(aws.ToString(in.Key), "decisions/2024/3/9/"))
	assert.True(t, strings.HasSuffix(aws.ToString(in.Key), ".log"))

	lines := strings.Split(strings.TrimSpace(up.bodies[0]), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `2024-03-09T10:00:00Z User "alice" can perform action "view" on event "1"`, lines[0])
}

func TestS3Archive_FlushKeepsBufferOnFailure(t *testing.T) {
	fixClock(t)
	up := &fakeUploader{err: errors.New("offline")}
	a := NewS3Archive(up, "audit", "", 10)
	ctx := context.Background()

	require.NoError(t, a.Write(ctx, Record{Action: "view"}))
	err := a.Flush(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit upload 2024/3/9/")
	assert.Equal(t, 1, a.Pending())

	up.err = nil
	require.NoError(t, a.Flush(ctx))
	assert.Equal(t, 0, a.Pending())
	require.Len(t, up.inputs, 1)

	require.NoError(t, a.Flush(ctx))
	assert.Len(t, up.inputs, 1, "empty flush uploads nothing")
}

func TestNewS3Client(t *testing.T) {
	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })

	loadDefaultAWSConfig = func(context.Context, ...func(*config.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}
	_, err := NewS3Client(context.Background(), S3Settings{Region: "us-east-1"})
	require.Error(t, err)

	loadDefaultAWSConfig = orig
	c, err := NewS3Client(context.Background(), S3Settings{
		Region:       "us-east-1",
		AccessKey:    "key",
		SecretKey:    "secret",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:9000/", aws.ToString(c.Options().BaseEndpoint))
	assert.True(t, c.Options().UsePathStyle)
}
