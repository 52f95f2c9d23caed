package resultlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ruslano69/gssdash/pkg/etl"
)

func newTestPublisher(t *testing.T, ttl int) (*RedisPublisher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	p := NewRedisPublisher(etl.ResultLogConfig{
		Type:    "redis",
		Address: mr.Addr(),
		Name:    "GSS_2018",
		TTL:     ttl,
	})
	t.Cleanup(func() { p.Close() })
	return p, mr
}

func testStats() Stats {
	start := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	return Stats{
		StartTime:      start,
		EndTime:        start.Add(1500 * time.Millisecond),
		RowsLoaded:     2348,
		Artifacts:      6,
		SourceChecksum: "a1b2c3d4e5f60718",
	}
}

func TestPublish_Success(t *testing.T) {
	p, mr := newTestPublisher(t, 600)

	if err := p.Publish(context.Background(), "gssdash", testStats(), nil); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	raw, err := mr.Get("gssdash:build:GSS_2018:state")
	if err != nil {
		t.Fatalf("state key not set: %v", err)
	}

	var result BuildResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Status != "success" {
		t.Errorf("Status = %q, want success", result.Status)
	}
	if result.DurationMs != 1500 {
		t.Errorf("DurationMs = %d, want 1500", result.DurationMs)
	}
	if result.RowsLoaded != 2348 || result.Artifacts != 6 {
		t.Errorf("unexpected stats: %+v", result)
	}
	if result.Error != nil {
		t.Errorf("Error = %q, want nil", *result.Error)
	}

	if ttl := mr.TTL("gssdash:build:GSS_2018:state"); ttl != 600*time.Second {
		t.Errorf("TTL = %v, want 10m", ttl)
	}
}

func TestPublish_FailureAndDefaultTTL(t *testing.T) {
	p, mr := newTestPublisher(t, 0)

	buildErr := errors.New("source 'gss': resource unavailable")
	if err := p.Publish(context.Background(), "gssdash", testStats(), buildErr); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	raw, _ := mr.Get(p.StateKey())
	var result BuildResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result.Status != "failed" || result.Error == nil || *result.Error != buildErr.Error() {
		t.Errorf("unexpected failure result: %+v", result)
	}

	if ttl := mr.TTL(p.StateKey()); ttl != defaultTTL {
		t.Errorf("TTL = %v, want %v", ttl, defaultTTL)
	}
}

func TestPublish_Event(t *testing.T) {
	p, mr := newTestPublisher(t, 60)
	ctx := context.Background()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	sub := rdb.Subscribe(ctx, p.Channel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := p.Publish(ctx, "gssdash", testStats(), nil); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case msg := <-sub.Channel():
		var result BuildResult
		if err := json.Unmarshal([]byte(msg.Payload), &result); err != nil {
			t.Fatalf("invalid event payload: %v", err)
		}
		if result.ResultName != "GSS_2018" {
			t.Errorf("ResultName = %q", result.ResultName)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("событие не получено")
	}
}

func TestPublish_RedisDown(t *testing.T) {
	p, mr := newTestPublisher(t, 60)
	mr.Close()

	if err := p.Publish(context.Background(), "gssdash", testStats(), nil); err == nil {
		t.Error("expected error when Redis is unavailable")
	}
}
