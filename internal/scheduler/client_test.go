package scheduler

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

type testSchedulerConfig struct {
	redisURL string
	queue    string
}

func (c testSchedulerConfig) GetRedisURL() string             { return c.redisURL }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool       { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string       { return c.queue }
func (c testSchedulerConfig) GetAsynqConcurrency() int        { return 1 }
func (c testSchedulerConfig) GetFollowUpDelay() time.Duration { return time.Hour }

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatalf("expected an error without a redis url")
	}
}

func TestNewClientAgainstRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{redisURL: "redis://" + mr.Addr(), queue: "intake"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer func() {
		_ = client.Close()
	}()

	if client.queue != "intake" {
		t.Fatalf("expected configured queue name, got %q", client.queue)
	}
}

func TestRedisClientOpt(t *testing.T) {
	opt, err := redisClientOpt("redis://:secret@localhost:6380/2", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opt.Addr)
	}
	if opt.Password != "secret" {
		t.Fatalf("unexpected password %q", opt.Password)
	}
	if opt.DB != 2 {
		t.Fatalf("unexpected db %d", opt.DB)
	}
	if opt.TLSConfig != nil {
		t.Fatalf("expected no TLS config for redis scheme")
	}
}

func TestRedisClientOptTLSInsecure(t *testing.T) {
	opt, err := redisClientOpt("rediss://localhost:6380", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.TLSConfig == nil || !opt.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected insecure TLS config to be applied")
	}
}
