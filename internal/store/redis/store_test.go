package redis

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/startpage/internal/store/storetest"
)

// Set STARTPAGE_TEST_REDIS_ADDR (e.g. localhost:6379) to run against a
// real server.
func TestStore(t *testing.T) {
	addr := os.Getenv("STARTPAGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("STARTPAGE_TEST_REDIS_ADDR not set")
	}

	client := goredis.NewClient(&goredis.Options{Addr: addr})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	prefix := "startpage-test:" + time.Now().Format("150405.000000") + ":"
	s := NewStore(client, prefix)
	t.Cleanup(func() { _ = s.Close() })

	storetest.Run(t, s)
}

func TestStoreKeyPrefix(t *testing.T) {
	s := NewStore(nil, "tenant-a:")
	if got := s.key("startpage:data"); got != "tenant-a:startpage:data" {
		t.Errorf("key() = %q, want tenant-a:startpage:data", got)
	}
}
