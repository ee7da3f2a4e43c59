// Package redis dials the Redis server used by the redis local store,
// waiting for it to come up during container start-up.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/startpage/internal/logger"
)

// Options configures the client and the start-up wait.
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
	PoolSize int
	// IOTimeout applies to dial, read and write.
	IOTimeout time.Duration

	// WaitFor bounds the whole connection attempt.
	WaitFor time.Duration
	// Backoff starts at FirstRetry and doubles up to MaxRetry.
	FirstRetry time.Duration
	MaxRetry   time.Duration
	// QuietAttempts failed pings are logged at warn, later ones at error.
	QuietAttempts int
}

func (o Options) withDefaults() Options {
	if o.IOTimeout <= 0 {
		o.IOTimeout = 3 * time.Second
	}
	if o.WaitFor <= 0 {
		o.WaitFor = 30 * time.Second
	}
	if o.FirstRetry <= 0 {
		o.FirstRetry = 500 * time.Millisecond
	}
	if o.MaxRetry < o.FirstRetry {
		o.MaxRetry = o.FirstRetry
	}
	if o.QuietAttempts <= 0 {
		o.QuietAttempts = 3
	}
	return o
}

// backoff yields exponentially growing, capped delays.
type backoff struct {
	next, max time.Duration
}

func (b *backoff) delay() time.Duration {
	d := b.next
	b.next *= 2
	if b.next > b.max {
		b.next = b.max
	}
	return d
}

// Connect returns a client once PING succeeds, retrying with backoff until
// opts.WaitFor elapses or ctx is done.
func Connect(ctx context.Context, opts Options, log logger.Logger) (*redis.Client, error) {
	opts = opts.withDefaults()
	log = log.With(logger.String("addr", opts.Addr))

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		DialTimeout:  opts.IOTimeout,
		ReadTimeout:  opts.IOTimeout,
		WriteTimeout: opts.IOTimeout,
	})

	if err := waitReady(ctx, client, opts, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func waitReady(ctx context.Context, client *redis.Client, opts Options, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, opts.WaitFor)
	defer cancel()

	start := time.Now()
	b := backoff{next: opts.FirstRetry, max: opts.MaxRetry}
	log.Info("connecting to redis", logger.Duration("wait_for", opts.WaitFor))

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, opts.IOTimeout)
		err := client.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to redis after retry",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("connected to redis")
			}
			return nil
		}

		wait := b.delay()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("redis unavailable", logger.Int("attempts", attempt), logger.Error(err))
			return fmt.Errorf("redis unavailable at %s after %d attempts: %w", opts.Addr, attempt, err)
		case <-timer.C:
		}

		fields := []logger.Field{
			logger.Int("attempt", attempt),
			logger.Duration("retry_in", wait),
			logger.Error(err),
		}
		if attempt <= opts.QuietAttempts {
			log.Warn("redis ping failed, retrying", fields...)
		} else {
			log.Error("redis still unavailable", fields...)
		}
	}
}
