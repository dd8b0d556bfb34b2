package utils

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/UltimateTournament/backoff/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"
)

func GetEnvOrDefault(env, defaultVal string) string {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal
	} else {
		return e
	}
}

func GetEnvOrDefaultInt(env string, defaultVal int64) (int64, error) {
	e := os.Getenv(env)
	if e == "" {
		return defaultVal, nil
	}
	intVal, err := strconv.ParseInt(e, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse env %s=%q as int: %w", env, e, err)
	}
	return intVal, nil
}

func GenKSortedID(prefix string) string {
	return prefix + ksuid.New().String()
}

func GenRandomShortID() string {
	// reduced character set that's less probable to mis-type
	return gonanoid.MustGenerate("abcdefghikmonpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ0123456789", 8)
}

func Ptr[T any](s T) *T {
	return &s
}

func ArrayOrEmpty[T any](ref []T) []T {
	if ref == nil {
		return make([]T, 0)
	}
	return ref
}

func ContainsString(s []string, str string) bool {
	for _, v := range s {
		if v == str {
			return true
		}
	}

	return false
}

// NormalizeKey lower-cases s and drops spaces, underscores and hyphens, so "Start Time",
// "start_time" and "StartTime" compare equal.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case ' ', '_', '-':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Retry runs f with exponential backoff until it succeeds, returns a permanent error, or maxElapsed passes.
func Retry(ctx context.Context, maxElapsed time.Duration, f func(ctx context.Context) error) error {
	logger := zerolog.Ctx(ctx)
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = maxElapsed
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := f(ctx)
		if err == nil {
			return nil
		}
		if IsPermanent(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		logger.Debug().Err(err).Int("attempt", attempt).Msg("retrying")
		return err
	}, backoff.WithContext(b, ctx))
}
