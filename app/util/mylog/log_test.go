package mylog

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForOperator(t *testing.T) {
	ctx := context.Background()

	errRecord := slog.NewRecord(time.Now(), slog.LevelError, "boom", 0)
	assert.True(t, forOperator(ctx, errRecord))

	infoRecord := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	assert.False(t, forOperator(ctx, infoRecord))

	flagged := slog.NewRecord(time.Now(), slog.LevelWarn, "crisis", 0)
	flagged.AddAttrs(slog.String("session", "s1"), slog.Bool(TelegramKey, true))
	assert.True(t, forOperator(ctx, flagged))
}
