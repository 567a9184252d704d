package globals

import (
	"context"
	"time"

	"cpt/internal/components/telemetry"
	"cpt/internal/config"
)

type keyType int

const key keyType = 0

type Value struct {
	Config  config.Config
	Tel     telemetry.API
	Otel    telemetry.Otel
	Timeout time.Duration
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
