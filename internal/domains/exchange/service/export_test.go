package service

import (
	"time"
	"villa/config"
	"villa/infras/exchangerate"
	"villa/infras/otel"
)

func NewWithClock(client exchangerate.Client, cfg *config.Config, otel otel.Otel, now func() time.Time) Exchange {
	svc, _ := New(client, cfg, otel).(*serviceImpl)
	svc.now = now

	return svc
}
