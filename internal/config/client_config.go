package config

import "time"

type ClientConfig interface {
	GetRequestTimeout() time.Duration
	GetAlertTTL() time.Duration
}

type Client struct{}

var _ ClientConfig = Client{}

func (Client) GetRequestTimeout() time.Duration {
	return 10 * time.Second // Fixed per-request budget for backend calls
}

func (Client) GetAlertTTL() time.Duration {
	return 5 * time.Second // Flash messages expire on their own
}
