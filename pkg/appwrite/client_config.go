package appwrite

import (
	"time"

	"resty.dev/v3"
)

type ClientConfig struct {
	TransportSettings *resty.TransportSettings

	ResponseMiddlewares []resty.ResponseMiddleware
	RequestMiddlewares  []resty.RequestMiddleware
}

var DefaultConfig = &ClientConfig{
	TransportSettings: &resty.TransportSettings{
		DialerTimeout:         5 * time.Second,
		DialerKeepAlive:       5 * time.Second,
		IdleConnTimeout:       5 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	},
}
