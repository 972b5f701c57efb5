package config

import "sync/atomic"

// Live holds the current config and is swapped on reload.
type Live struct {
	p atomic.Pointer[Config]
}

func NewLive(cfg *Config) *Live {
	l := &Live{}
	l.Set(cfg)
	return l
}

func (l *Live) Get() *Config {
	return l.p.Load()
}

func (l *Live) Set(cfg *Config) {
	l.p.Store(cfg)
}
