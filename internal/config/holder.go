package config

import "sync/atomic"

// Holder wraps a Config behind an atomic pointer so the running service can
// reload configuration without restarting. Reload keeps the old config when
// the new one fails validation.
type Holder struct {
	ptr  atomic.Pointer[Config]
	path string
}

// NewHolder creates a Holder seeded with cfg, reloading from path.
func NewHolder(cfg *Config, path string) *Holder {
	h := &Holder{path: path}
	h.ptr.Store(cfg)
	return h
}

// Get returns the current config snapshot.
func (h *Holder) Get() *Config {
	return h.ptr.Load()
}

// Reload re-runs the full load pipeline from the original path and swaps in
// the result. On error the previous config stays active.
func (h *Holder) Reload() error {
	cfg, err := LoadFrom(h.path)
	if err != nil {
		return err
	}
	h.ptr.Store(cfg)
	return nil
}
