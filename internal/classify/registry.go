package classify

import "github.com/vk/halglue/internal/config"

// Registry is the curated lookup table from well-known interface names to
// their category. Every registered name is host-mockable by definition;
// mockability for everything else is decided closed.
type Registry struct {
	version string
	entries map[string]config.InterfaceCategory
}

// NewRegistry builds a registry from an explicit entry table. The version
// string identifies the curated table a classification was produced against.
func NewRegistry(version string, entries map[string]config.InterfaceCategory) *Registry {
	e := make(map[string]config.InterfaceCategory, len(entries))
	for name, cat := range entries {
		e[name] = cat
	}
	return &Registry{version: version, entries: e}
}

// Version returns the registry's curated-table version.
func (r *Registry) Version() string {
	return r.version
}

// Lookup resolves an interface name against the curated table.
func (r *Registry) Lookup(name string) (config.InterfaceCategory, bool) {
	cat, ok := r.entries[name]
	return cat, ok
}

// DefaultRegistry covers the embedded-hal 1.x capability traits plus the
// serial and ADC companion crates, all of which ship host mocks.
func DefaultRegistry() *Registry {
	return NewRegistry("embedded-hal-1.0", map[string]config.InterfaceCategory{
		"OutputPin":           config.CategoryDigitalIO,
		"InputPin":            config.CategoryDigitalIO,
		"StatefulOutputPin":   config.CategoryDigitalIO,
		"ToggleableOutputPin": config.CategoryDigitalIO,
		"SpiBus":              config.CategorySpi,
		"SpiDevice":           config.CategorySpi,
		"FullDuplex":          config.CategorySpi,
		"I2c":                 config.CategoryI2c,
		"Read":                config.CategoryUart,
		"Write":               config.CategoryUart,
		"SerialPort":          config.CategoryUart,
		"DelayNs":             config.CategoryTimer,
		"CountDown":           config.CategoryTimer,
		"SetDutyCycle":        config.CategoryPwm,
		"PwmPin":              config.CategoryPwm,
		"AdcChannel":          config.CategoryAdc,
		"OneShot":             config.CategoryAdc,
	})
}
