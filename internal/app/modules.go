package app

import (
	"github.com/vk/flowgrid/internal/registry"
	"github.com/vk/flowgrid/modules/core"
	"github.com/vk/flowgrid/modules/hclexpr"
	"github.com/vk/flowgrid/modules/javascript"
)

// defaultModules is the definitive list of all modules compiled into the
// flowgrid binary. JavaScript registers first and so is the default language.
func defaultModules(cfg *Config) []registry.Module {
	return []registry.Module{
		&core.Module{},
		&javascript.Module{Timeout: cfg.Timeout},
		&hclexpr.Module{Timeout: cfg.Timeout},
	}
}
