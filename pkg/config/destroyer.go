package config

import (
	"github.com/tauraamui/maskdaemon/internal/config"
	"github.com/tauraamui/maskdaemon/pkg/configdef"
)

type Destroyer interface {
	configdef.Destroyer
}

func DefaultDestroyer() Destroyer {
	return config.DefaultDestroyer()
}
