package config

import (
	"github.com/tauraamui/maskdaemon/internal/config"
	"github.com/tauraamui/maskdaemon/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
