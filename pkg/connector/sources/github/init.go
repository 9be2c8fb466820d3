package github

import (
	"github.com/ajitpratap0/tributary/pkg/config"
	"github.com/ajitpratap0/tributary/pkg/connector/core"
	"github.com/ajitpratap0/tributary/pkg/connector/registry"
)

func init() {
	_ = registry.Register("github", func(cfg *config.ConnectorConfig) (core.Connector, error) {
		return New(cfg)
	})
}
