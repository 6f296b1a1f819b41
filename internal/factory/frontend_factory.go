package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/adapters/httpserver"
	"github.com/mikey/email-categorizer/internal/adapters/smtp"
	"github.com/mikey/email-categorizer/internal/config"
	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/ports"
)

// FrontendFactory creates request-serving frontends based on configuration
type FrontendFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.CategorizerService
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service *core.CategorizerService) *FrontendFactory {
	return &FrontendFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateFrontend creates a frontend based on the configuration
func (f *FrontendFactory) CreateFrontend() (ports.Frontend, error) {
	serverCfg := f.cfg.GetServer()

	switch serverCfg.Mode {
	case "http":
		return httpserver.NewServer(
			f.service,
			f.logger,
			serverCfg.Host,
			serverCfg.Port,
			serverCfg.Name,
		), nil
	case "smtp":
		smtpCfg := f.cfg.GetSMTP()
		return smtp.NewTagger(
			f.service,
			f.logger,
			smtpCfg.ListenAddress,
			smtpCfg.RelayAddress,
			smtpCfg.RelayPort,
			smtpCfg.RelayEnabled,
			smtpCfg.CategoryHeader,
			smtpCfg.ConfidenceHeader,
		), nil
	default:
		return nil, fmt.Errorf("unsupported server mode: %s", serverCfg.Mode)
	}
}
