package helpers

import (
	"fmt"

	"github.com/zinc-sig/gridiff/cmd/config"
	contextparser "github.com/zinc-sig/gridiff/internal/context"
	"github.com/zinc-sig/gridiff/internal/upload"
)

// BuildUploadConfig builds upload configuration from all sources.
// Precedence: env < file < json < kv
func BuildUploadConfig(cfg *config.UploadConfig) (map[string]any, error) {
	conf, err := contextparser.Sources{
		EnvPrefix: contextparser.UploadEnvPrefix,
		File:      cfg.ConfigFile,
		JSON:      cfg.Config,
		KV:        cfg.ConfigKV,
	}.BuildMap()
	if err != nil {
		return nil, fmt.Errorf("failed to build upload config: %w", err)
	}
	if conf == nil {
		conf = make(map[string]any)
	}
	return conf, nil
}

// SetupUploadProvider creates and configures an upload provider. It returns
// nil when no provider is requested.
func SetupUploadProvider(cfg *config.UploadConfig) (upload.Provider, map[string]any, error) {
	if cfg.Provider == "" {
		return nil, nil, nil
	}

	uploadConf, err := BuildUploadConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	provider, err := upload.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create upload provider: %w", err)
	}

	if err := provider.Configure(uploadConf); err != nil {
		return nil, nil, fmt.Errorf("failed to configure upload provider: %w", err)
	}

	return provider, uploadConf, nil
}
