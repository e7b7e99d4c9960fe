package file

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/logger"
)

//go:embed defaults.toml
var defaultCatalog []byte

// Catalog is the parsed provider/language configuration ready to feed
// the registry.
type Catalog struct {
	Providers      []domain.ProviderDescriptor
	Languages      *domain.LanguageCatalog
	OrderOverrides map[string][]string
}

// tomlCatalog mirrors the catalog file shape.
type tomlCatalog struct {
	Languages      tomlLanguages       `toml:"languages"`
	Providers      []tomlProvider      `toml:"providers"`
	OrderOverrides map[string][]string `toml:"order_overrides"`
}

type tomlLanguages struct {
	Known       []string `toml:"known"`
	LowResource []string `toml:"low_resource"`
}

type tomlProvider struct {
	ServiceID    string        `toml:"service_id"`
	DisplayName  string        `toml:"display_name"`
	BaseURL      string        `toml:"base_url"`
	KeyFormat    string        `toml:"key_format"`
	TestEndpoint string        `toml:"test_endpoint"`
	AuthScheme   string        `toml:"auth_scheme"`
	Tier         string        `toml:"tier"`
	Coverage     []string      `toml:"coverage"`
	LowResource  bool          `toml:"low_resource"`
	RateLimit    tomlRateLimit `toml:"rate_limit"`
}

type tomlRateLimit struct {
	MaxRequests int    `toml:"max_requests"`
	Window      string `toml:"window"`
}

// Load reads the catalog at path, falling back to the embedded
// defaults when the file does not exist.
func Load(path string) (*Catalog, error) {
	raw := defaultCatalog
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			logger.Debug("catalog: using %s", path)
			raw = data
		case os.IsNotExist(err):
			logger.Debug("catalog: %s not found, using embedded defaults", path)
		default:
			return nil, fmt.Errorf("reading catalog: %w", err)
		}
	}
	return parse(raw)
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return parse(defaultCatalog)
}

func parse(raw []byte) (*Catalog, error) {
	var cfg tomlCatalog
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(cfg.Providers) == 0 {
		return nil, fmt.Errorf("catalog declares no providers: %w", domain.ErrInvalidInput)
	}
	if len(cfg.Languages.Known) == 0 {
		return nil, fmt.Errorf("catalog declares no languages: %w", domain.ErrInvalidInput)
	}

	providers := make([]domain.ProviderDescriptor, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		desc, err := p.descriptor()
		if err != nil {
			return nil, err
		}
		providers = append(providers, desc)
	}

	return &Catalog{
		Providers:      providers,
		Languages:      domain.NewLanguageCatalog(cfg.Languages.Known, cfg.Languages.LowResource),
		OrderOverrides: cfg.OrderOverrides,
	}, nil
}

func (p tomlProvider) descriptor() (domain.ProviderDescriptor, error) {
	if p.ServiceID == "" {
		return domain.ProviderDescriptor{}, fmt.Errorf("provider without service_id: %w", domain.ErrInvalidInput)
	}

	var limit domain.RateLimit
	if p.RateLimit.MaxRequests > 0 {
		window, err := time.ParseDuration(p.RateLimit.Window)
		if err != nil {
			return domain.ProviderDescriptor{}, fmt.Errorf(
				"%s: bad rate limit window %q: %w", p.ServiceID, p.RateLimit.Window, err)
		}
		limit = domain.RateLimit{MaxRequests: p.RateLimit.MaxRequests, Window: window}
	}

	return domain.ProviderDescriptor{
		ServiceID:    p.ServiceID,
		DisplayName:  p.DisplayName,
		BaseURL:      p.BaseURL,
		KeyFormat:    p.KeyFormat,
		TestEndpoint: p.TestEndpoint,
		AuthScheme:   domain.AuthScheme(p.AuthScheme),
		RateLimit:    limit,
		Tier:         domain.Tier(p.Tier),
		Coverage:     p.Coverage,
		LowResource:  p.LowResource,
	}, nil
}
