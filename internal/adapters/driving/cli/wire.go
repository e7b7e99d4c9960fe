package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	configfile "github.com/tzij-labs/tzij-cli/internal/adapters/driven/config/file"
	"github.com/tzij-labs/tzij-cli/internal/adapters/driven/providers"
	"github.com/tzij-labs/tzij-cli/internal/adapters/driven/storage/sqlite"
	vaultfile "github.com/tzij-labs/tzij-cli/internal/adapters/driven/vault"
	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driven"
	"github.com/tzij-labs/tzij-cli/internal/core/ports/driving"
	"github.com/tzij-labs/tzij-cli/internal/core/services"
	"github.com/tzij-labs/tzij-cli/internal/logger"
)

// masterKeyEnv names the environment variable holding the vault master
// secret. When unset, credential commands prompt on the terminal.
const masterKeyEnv = "TZIJ_MASTER_KEY"

// Package-level services, wired on first use. Tests inject fakes
// directly and the ensure functions leave injected values alone.
var (
	catalogSvc  driving.ProviderCatalog
	translator  driving.Translator
	credentials driving.CredentialManager
	dictionary  driven.DictionaryStore

	registrySvc    *services.ProviderRegistry
	limiterSvc     *services.RateLimiter
	vaultSvc       *services.Vault
	providerClient driven.ProviderClient
	dictStore      *sqlite.Store
)

func resolveDataDir() (string, error) {
	if dataDir != "" {
		return dataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".tzij"), nil
}

// ensureCatalog loads the provider catalog and builds the registry and
// rate limiter.
func ensureCatalog() error {
	if catalogSvc != nil {
		return nil
	}

	dir, err := resolveDataDir()
	if err != nil {
		return err
	}
	path := catalogPath
	if path == "" {
		path = filepath.Join(dir, "catalog.toml")
	}

	catalog, err := configfile.Load(path)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	registry, err := services.NewProviderRegistry(services.RegistryConfig{
		Providers:      catalog.Providers,
		Languages:      catalog.Languages,
		OrderOverrides: catalog.OrderOverrides,
	})
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}

	registrySvc = registry
	limiterSvc = services.NewRateLimiter(registry)
	catalogSvc = registry
	return nil
}

// ensureDictionary opens the durable dictionary store.
func ensureDictionary() error {
	if dictionary != nil {
		return nil
	}

	dir, err := resolveDataDir()
	if err != nil {
		return err
	}
	store, err := sqlite.NewStore(filepath.Join(dir, "data"))
	if err != nil {
		return fmt.Errorf("opening dictionary: %w", err)
	}
	dictStore = store
	dictionary = store
	return nil
}

// ensureVault derives the vault key and loads the credential store.
// A vault that fails to decrypt comes up sealed, not as an error.
func ensureVault(cmd *cobra.Command) error {
	if credentials != nil {
		return nil
	}
	if err := ensureCatalog(); err != nil {
		return err
	}

	dir, err := resolveDataDir()
	if err != nil {
		return err
	}

	secret, err := masterSecret(cmd)
	if err != nil {
		return err
	}

	store, err := vaultfile.NewFileStore(dir, secret)
	if err != nil {
		return fmt.Errorf("opening vault: %w", err)
	}

	if providerClient == nil {
		providerClient = providers.NewHTTPClient(providers.Config{})
	}

	vault := services.NewVault(store, registrySvc, limiterSvc, providerClient)
	if err := vault.Initialize(cmd.Context()); err != nil {
		return fmt.Errorf("initializing vault: %w", err)
	}
	if vault.Sealed() {
		cmd.PrintErrln("warning: vault could not be decrypted, continuing without credentials")
	}

	vaultSvc = vault
	credentials = vault
	return nil
}

// ensureTranslator wires the full routing path.
func ensureTranslator(cmd *cobra.Command) error {
	if translator != nil {
		return nil
	}
	if err := ensureDictionary(); err != nil {
		return err
	}
	if err := ensureVault(cmd); err != nil {
		return err
	}

	translator = services.NewRouter(dictionary, registrySvc, limiterSvc, vaultSvc, providerClient)
	return nil
}

func closeServices() {
	if dictStore != nil {
		if err := dictStore.Close(); err != nil {
			logger.Warn("closing dictionary: %v", err)
		}
		dictStore = nil
	}
}

// masterSecret resolves the vault master secret: environment first,
// interactive no-echo prompt second.
func masterSecret(cmd *cobra.Command) (string, error) {
	if secret := os.Getenv(masterKeyEnv); secret != "" {
		return secret, nil
	}

	if term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.PrintErr("Master key: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.PrintErrln()
		if err != nil {
			return "", fmt.Errorf("reading master key: %w", err)
		}
		if len(raw) == 0 {
			return "", domain.ErrMasterSecretRequired
		}
		return string(raw), nil
	}

	// Non-interactive fallback: a single line on stdin.
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", domain.ErrMasterSecretRequired
	}
	return secret, nil
}
