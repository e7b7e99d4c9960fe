package cli

import (
	"context"
	"time"

	"github.com/tzij-labs/tzij-cli/internal/adapters/driven/storage/memory"
	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/services"
)

// mockTranslator serves a canned result.
type mockTranslator struct {
	result  *domain.TranslationResult
	err     error
	lastReq domain.TranslationRequest
}

func (m *mockTranslator) Translate(_ context.Context, req domain.TranslationRequest) (*domain.TranslationResult, error) {
	m.lastReq = req
	return m.result, m.err
}

// mockCredentialManager records calls and serves canned metadata.
type mockCredentialManager struct {
	metas       []domain.CredentialMetadata
	setErr      error
	removeErr   error
	lastService string
	lastSecret  string
	lastOpts    domain.SetCredentialOptions
	revalidated int
}

func (m *mockCredentialManager) SetCredential(_ context.Context, serviceID, secret string, opts domain.SetCredentialOptions) error {
	m.lastService = serviceID
	m.lastSecret = secret
	m.lastOpts = opts
	return m.setErr
}

func (m *mockCredentialManager) RemoveCredential(_ context.Context, serviceID string) error {
	m.lastService = serviceID
	return m.removeErr
}

func (m *mockCredentialManager) Metadata(_ context.Context) []domain.CredentialMetadata {
	return m.metas
}

func (m *mockCredentialManager) RevalidateStale(_ context.Context, _ time.Duration) (int, error) {
	return m.revalidated, nil
}

// testRegistry builds a small real registry for catalog commands.
func testRegistry() *services.ProviderRegistry {
	registry, err := services.NewProviderRegistry(services.RegistryConfig{
		Providers: []domain.ProviderDescriptor{
			{
				ServiceID:   "openai",
				DisplayName: "OpenAI",
				AuthScheme:  domain.AuthBearer,
				Tier:        domain.TierPremium,
			},
			{
				ServiceID:   "maya_lexicon",
				DisplayName: "Maya Lexicon",
				AuthScheme:  domain.AuthAPIKeyHeader,
				Tier:        domain.TierSpecialized,
				Coverage:    []string{"en", "es", "yua"},
				LowResource: true,
			},
			{
				ServiceID:   "apertium",
				DisplayName: "Apertium",
				AuthScheme:  domain.AuthNone,
				Tier:        domain.TierFree,
			},
		},
		Languages: domain.NewLanguageCatalog([]string{"en", "es"}, []string{"yua"}),
	})
	if err != nil {
		panic(err)
	}
	return registry
}

// setupTestServices injects fakes for every service the commands use.
// The returned cleanup restores the package state.
func setupTestServices() func() {
	translator = &mockTranslator{
		result: &domain.TranslationResult{
			Translation: "ba'ax ka wa'alik",
			Method:      domain.MethodDictionary,
			Confidence:  0.95,
		},
	}
	credentials = &mockCredentialManager{}
	catalogSvc = testRegistry()
	dictionary = memory.NewDictionaryStore()

	return func() {
		translator = nil
		credentials = nil
		catalogSvc = nil
		dictionary = nil
		registrySvc = nil
		limiterSvc = nil
		vaultSvc = nil
		providerClient = nil
	}
}
