package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
	"github.com/tzij-labs/tzij-cli/internal/core/services"
)

var (
	credentialKey            string
	credentialSkipValidation bool
	credentialMaxAge         time.Duration
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Manage provider credentials",
	Long: `Stores, removes and inspects provider API keys. Keys live in an
encrypted vault on disk; they are validated against the provider's
test endpoint before being accepted.`,
}

var credentialSetCmd = &cobra.Command{
	Use:   "set [service]",
	Short: "Store an API key for a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialSet,
}

var credentialRemoveCmd = &cobra.Command{
	Use:   "remove [service]",
	Short: "Remove a stored API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runCredentialRemove,
}

var credentialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials",
	Args:  cobra.NoArgs,
	RunE:  runCredentialList,
}

var credentialRevalidateCmd = &cobra.Command{
	Use:   "revalidate",
	Short: "Re-probe credentials with stale validations",
	Args:  cobra.NoArgs,
	RunE:  runCredentialRevalidate,
}

func init() {
	credentialSetCmd.Flags().StringVarP(&credentialKey, "key", "k", "", "API key (prompted when omitted)")
	credentialSetCmd.Flags().BoolVar(&credentialSkipValidation, "skip-validation", false,
		"store without format check or live probe")
	credentialRevalidateCmd.Flags().DurationVar(&credentialMaxAge, "max-age", services.RevalidateAfter,
		"re-probe credentials validated longer ago than this")

	credentialCmd.AddCommand(credentialSetCmd)
	credentialCmd.AddCommand(credentialRemoveCmd)
	credentialCmd.AddCommand(credentialListCmd)
	credentialCmd.AddCommand(credentialRevalidateCmd)
	rootCmd.AddCommand(credentialCmd)
}

func runCredentialSet(cmd *cobra.Command, args []string) error {
	if err := ensureVault(cmd); err != nil {
		return err
	}
	serviceID := args[0]

	key := credentialKey
	if key == "" {
		var err error
		key, err = readKey(cmd, fmt.Sprintf("API key for %s: ", serviceID))
		if err != nil {
			return err
		}
	}
	if key == "" {
		return fmt.Errorf("empty API key: %w", domain.ErrInvalidInput)
	}

	opts := domain.SetCredentialOptions{SkipValidation: credentialSkipValidation}
	if err := credentials.SetCredential(cmd.Context(), serviceID, key, opts); err != nil {
		return fmt.Errorf("storing credential: %w", err)
	}

	if credentialSkipValidation {
		cmd.Printf("Stored key for %s without validation; run 'tzij credential revalidate' later.\n", serviceID)
	} else {
		cmd.Printf("Stored and validated key for %s.\n", serviceID)
	}
	return nil
}

func runCredentialRemove(cmd *cobra.Command, args []string) error {
	if err := ensureVault(cmd); err != nil {
		return err
	}

	if err := credentials.RemoveCredential(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("removing credential: %w", err)
	}
	cmd.Printf("Removed key for %s.\n", args[0])
	return nil
}

func runCredentialList(cmd *cobra.Command, _ []string) error {
	if err := ensureVault(cmd); err != nil {
		return err
	}

	metas := credentials.Metadata(cmd.Context())
	if len(metas) == 0 {
		cmd.Println("No credentials stored.")
		return nil
	}

	cmd.Println("Stored credentials:")
	for _, meta := range metas {
		status := "valid"
		if !meta.IsValid {
			status = "unvalidated"
		}
		cmd.Printf("  %-18s %-12s %-12s used %d times\n",
			meta.ServiceID, meta.Tier, status, meta.UsageCount)
		if !meta.LastValidated.IsZero() {
			cmd.Printf("  %-18s last validated %s\n", "",
				meta.LastValidated.Format(time.RFC3339))
		}
	}
	return nil
}

func runCredentialRevalidate(cmd *cobra.Command, _ []string) error {
	if err := ensureVault(cmd); err != nil {
		return err
	}

	n, err := credentials.RevalidateStale(cmd.Context(), credentialMaxAge)
	if err != nil {
		return fmt.Errorf("revalidating credentials: %w", err)
	}
	if n == 0 {
		cmd.Println("All credentials are fresh.")
		return nil
	}
	cmd.Printf("Re-probed %d credential(s).\n", n)
	return nil
}

// readKey prompts for a secret, without echo when on a terminal.
func readKey(cmd *cobra.Command, prompt string) (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		cmd.PrintErr(prompt)
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		cmd.PrintErrln()
		if err != nil {
			return "", fmt.Errorf("reading key: %w", err)
		}
		return string(raw), nil
	}

	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimRight(line, "\r\n"), nil
}
