package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Inspect the provider catalog",
}

var providersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured providers",
	Args:  cobra.NoArgs,
	RunE:  runProvidersList,
}

var providersChainCmd = &cobra.Command{
	Use:   "chain [source] [target]",
	Short: "Show the fallback order for a language pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runProvidersChain,
}

func init() {
	providersCmd.AddCommand(providersListCmd)
	providersCmd.AddCommand(providersChainCmd)
	rootCmd.AddCommand(providersCmd)
}

func runProvidersList(cmd *cobra.Command, _ []string) error {
	if err := ensureCatalog(); err != nil {
		return err
	}

	cmd.Println("Configured providers:")
	for _, desc := range catalogSvc.All() {
		auth := string(desc.AuthScheme)
		if !desc.RequiresKey() {
			auth = "keyless"
		}
		cmd.Printf("  %-18s %-12s %-16s %s\n",
			desc.ServiceID, desc.Tier, auth, desc.DisplayName)
		if len(desc.Coverage) > 0 {
			cmd.Printf("  %-18s covers: %s\n", "", strings.Join(desc.Coverage, ", "))
		}
	}
	return nil
}

func runProvidersChain(cmd *cobra.Command, args []string) error {
	if err := ensureCatalog(); err != nil {
		return err
	}

	candidates := catalogSvc.CapableProviders(args[0], args[1])
	if len(candidates) == 0 {
		cmd.Printf("No provider covers %s -> %s.\n", args[0], args[1])
		return nil
	}

	cmd.Printf("Fallback order for %s -> %s:\n", args[0], args[1])
	for i, desc := range candidates {
		cmd.Printf("  %d. %s (%s)\n", i+1, desc.ServiceID, desc.Tier)
	}
	return nil
}
