package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

var (
	translateFrom    string
	translateTo      string
	translateTimeout time.Duration
	translateJSON    bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text",
	Long: `Routes the text through the curated dictionary first, then through
the ordered provider fallback chain. Dictionary hits are authoritative
and never dispatch a provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	translateCmd.Flags().StringVarP(&translateFrom, "from", "f", "", "source language tag (required)")
	translateCmd.Flags().StringVarP(&translateTo, "to", "t", "", "target language tag (required)")
	translateCmd.Flags().DurationVar(&translateTimeout, "timeout", 0, "per-provider attempt timeout (default 8s)")
	translateCmd.Flags().BoolVar(&translateJSON, "json", false, "output result as JSON")
	translateCmd.MarkFlagRequired("from") //nolint:errcheck
	translateCmd.MarkFlagRequired("to")   //nolint:errcheck
	rootCmd.AddCommand(translateCmd)
}

func runTranslate(cmd *cobra.Command, args []string) error {
	if err := ensureTranslator(cmd); err != nil {
		return err
	}

	req := domain.TranslationRequest{
		Text:       args[0],
		SourceLang: translateFrom,
		TargetLang: translateTo,
		Options:    domain.TranslationOptions{Timeout: translateTimeout},
	}

	result, err := translator.Translate(cmd.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && result != nil {
			printNotFound(cmd, req, result)
		}
		return err
	}

	if translateJSON {
		return outputResultJSON(cmd, result)
	}
	outputResultText(cmd, result)
	return nil
}

func outputResultJSON(cmd *cobra.Command, result *domain.TranslationResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling result: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResultText(cmd *cobra.Command, result *domain.TranslationResult) {
	cmd.Println(result.Translation)
	cmd.Printf("  method: %s, confidence: %.2f\n", result.Method, result.Confidence)
	if result.MatchedText != "" {
		cmd.Printf("  partial match on %q\n", result.MatchedText)
	}
	if result.CulturalContext {
		cmd.Println("  carries cultural context from a specialized engine")
	}
}

func printNotFound(cmd *cobra.Command, req domain.TranslationRequest, result *domain.TranslationResult) {
	cmd.Printf("No translation found for %q (%s -> %s).\n",
		req.Text, req.SourceLang, req.TargetLang)
	if len(result.Suggestions) > 0 {
		cmd.Printf("Nearby dictionary entries: %s\n", strings.Join(result.Suggestions, ", "))
	}
}
