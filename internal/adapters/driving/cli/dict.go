package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tzij-labs/tzij-cli/internal/core/domain"
)

// defaultEntryConfidence is assigned to curated entries added without
// an explicit confidence.
const defaultEntryConfidence = 0.95

var dictConfidence float64

var dictCmd = &cobra.Command{
	Use:   "dict",
	Short: "Manage the curated dictionary",
	Long: `The dictionary is the authoritative translation source: an exact hit
answers before any provider is consulted. Colliding entries keep
whichever carries the higher confidence.`,
}

var dictAddCmd = &cobra.Command{
	Use:   "add [source] [target] [text] [translation]",
	Short: "Add a curated dictionary entry",
	Args:  cobra.ExactArgs(4),
	RunE:  runDictAdd,
}

var dictLookupCmd = &cobra.Command{
	Use:   "lookup [source] [target] [text]",
	Short: "Look up an exact dictionary entry",
	Args:  cobra.ExactArgs(3),
	RunE:  runDictLookup,
}

var dictImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import entries from a JSON file",
	Long: `Reads a JSON array of dictionary entries and stores them. Each entry
carries source_lang, target_lang, normalized_text, translation and an
optional confidence.`,
	Args: cobra.ExactArgs(1),
	RunE: runDictImport,
}

var dictKeysCmd = &cobra.Command{
	Use:   "keys [source] [target]",
	Short: "List stored entries for a language pair",
	Args:  cobra.ExactArgs(2),
	RunE:  runDictKeys,
}

func init() {
	dictAddCmd.Flags().Float64Var(&dictConfidence, "confidence", defaultEntryConfidence,
		"entry confidence in [0,1]")

	dictCmd.AddCommand(dictAddCmd)
	dictCmd.AddCommand(dictLookupCmd)
	dictCmd.AddCommand(dictImportCmd)
	dictCmd.AddCommand(dictKeysCmd)
	rootCmd.AddCommand(dictCmd)
}

func runDictAdd(cmd *cobra.Command, args []string) error {
	if err := ensureDictionary(); err != nil {
		return err
	}
	if dictConfidence < 0 || dictConfidence > 1 {
		return fmt.Errorf("confidence %v outside [0,1]: %w", dictConfidence, domain.ErrInvalidInput)
	}

	entry := domain.DictionaryEntry{
		SourceLang:     args[0],
		TargetLang:     args[1],
		NormalizedText: domain.NormalizeText(args[2]),
		Translation:    args[3],
		Confidence:     dictConfidence,
	}
	if entry.NormalizedText == "" || entry.Translation == "" {
		return fmt.Errorf("empty text or translation: %w", domain.ErrInvalidInput)
	}

	if err := dictionary.Put(cmd.Context(), entry); err != nil {
		return fmt.Errorf("storing entry: %w", err)
	}
	cmd.Printf("Stored %q -> %q (%s -> %s).\n",
		entry.NormalizedText, entry.Translation, entry.SourceLang, entry.TargetLang)
	return nil
}

func runDictLookup(cmd *cobra.Command, args []string) error {
	if err := ensureDictionary(); err != nil {
		return err
	}

	entry, err := dictionary.Get(cmd.Context(), args[0], args[1], domain.NormalizeText(args[2]))
	if err != nil {
		return fmt.Errorf("looking up entry: %w", err)
	}
	cmd.Printf("%s (confidence %.2f)\n", entry.Translation, entry.Confidence)
	return nil
}

func runDictImport(cmd *cobra.Command, args []string) error {
	if err := ensureDictionary(); err != nil {
		return err
	}

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading import file: %w", err)
	}

	var entries []domain.DictionaryEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("parsing import file: %w", err)
	}

	imported := 0
	for _, entry := range entries {
		entry.NormalizedText = domain.NormalizeText(entry.NormalizedText)
		if entry.NormalizedText == "" || entry.Translation == "" ||
			entry.SourceLang == "" || entry.TargetLang == "" {
			continue
		}
		if entry.Confidence <= 0 {
			entry.Confidence = defaultEntryConfidence
		}
		if err := dictionary.Put(cmd.Context(), entry); err != nil {
			return fmt.Errorf("storing %q: %w", entry.NormalizedText, err)
		}
		imported++
	}

	cmd.Printf("Imported %d of %d entries.\n", imported, len(entries))
	return nil
}

func runDictKeys(cmd *cobra.Command, args []string) error {
	if err := ensureDictionary(); err != nil {
		return err
	}

	keys, err := dictionary.Keys(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("listing keys: %w", err)
	}
	if len(keys) == 0 {
		cmd.Printf("No entries for %s -> %s.\n", args[0], args[1])
		return nil
	}
	cmd.Println(strings.Join(keys, "\n"))
	return nil
}
