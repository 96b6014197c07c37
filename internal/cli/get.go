package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rcliao/qalam/internal/cache"
	"github.com/rcliao/qalam/internal/store"
	"github.com/rcliao/qalam/internal/translate"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [text]",
		Short: "Retrieve the cached result for a text",
		Long:  "Retrieve the cached result for a text, or for a raw cache key with --key.",
		Run:   runGet,
	}

	addFileFlag(cmd)
	cmd.Flags().StringP("key", "k", "", "Cache key")
	cmd.Flags().StringP("to", "t", "", "Target language; looks up a translation instead of a grammar result")

	cacheCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	key, _ := cmd.Flags().GetString("key")
	target, _ := cmd.Flags().GetString("to")
	table := tableFlag(cmd)
	if target != "" {
		table = store.TableTranslation
	}

	if key == "" {
		text, err := readInput(cmd, args)
		if err != nil {
			exitErr("get", err)
		}
		if table == store.TableTranslation {
			code, err := translate.LanguageCode(target)
			if err != nil {
				exitErr("get", err)
			}
			key = cache.Key(text, code)
		} else {
			key = cache.Key(text)
		}
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if table == store.TableTranslation {
		e, err := s.GetTranslation(cmd.Context(), key)
		if err != nil {
			exitErr("get", err)
		}
		printJSON(cmd, e)
		return
	}

	e, err := s.GetGrammar(cmd.Context(), key)
	if errors.Is(err, store.ErrNotFound) && table == "" {
		t, terr := s.GetTranslation(cmd.Context(), key)
		if terr == nil {
			printJSON(cmd, t)
			return
		}
	}
	if err != nil {
		exitErr("get", err)
	}
	printJSON(cmd, e)
}
