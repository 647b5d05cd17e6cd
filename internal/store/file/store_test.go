package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/store/file"
)

func TestTaxonomyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("should save and load a taxonomy", func(t *testing.T) {
		store, err := file.NewTaxonomyStore(t.TempDir())
		require.NoError(t, err)

		taxonomy := domain.Taxonomy{
			"invoice": {
				Description: "Счёт на оплату или товарная накладная",
				Examples:    []string{"Счёт на оплату №7"},
			},
			"contract": {Description: "Договор или соглашение"},
		}

		require.NoError(t, store.Save(ctx, "finance", taxonomy))

		loaded, err := store.Load(ctx, "finance")
		require.NoError(t, err)
		require.Equal(t, taxonomy, loaded)
	})

	t.Run("should return nil for a missing taxonomy", func(t *testing.T) {
		store, err := file.NewTaxonomyStore(t.TempDir())
		require.NoError(t, err)

		loaded, err := store.Load(ctx, "finance")
		require.NoError(t, err)
		require.Nil(t, loaded)
	})

	t.Run("should fail on a corrupt taxonomy file", func(t *testing.T) {
		dir := t.TempDir()
		store, err := file.NewTaxonomyStore(dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "finance_taxonomy.json"), []byte("{not json"), 0o644))

		_, err = store.Load(ctx, "finance")
		require.Error(t, err)
	})

	t.Run("should overwrite an existing taxonomy atomically", func(t *testing.T) {
		dir := t.TempDir()
		store, err := file.NewTaxonomyStore(dir)
		require.NoError(t, err)

		require.NoError(t, store.Save(ctx, "it", domain.Taxonomy{"bug_report": {Description: "Сообщение об ошибке"}}))
		require.NoError(t, store.Save(ctx, "it", domain.Taxonomy{"incident": {Description: "Инцидент"}}))

		loaded, err := store.Load(ctx, "it")
		require.NoError(t, err)
		require.NotContains(t, loaded, "bug_report")
		require.Contains(t, loaded, "incident")

		// No temp files left behind.
		matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		require.NoError(t, err)
		require.Empty(t, matches)
	})

	t.Run("should reject an empty directory", func(t *testing.T) {
		_, err := file.NewTaxonomyStore("")
		require.Error(t, err)
	})
}

func TestResultLog(t *testing.T) {
	ctx := context.Background()

	newEntry := func(category string, confidence float64, text string) domain.LogEntry {
		return domain.LogEntry{
			Timestamp:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			Domain:     "finance",
			Category:   category,
			Confidence: confidence,
			Source:     domain.SourceEmbedding,
			InputText:  text,
		}
	}

	t.Run("should append and read back entries in order", func(t *testing.T) {
		log, err := file.NewResultLog(t.TempDir())
		require.NoError(t, err)

		first := newEntry("invoice", 0.9, "Счёт на оплату №12")
		second := newEntry("budget", 0.85, "Бюджет на квартал")

		require.NoError(t, log.Append(ctx, first))
		require.NoError(t, log.Append(ctx, second))

		entries, err := log.Entries(ctx, "finance")
		require.NoError(t, err)
		require.Equal(t, []domain.LogEntry{first, second}, entries)
	})

	t.Run("should return nil for a missing log", func(t *testing.T) {
		log, err := file.NewResultLog(t.TempDir())
		require.NoError(t, err)

		entries, err := log.Entries(ctx, "finance")
		require.NoError(t, err)
		require.Nil(t, entries)
	})

	t.Run("should skip malformed lines", func(t *testing.T) {
		dir := t.TempDir()
		log, err := file.NewResultLog(dir)
		require.NoError(t, err)

		good := newEntry("invoice", 0.9, "Счёт на оплату №12")
		require.NoError(t, log.Append(ctx, good))

		f, err := os.OpenFile(filepath.Join(dir, "finance_log.jsonl"), os.O_APPEND|os.O_WRONLY, 0o644)
		require.NoError(t, err)
		_, err = f.WriteString("{torn line\n")
		require.NoError(t, err)
		require.NoError(t, f.Close())

		require.NoError(t, log.Append(ctx, good))

		entries, err := log.Entries(ctx, "finance")
		require.NoError(t, err)
		require.Len(t, entries, 2)
	})

	t.Run("should keep domains in separate files", func(t *testing.T) {
		log, err := file.NewResultLog(t.TempDir())
		require.NoError(t, err)

		finance := newEntry("invoice", 0.9, "Счёт на оплату №12")
		it := finance
		it.Domain = "it"
		it.Category = "bug_report"

		require.NoError(t, log.Append(ctx, finance))
		require.NoError(t, log.Append(ctx, it))

		entries, err := log.Entries(ctx, "it")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		require.Equal(t, "bug_report", entries[0].Category)
	})
}
