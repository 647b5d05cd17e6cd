package trainer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/categorizer/registry"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/domain"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/store/file"
	"github.com/MaksimVF/AI-BackLog-Assistant-sub002/internal/trainer"
)

// stubEmbedder maps known texts to fixed vectors; unknown texts get the zero
// vector.
type stubEmbedder struct {
	vectors map[string]domain.Vector
}

func (s *stubEmbedder) Embed(_ context.Context, text string) domain.Vector {
	if vec, ok := s.vectors[text]; ok {
		return vec
	}
	return domain.Vector{0, 0, 0}
}

func (s *stubEmbedder) Dimension() int { return 3 }

// stubLog serves a fixed set of entries per domain.
type stubLog struct {
	entries map[string][]domain.LogEntry
	err     error
}

func (s *stubLog) Append(_ context.Context, entry domain.LogEntry) error {
	s.entries[entry.Domain] = append(s.entries[entry.Domain], entry)
	return nil
}

func (s *stubLog) Entries(_ context.Context, domainKey string) ([]domain.LogEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.entries[domainKey], nil
}

func entry(domainKey, category string, confidence float64, text string) domain.LogEntry {
	return domain.LogEntry{
		Timestamp:  time.Now().UTC(),
		Domain:     domainKey,
		Category:   category,
		Confidence: confidence,
		Source:     domain.SourceEmbedding,
		InputText:  text,
	}
}

func newStores(t *testing.T) (*file.TaxonomyStore, *file.ResultLog) {
	t.Helper()

	store, err := file.NewTaxonomyStore(t.TempDir())
	require.NoError(t, err)

	log, err := file.NewResultLog(t.TempDir())
	require.NoError(t, err)

	return store, log
}

func TestTrainer_RetrainDomain(t *testing.T) {
	ctx := context.Background()
	embedder := &stubEmbedder{vectors: map[string]domain.Vector{}}

	t.Run("should merge mined examples into the stored taxonomy", func(t *testing.T) {
		store, log := newStores(t)
		require.NoError(t, store.Save(ctx, "finance", domain.Taxonomy{
			"invoice": {Description: "Счёт на оплату", Examples: []string{"Счёт на оплату №7"}},
		}))

		for _, e := range []domain.LogEntry{
			entry("finance", "invoice", 0.85, "Счёт на оплату №12 от поставщика"),
			entry("finance", "invoice", 0.92, "Товарная накладная за март"),
			entry("finance", "budget", 0.88, "Бюджет проекта на следующий квартал"),
			entry("finance", "invoice", 0.5, "Сомнительный документ без категории"),
			entry("finance", "invoice", 0.9, "короткий"),
		} {
			require.NoError(t, log.Append(ctx, e))
		}

		reg := registry.NewRegistry()
		tr := trainer.NewTrainer(reg, store, log, trainer.NewBuilders(embedder), 0.8)

		swapped, err := tr.RetrainDomain(ctx, "finance")
		require.NoError(t, err)
		require.True(t, swapped)

		taxonomy, err := store.Load(ctx, "finance")
		require.NoError(t, err)

		require.Equal(t, []string{
			"Счёт на оплату №7",
			"Счёт на оплату №12 от поставщика",
			"Товарная накладная за март",
		}, taxonomy["invoice"].Examples)
		require.Equal(t, "Счёт на оплату", taxonomy["invoice"].Description)

		require.Equal(t, "Auto-generated category for budget", taxonomy["budget"].Description)
		require.Equal(t, []string{"Бюджет проекта на следующий квартал"}, taxonomy["budget"].Examples)

		cat, ok := reg.Get("finance")
		require.True(t, ok)
		require.Contains(t, cat.Taxonomy(), "budget")
	})

	t.Run("should deduplicate examples preserving first-seen order", func(t *testing.T) {
		store, log := newStores(t)

		for _, e := range []domain.LogEntry{
			entry("it", "bug_report", 0.9, "Приложение падает при старте"),
			entry("it", "bug_report", 0.9, "Не работает кнопка сохранения"),
			entry("it", "bug_report", 0.95, "Приложение падает при старте"),
		} {
			require.NoError(t, log.Append(ctx, e))
		}

		reg := registry.NewRegistry()
		tr := trainer.NewTrainer(reg, store, log, trainer.NewBuilders(embedder), 0.8)

		swapped, err := tr.RetrainDomain(ctx, "it")
		require.NoError(t, err)
		require.True(t, swapped)

		taxonomy, err := store.Load(ctx, "it")
		require.NoError(t, err)
		require.Equal(t, []string{
			"Приложение падает при старте",
			"Не работает кнопка сохранения",
		}, taxonomy["bug_report"].Examples)
	})

	t.Run("should skip without touching the registry when nothing is mined", func(t *testing.T) {
		store, log := newStores(t)
		require.NoError(t, log.Append(ctx, entry("finance", "invoice", 0.3, "Документ с низкой уверенностью")))

		reg := registry.NewRegistry()
		tr := trainer.NewTrainer(reg, store, log, trainer.NewBuilders(embedder), 0.8)

		swapped, err := tr.RetrainDomain(ctx, "finance")
		require.NoError(t, err)
		require.False(t, swapped)

		_, ok := reg.Get("finance")
		require.False(t, ok)
	})

	t.Run("should reject unknown domains", func(t *testing.T) {
		store, log := newStores(t)
		reg := registry.NewRegistry()
		tr := trainer.NewTrainer(reg, store, log, trainer.NewBuilders(embedder), 0.8)

		_, err := tr.RetrainDomain(ctx, "astronomy")
		require.ErrorIs(t, err, trainer.ErrUnknownDomain)
	})

	t.Run("should make retrained categories reachable through the registry", func(t *testing.T) {
		store, log := newStores(t)
		require.NoError(t, log.Append(ctx,
			entry("it", "incident", 0.9, "Авария на продакшн сервере базы данных")))

		swapEmbedder := &stubEmbedder{vectors: map[string]domain.Vector{
			"Auto-generated category for incident": {1, 0, 0},
			"Упал основной сервер":                 {1, 0, 0},
		}}

		reg := registry.NewRegistry()
		reg.Register("it", categorizer.New(ctx, "it", domain.Taxonomy{
			"bug_report": {Description: "Сообщение об ошибке"},
		}, swapEmbedder))

		tr := trainer.NewTrainer(reg, store, log, trainer.NewBuilders(swapEmbedder), 0.8)

		swapped, err := tr.RetrainDomain(ctx, "it")
		require.NoError(t, err)
		require.True(t, swapped)

		cat, ok := reg.Get("it")
		require.True(t, ok)

		category, confidence := cat.Categorize(ctx, "Упал основной сервер")
		require.Equal(t, "incident", category)
		require.InEpsilon(t, 1.0, confidence, 1e-9)
	})
}

func TestTrainer_RetrainAll(t *testing.T) {
	ctx := context.Background()
	embedder := &stubEmbedder{vectors: map[string]domain.Vector{}}

	t.Run("should isolate per-domain failures", func(t *testing.T) {
		store, _ := newStores(t)
		log := &stubLog{
			entries: map[string][]domain.LogEntry{
				"finance": {entry("finance", "invoice", 0.9, "Счёт на оплату №12 от поставщика")},
			},
		}

		builders := trainer.NewBuilders(embedder)
		builders["broken"] = builders["finance"]

		brokenLog := &failingLog{inner: log, failFor: "broken"}

		reg := registry.NewRegistry()
		tr := trainer.NewTrainer(reg, store, brokenLog, builders, 0.8)

		report := tr.RetrainAll(ctx)

		require.Equal(t, []string{"finance"}, report.Succeeded)
		require.Contains(t, report.Failed, "broken")
		require.NotContains(t, report.Skipped, "finance")
		require.Equal(t, 1, report.SuccessCount())

		_, ok := reg.Get("finance")
		require.True(t, ok)
	})

	t.Run("should skip every domain when all logs are empty", func(t *testing.T) {
		store, log := newStores(t)

		reg := registry.NewRegistry()
		tr := trainer.NewTrainer(reg, store, log, trainer.NewBuilders(embedder), 0.8)

		report := tr.RetrainAll(ctx)

		require.Empty(t, report.Succeeded)
		require.Empty(t, report.Failed)
		require.Len(t, report.Skipped, len(categorizer.Domains()))
	})
}

// failingLog fails Entries for one domain and delegates the rest.
type failingLog struct {
	inner   domain.ResultLog
	failFor string
}

func (f *failingLog) Append(ctx context.Context, entry domain.LogEntry) error {
	return f.inner.Append(ctx, entry)
}

func (f *failingLog) Entries(ctx context.Context, domainKey string) ([]domain.LogEntry, error) {
	if domainKey == f.failFor {
		return nil, errors.New("log backend unavailable")
	}
	return f.inner.Entries(ctx, domainKey)
}
