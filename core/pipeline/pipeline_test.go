package pipeline

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/editions"
	"github.com/gaurav-prasanna/lawpipe/core/parse"
	"github.com/gaurav-prasanna/lawpipe/internal/metrics"
)

const sample = "Глава 1. Общие положения\nСтатья 1. Предмет\nНастоящий закон регулирует отношения.\nСтатья 2. Цели\n1. Цели указаны в статье 1."

const (
	wrappedChapter = `<div class="doc-body"><div class="law-chapter"><div class="law-chapter-title">ГЛАВА 1</div>` +
		`<div class="article-section" id="st1"><h3>Статья 1. Предмет</h3><p>Текст статьи.</p></div></div></div>`
	staleIndex = `<body><details class="law-editions-block"><summary>Редакции документа (1)</summary>` +
		`<div class="law-editions-list"><div class="law-edition-item">01.01.2019</div></div></details><p>Просто текст.</p></body>`
)

var sampleEditions = []core.Edition{
	{ID: "e1", ValidFrom: "2020-01-01", ChangeReason: "Первоначальная редакция", IsCurrent: true},
	{ID: "e2", ValidFrom: "2021-06-01", ChangeReason: "Изменения", Snapshot: "Статья 1. Предмет\nНовый текст."},
}

func TestCanonicalizeScenario(t *testing.T) {
	p := New()
	doc := core.Document{ID: "fz-1", Title: "О тестировании"}

	first := p.Canonicalize(doc, sample, sampleEditions)
	second := p.Canonicalize(doc, sample, sampleEditions)
	assert.Equal(t, first.Document.Body, second.Document.Body)

	assert.False(t, first.Miss)
	require.Len(t, first.Anchors, 2)
	require.Len(t, first.Editions, 2)
	assert.Equal(t, "e2", first.Editions[0].ID)
	assert.True(t, first.Editions[0].IsCurrent)
	assert.False(t, first.Editions[1].IsCurrent)

	body := first.Document.Body
	assert.Equal(t, 1, strings.Count(body, "law-edition-current\""))
	assert.Less(t, strings.Index(body, `data-date="2021-06-01"`), strings.Index(body, `data-date="2020-01-01"`))
	assert.Contains(t, body, `<a class="law-internal-link" href="#article-1">статье 1</a>`)
}

func TestCanonicalizeIdempotent(t *testing.T) {
	inputs := map[string]string{
		"text":     sample,
		"markup":   `<html><body><nav>Меню</nav><p>РАЗДЕЛ I</p><p>Статья 1</p><p>Текст.</p></body></html>`,
		"semantic": `<div id="document"><div id="st1"><h4>Статья 1. Предмет</h4><p>Текст.</p></div></div>`,
		"miss":     "Нет структуры.\nСовсем.",
		"wrapped":  wrappedChapter,
		"stale":    staleIndex,
		"dropdown": `<body><div class="editions-dropdown"><a href="/old">ред. от 01.01.2019</a></div><p>Статья 1. Предмет</p><p>Текст.</p></body>`,
	}
	p := New()
	doc := core.Document{ID: "fz-1", Title: "О тестировании"}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			once := p.Canonicalize(doc, raw, sampleEditions)
			twice := p.Canonicalize(doc, once.Document.Body, sampleEditions)
			assert.Equal(t, once.Document.Body, twice.Document.Body)
			assert.Equal(t, once.Anchors, twice.Anchors)
			assert.Equal(t, once.Miss, twice.Miss)
		})
	}
}

func TestCanonicalizeReplacesStaleIndex(t *testing.T) {
	raw := `<body><details class="law-editions-block"><summary>Редакции документа (1)</summary>` +
		`<div class="law-editions-list"><div class="law-edition-item">01.01.2019</div></div></details>` +
		`<p>Статья 1. Предмет</p><p>Текст.</p></body>`
	p := New()
	out := p.Canonicalize(core.Document{ID: "fz-1", Title: "О тестировании"}, raw, sampleEditions)

	body := out.Document.Body
	assert.Equal(t, 1, strings.Count(body, "law-editions-block"))
	assert.NotContains(t, body, "01.01.2019")
	assert.Less(t, strings.Index(body, "law-editions-block"), strings.Index(body, `class="law-content"`))
	require.Len(t, out.Anchors, 1)
	assert.Empty(t, out.Tree.Preamble)
}

func TestCanonicalizeKeepsWrappedArticles(t *testing.T) {
	out := New().Canonicalize(core.Document{ID: "fz-1"}, wrappedChapter, nil)

	assert.False(t, out.Miss)
	assert.Equal(t, []core.Anchor{{ID: 1, Number: "1", Title: "Предмет"}}, out.Anchors)
	assert.Contains(t, out.Document.Body, "Текст статьи.")
}

func TestCanonicalizeEditionSetChanges(t *testing.T) {
	p := New()
	doc := core.Document{ID: "fz-1", Title: "О тестировании"}

	with := p.Canonicalize(doc, sample, sampleEditions)
	without := p.Canonicalize(doc, with.Document.Body, nil)
	assert.NotContains(t, without.Document.Body, "law-editions-block")
	assert.Equal(t, p.Canonicalize(doc, sample, nil).Document.Body, without.Document.Body)

	one := p.Canonicalize(doc, with.Document.Body, sampleEditions[:1])
	assert.Contains(t, one.Document.Body, "Редакции документа (1)")
}

func TestCanonicalizeReusesPriorTitle(t *testing.T) {
	p := New()
	first := p.Canonicalize(core.Document{ID: "fz-1", Title: "Налоговый кодекс"}, sample, nil)
	second := p.Canonicalize(core.Document{ID: "fz-1"}, first.Document.Body, nil)

	assert.Equal(t, "Налоговый кодекс", second.Document.Title)
	assert.Equal(t, first.Document.Body, second.Document.Body)
}

func TestCanonicalizeLogsAndCounts(t *testing.T) {
	var buf bytes.Buffer
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	p := New(WithLogger(zerolog.New(&buf)), WithMetrics(m))

	out := p.Canonicalize(core.Document{ID: "fz-9"}, "Нет структуры.", []core.Edition{
		{ID: "bad", ValidFrom: "когда-то"},
		{ID: "ok", ValidFrom: "2020-01-01"},
	})

	assert.True(t, out.Miss)
	assert.Equal(t, 1, out.SkippedEditions)
	assert.Contains(t, buf.String(), "no structural markers recognized")
	assert.Contains(t, buf.String(), "edition skipped")
	assert.Contains(t, buf.String(), `"document":"fz-9"`)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.MissesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsTotal.WithLabelValues("pattern")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EditionsSkippedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EditionsMergedTotal))
}

func TestCanonicalizeOptions(t *testing.T) {
	v := parse.DefaultVocabulary().Extend(nil, nil, nil, []string{"article"})
	p := New(
		WithVocabulary(v),
		WithCrossReferences(false),
		WithIdentity(editions.IdentitySourceID),
		WithFragmentOptions(editions.FragmentOptions{LinkFormat: "/docs/%s/%s", MaxItems: 1}),
	)

	out := p.Canonicalize(core.Document{ID: "fz-1"}, "Article 1. Scope\nSee статья 1.", []core.Edition{
		{ID: "a", ValidFrom: "2020-01-01"},
		{ID: "b", ValidFrom: "2020-01-01"},
	})

	require.Len(t, out.Anchors, 1)
	require.Len(t, out.Editions, 2)
	body := out.Document.Body
	assert.NotContains(t, body, "law-internal-link")
	assert.Contains(t, body, `href="/docs/fz-1/a"`)
	assert.NotContains(t, body, `href="/docs/fz-1/b"`)
}

func TestRenderEdition(t *testing.T) {
	p := New()
	doc := core.Document{ID: "fz-1", Title: "О тестировании"}

	out, err := p.RenderEdition(doc, "e2", sampleEditions)
	require.NoError(t, err)
	assert.Contains(t, out.Document.Body, `<div class="law-amended">ред. от 01.06.2021</div>`)
	assert.Contains(t, out.Document.Body, "Новый текст.")
	assert.Contains(t, out.Document.Body, "Редакции документа (2)")
	assert.True(t, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC).Equal(out.Document.AmendedAt))

	_, err = p.RenderEdition(doc, "e1", sampleEditions)
	assert.ErrorIs(t, err, ErrNoSnapshot)

	_, err = p.RenderEdition(doc, "e9", sampleEditions)
	assert.ErrorIs(t, err, ErrUnknownEdition)
}
