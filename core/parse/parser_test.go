package parse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/lawpipe/core"
	"github.com/gaurav-prasanna/lawpipe/core/normalize"
)

func parseRaw(t *testing.T, raw string) *core.Tree {
	t.Helper()
	tree := New().Parse(normalize.New().Normalize(raw))
	require.NotNil(t, tree)
	require.NotEmpty(t, tree.Children)
	return tree
}

func TestParseArticlesFromText(t *testing.T) {
	tree := parseRaw(t, "Статья 1. Общие положения\nТекст.\nСтатья 2. Другое\nЕщё текст.")

	assert.Equal(t, core.StrategyPattern, tree.Strategy)
	assert.False(t, tree.Miss)

	articles := tree.Articles()
	require.Len(t, articles, 2)
	assert.Equal(t, 1, articles[0].Anchor)
	assert.Equal(t, 2, articles[1].Anchor)
	assert.Equal(t, "Общие положения", articles[0].Title)
	assert.Equal(t, "Другое", articles[1].Title)
	require.Len(t, articles[0].Children, 1)
	require.Len(t, articles[1].Children, 1)
	assert.Equal(t, "Текст.", articles[0].Children[0].Text)
	assert.Equal(t, "Ещё текст.", articles[1].Children[0].Text)

	// Articles without a declared container land in one synthetic bucket.
	require.Len(t, tree.Children, 1)
	assert.True(t, tree.Children[0].Synthetic)
	assert.Equal(t, core.KindSection, tree.Children[0].Kind)
}

func TestParseChapterWithoutSection(t *testing.T) {
	tree := parseRaw(t, "Глава 1. Основы\nСтатья 1. Предмет\nТекст.")

	require.Len(t, tree.Children, 1)
	section := tree.Children[0]
	assert.Equal(t, core.KindSection, section.Kind)
	assert.True(t, section.Synthetic)

	require.Len(t, section.Children, 1)
	chapter := section.Children[0]
	assert.Equal(t, core.KindChapter, chapter.Kind)
	assert.Equal(t, "1", chapter.Number)
	assert.Equal(t, "Основы", chapter.Title)
	require.Len(t, chapter.Children, 1)
	assert.Equal(t, core.KindArticle, chapter.Children[0].Kind)
}

func TestParseFullHierarchy(t *testing.T) {
	raw := strings.Join([]string{
		"Преамбула закона.",
		"ЧАСТЬ ПЕРВАЯ",
		"РАЗДЕЛ I. ОБЩИЕ ПОЛОЖЕНИЯ",
		"ГЛАВА 1.1 ОСНОВЫ",
		"Статья 5.1. Нормы",
		"1. Первый пункт.",
		"а) подпункт.",
		"Статья 5-2 Иное",
		"ЧАСТЬ ВТОРАЯ",
		"Статья 6. Вне раздела",
	}, "\n")
	tree := parseRaw(t, raw)

	require.Len(t, tree.Preamble, 1)
	assert.Equal(t, "Преамбула закона.", tree.Preamble[0].Text)

	require.Len(t, tree.Children, 2)
	first, second := tree.Children[0], tree.Children[1]
	assert.Equal(t, core.KindPart, first.Kind)
	assert.Equal(t, "ПЕРВАЯ", first.Number)

	section := first.Children[0]
	assert.Equal(t, "I", section.Number)
	assert.Equal(t, "ОБЩИЕ ПОЛОЖЕНИЯ", section.Title)
	chapter := section.Children[0]
	assert.Equal(t, "1.1", chapter.Number)

	require.Len(t, chapter.Children, 2)
	art := chapter.Children[0]
	assert.Equal(t, "5.1", art.Number)
	assert.Equal(t, "Нормы", art.Title)
	require.Len(t, art.Children, 2)
	assert.Equal(t, core.ItemNumbered, art.Children[0].Item)
	assert.Equal(t, "1", art.Children[0].Number)
	assert.Equal(t, "Первый пункт.", art.Children[0].Text)
	assert.Equal(t, core.ItemLettered, art.Children[1].Item)
	assert.Equal(t, "а", art.Children[1].Number)
	assert.Equal(t, "5-2", chapter.Children[1].Number)
	assert.Equal(t, "Иное", chapter.Children[1].Title)

	// An article in a part without sections gets a bucket inside the part.
	require.Len(t, second.Children, 1)
	bucket := second.Children[0]
	assert.True(t, bucket.Synthetic)
	require.Len(t, bucket.Children, 1)
	assert.Equal(t, 3, bucket.Children[0].Anchor)
}

func TestParseAnchorsUniqueWithRepeatedNumbers(t *testing.T) {
	tree := parseRaw(t, "Статья 1. А\nСтатья 1. Б\nСтатья 1. В")

	want := []core.Anchor{
		{ID: 1, Number: "1", Title: "А"},
		{ID: 2, Number: "1", Title: "Б"},
		{ID: 3, Number: "1", Title: "В"},
	}
	if diff := cmp.Diff(want, tree.Anchors()); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	tree := parseRaw(t, "статья 3 текст заголовка\nСТАТЬЯ 4.")
	articles := tree.Articles()
	require.Len(t, articles, 2)
	assert.Equal(t, "3", articles[0].Number)
	assert.Equal(t, "текст заголовка", articles[0].Title)
	assert.Equal(t, "4", articles[1].Number)
	assert.Empty(t, articles[1].Title)
}

func TestParseDegenerateInput(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		tree := parseRaw(t, "")
		assert.False(t, tree.Miss)
		require.Len(t, tree.Children, 1)
		assert.True(t, tree.Children[0].Synthetic)
		assert.Empty(t, tree.Children[0].Children)
	})
	t.Run("no markers", func(t *testing.T) {
		tree := parseRaw(t, "Просто текст.\nЕщё строка.")
		assert.True(t, tree.Miss)
		require.Len(t, tree.Children, 1)
		assert.Len(t, tree.Preamble, 2)
	})
	t.Run("nil content", func(t *testing.T) {
		tree := New().Parse(nil)
		require.Len(t, tree.Children, 1)
		assert.False(t, tree.Miss)
	})
}

func TestParseMarkupLines(t *testing.T) {
	tree := parseRaw(t, `<html><body><p>Статья 1. Первая</p><p>Текст <b>жирный</b> продолжение.</p><p>Статья 2. Вторая</p></body></html>`)

	assert.Equal(t, core.StrategyPattern, tree.Strategy)
	articles := tree.Articles()
	require.Len(t, articles, 2)
	require.Len(t, articles[0].Children, 1)
	assert.Equal(t, "Текст жирный продолжение.", articles[0].Children[0].Text)
}

func TestParseSemanticMarkup(t *testing.T) {
	raw := `<div class="doc-body">
<div class="law-chapter" data-number="2"><div class="law-chapter-title">ГЛАВА 2</div><div class="law-chapter-name">Права</div></div>
<div class="law-article" id="article-7" data-number="10"><h3 class="law-article-title">Статья 10. Свобода</h3>
<div class="law-article-content"><p>1. Каждый вправе.</p><p>Статья 99 упоминается в тексте.</p></div></div>
<p>Текст главы.</p>
</div>`
	tree := parseRaw(t, raw)

	assert.Equal(t, core.StrategySemantic, tree.Strategy)
	require.Len(t, tree.Children, 1)
	chapter := tree.Children[0].Children[0]
	assert.Equal(t, core.KindChapter, chapter.Kind)
	assert.Equal(t, "2", chapter.Number)
	assert.Equal(t, "Права", chapter.Title)

	require.Len(t, chapter.Children, 2)
	art := chapter.Children[0]
	assert.Equal(t, "10", art.Number)
	assert.Equal(t, 1, art.Anchor)
	assert.Equal(t, "Свобода", art.Title)
	require.Len(t, art.Children, 2)
	// Lines inside an article element are never treated as markers.
	assert.Equal(t, "Статья 99 упоминается в тексте.", art.Children[1].Text)
	assert.Equal(t, "Текст главы.", chapter.Children[1].Text)
}

func TestParseMarkerWrappingArticles(t *testing.T) {
	raw := `<div class="doc-body">
<div class="law-chapter"><div class="law-chapter-title">ГЛАВА 1</div>
<p>Вводные слова главы.</p>
<div class="article-section" id="st1"><h3>Статья 1. Предмет</h3><p>Текст статьи.</p></div>
</div>
<div class="law-section"><h2>РАЗДЕЛ II. Особенная часть</h2>
<div class="law-article"><h3>Статья 2. Цели</h3><p>Текст второй статьи.</p></div>
</div>
</div>`
	tree := parseRaw(t, raw)

	assert.Equal(t, core.StrategySemantic, tree.Strategy)
	assert.False(t, tree.Miss)
	require.Len(t, tree.Children, 2)

	chapter := tree.Children[0].Children[0]
	assert.Equal(t, core.KindChapter, chapter.Kind)
	assert.Equal(t, "1", chapter.Number)
	require.Len(t, chapter.Children, 2)
	assert.Equal(t, "Вводные слова главы.", chapter.Children[0].Text)
	art := chapter.Children[1]
	assert.Equal(t, "Предмет", art.Title)
	require.Len(t, art.Children, 1)
	assert.Equal(t, "Текст статьи.", art.Children[0].Text)

	section := tree.Children[1]
	assert.Equal(t, "II", section.Number)
	assert.Equal(t, "Особенная часть", section.Title)
	require.Len(t, section.Children, 1)
	assert.Equal(t, "Цели", section.Children[0].Title)
	assert.Equal(t, 2, section.Children[0].Anchor)
}

func TestParseInlineAnchorIsNotAnArticle(t *testing.T) {
	raw := `<body><p><a id="st5">Статья 5.</a> Права граждан</p><p>Текст статьи пять.</p>
<div id="st6-note"><p>Сноска.</p></div></body>`
	tree := parseRaw(t, raw)

	assert.Equal(t, core.StrategyPattern, tree.Strategy)
	articles := tree.Articles()
	require.Len(t, articles, 1)
	assert.Equal(t, "5", articles[0].Number)
	assert.Equal(t, "Права граждан", articles[0].Title)
	require.Len(t, articles[0].Children, 2)
	assert.Equal(t, "Текст статьи пять.", articles[0].Children[0].Text)
	assert.Equal(t, "Сноска.", articles[0].Children[1].Text)
}

func TestParsePartReferenceIsNotAMarker(t *testing.T) {
	tree := parseRaw(t, strings.Join([]string{
		"Статья 7. Изменения",
		"Часть 2 статьи 7 признать утратившей силу.",
		"часть первая статьи 8 дополнить словами.",
		"Статья 8. Сроки",
	}, "\n"))

	require.Len(t, tree.Children, 1)
	articles := tree.Articles()
	require.Len(t, articles, 2)
	require.Len(t, articles[0].Children, 2)
	assert.Equal(t, "Часть 2 статьи 7 признать утратившей силу.", articles[0].Children[0].Text)
	assert.Equal(t, 2, articles[1].Anchor)
}

func TestParseOrdinalNumbers(t *testing.T) {
	tree := parseRaw(t, "Часть вторая. Обязательства\nГлава первая Общие положения\nСтатья 1. Предмет")

	require.Len(t, tree.Children, 1)
	part := tree.Children[0]
	assert.Equal(t, "вторая", part.Number)
	assert.Equal(t, "Обязательства", part.Title)
	chapter := part.Children[0].Children[0]
	assert.Equal(t, core.KindChapter, chapter.Kind)
	assert.Equal(t, "первая", chapter.Number)
	assert.Equal(t, "Общие положения", chapter.Title)

	sem := parseRaw(t, `<div id="document"><div class="law-chapter"><div class="law-chapter-title">Глава первая</div>`+
		`<div class="law-chapter-name">Основы</div></div><div class="law-article"><h3>Статья 1.</h3></div></div>`)
	chapter = sem.Children[0].Children[0]
	assert.Equal(t, "первая", chapter.Number)
	assert.Equal(t, "Основы", chapter.Title)
}

func TestParseParagraphSignStaysText(t *testing.T) {
	tree := parseRaw(t, "Глава 1. Общие\n§ 1. Лица\nСтатья 1. Правоспособность")

	chapter := tree.Children[0].Children[0]
	require.Len(t, chapter.Children, 2)
	assert.Equal(t, core.KindParagraph, chapter.Children[0].Kind)
	assert.Equal(t, "§ 1. Лица", chapter.Children[0].Text)
	assert.Equal(t, core.KindArticle, chapter.Children[1].Kind)
}

func TestParsePortalIDs(t *testing.T) {
	raw := `<div id="document">
<div id="st5_1"><h4>Статья 5.1. Особые случаи</h4><p>Текст.</p></div>
<div id="ст-6"><p>Без заголовка.</p></div>
<div class="article" id="article-3"><h4>Заголовок</h4></div>
</div>`
	tree := parseRaw(t, raw)

	assert.Equal(t, core.StrategySemantic, tree.Strategy)
	articles := tree.Articles()
	require.Len(t, articles, 3)
	assert.Equal(t, "5.1", articles[0].Number)
	assert.Equal(t, "Особые случаи", articles[0].Title)
	assert.Equal(t, "6", articles[1].Number)
	require.Len(t, articles[1].Children, 1)
	// article-N ids never yield a number.
	assert.Empty(t, articles[2].Number)
	assert.Equal(t, "Заголовок", articles[2].Title)
}

func TestParseWithExtendedVocabulary(t *testing.T) {
	v := DefaultVocabulary().Extend(nil, nil, []string{"chapter"}, []string{"article"})
	tree := New(WithVocabulary(v)).Parse(normalize.New().Normalize("Chapter IV Scope\nArticle 3. Terms\nText."))

	require.Len(t, tree.Children, 1)
	chapter := tree.Children[0].Children[0]
	assert.Equal(t, "IV", chapter.Number)
	assert.Equal(t, "Scope", chapter.Title)
	require.Len(t, tree.Articles(), 1)
	assert.Equal(t, "Terms", tree.Articles()[0].Title)
}

func TestSplitHeading(t *testing.T) {
	v := DefaultVocabulary()
	tests := []struct {
		name       string
		number     string
		text       string
		wantNumber string
		wantTitle  string
	}{
		{"rendered", "5.1", "Статья 5.1. Нормы", "5.1", "Нормы"},
		{"number only", "5", "Статья 5", "5", ""},
		{"label only", "", "Статья", "", ""},
		{"recognized", "", "Статья 12. Срок", "12", "Срок"},
		{"free text", "", "Заключительные положения", "", "Заключительные положения"},
		{"known number wins", "7", "статья 7 — Иное", "7", "Иное"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			number, title := v.SplitHeading(core.KindArticle, tt.number, tt.text)
			assert.Equal(t, tt.wantNumber, number)
			assert.Equal(t, tt.wantTitle, title)
		})
	}
}
