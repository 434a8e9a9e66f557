package scribe

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/scribe/internal/core/diffview"
	"github.com/colonyops/scribe/internal/core/document"
	"github.com/colonyops/scribe/internal/core/review"
	"github.com/colonyops/scribe/internal/core/suggest"
)

type memStore struct {
	decisions []review.Decision
}

func (m *memStore) SaveDecision(_ context.Context, d review.Decision) error {
	m.decisions = append(m.decisions, d)
	return nil
}

func (m *memStore) ListDecisions(context.Context, string, int) ([]review.Decision, error) {
	return m.decisions, nil
}

func (m *memStore) CountByOutcome(context.Context) (map[review.Outcome]int, error) {
	counts := map[review.Outcome]int{}
	for _, d := range m.decisions {
		counts[d.Outcome]++
	}
	return counts, nil
}

func (m *memStore) Clear(context.Context) error {
	m.decisions = nil
	return nil
}

func newEditor(t *testing.T, text string, batch ...suggest.Suggestion) *Editor {
	t.Helper()
	e := New(text, Options{Width: 80, Strict: true})
	t.Cleanup(e.Close)
	if len(batch) > 0 {
		require.NoError(t, e.ApplyBatch(batch))
	}
	return e
}

func s(original, replacement string) suggest.Suggestion {
	return suggest.Suggestion{OriginalText: original, ReplacementText: replacement, Category: "Style"}
}

func cardIDs(e *Editor) []int {
	var ids []int
	for _, c := range e.Cards() {
		ids = append(ids, c.SuggestionIndex)
	}
	return ids
}

func shownCount(e *Editor) int {
	n := 0
	for id := range e.Batch().Suggestions {
		if st, _ := e.State(id); st == review.DiffShown {
			n++
		}
	}
	return n
}

func diffNodes(doc *document.Document) int {
	n := 0
	for _, b := range doc.Blocks() {
		for _, node := range b.Nodes {
			if node.Kind == document.KindDiff {
				n++
			}
		}
	}
	return n
}

func TestAcceptScenario(t *testing.T) {
	ctx := context.Background()
	e := newEditor(t, "He ran quickly to the store.", suggest.Suggestion{
		OriginalText:    "He ran quickly",
		ReplacementText: "He sprinted",
		Category:        "Adverb",
	})

	assert.Equal(t, `<p><mark data-suggestion="0">He ran quickly</mark> to the store.</p>`, e.Document().Markup())
	assert.Equal(t, []int{0}, cardIDs(e))

	require.NoError(t, e.ShowDiff(0))
	_, n, ok := e.Document().Find(0)
	require.True(t, ok)
	assert.Equal(t, "He ran quickly", n.Deletion)
	assert.Equal(t, "He sprinted", n.Insertion)

	require.NoError(t, e.AcceptDiff(ctx, 0))

	assert.Equal(t, "He sprinted to the store.", e.PlainText())
	assert.Empty(t, e.Active())
	assert.Empty(t, e.Cards())
	st, _ := e.State(0)
	assert.Equal(t, review.Accepted, st)
}

func TestDuplicateTextScenario(t *testing.T) {
	e := newEditor(t, "The food was very good.",
		s("very good", "excellent"),
		s("very good", "great"),
	)

	_, ok := e.Locate(0)
	assert.True(t, ok)
	_, ok = e.Locate(1)
	assert.False(t, ok)

	assert.Equal(t, []int{0}, cardIDs(e))
	assert.Len(t, e.Active(), 2, "unanchored suggestion stays active")
	assert.Equal(t, []int{1}, e.Missing())
}

func TestDeleteAnchorWhileOtherDiffShown(t *testing.T) {
	e := newEditor(t, "Start here. The plan was very good and also quite unique.",
		s("Start here", "Begin"),
		s("very good", "excellent"),
		s("quite unique", "unique"),
	)

	require.NoError(t, e.ShowDiff(1))
	before, ok := e.Locate(1)
	require.True(t, ok)

	doc := e.Document()
	start := len("Start here. The plan was very good and also ")
	_, err := e.DeleteRange(document.Pos{Offset: start}, document.Pos{Offset: start + len("quite unique")})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1}, cardIDs(e))
	after, ok := e.Locate(1)
	require.True(t, ok)
	assert.Equal(t, before, after)

	st, _ := e.State(1)
	assert.Equal(t, review.DiffShown, st)
	open, ok := e.Open()
	assert.True(t, ok)
	assert.Equal(t, 1, open)
	assert.Equal(t, 1, diffNodes(doc))
}

func TestShowThenRejectRestoresPlainText(t *testing.T) {
	ctx := context.Background()
	e := newEditor(t, "alpha beta gamma\nbeta again",
		s("beta", "BETA"),
		s("gamma", "GAMMA"),
		s("again", "AGAIN"),
	)
	before := e.PlainText()

	for id := range 3 {
		require.NoError(t, e.ShowDiff(id))
		require.NoError(t, e.RejectDiff(ctx, id))
		assert.Equal(t, before, e.PlainText())
	}

	assert.Empty(t, e.Active(), "reject is terminal")
	assert.Empty(t, e.Cards())
	assert.Equal(t, "<p>alpha beta gamma</p>\n<p>beta again</p>", e.Document().Markup())
}

func TestAtMostOneDiffShown(t *testing.T) {
	e := newEditor(t, "one two three",
		s("one", "1"),
		s("two", "2"),
		s("three", "3"),
	)

	for _, id := range []int{0, 2, 1, 1, 0} {
		require.NoError(t, e.ShowDiff(id))
		assert.Equal(t, 1, shownCount(e))
		assert.Equal(t, 1, diffNodes(e.Document()))
	}

	st, _ := e.State(2)
	assert.Equal(t, review.Highlighted, st, "collapsed, not resolved")
	assert.Equal(t, "one two three", e.PlainText())
}

func TestAcceptKeepsOtherAnchors(t *testing.T) {
	e := newEditor(t, "He ran quickly to the store and back.",
		s("He ran quickly", "He sprinted"),
		s("the store", "the shop"),
		s("back", "home"),
	)

	require.NoError(t, e.ShowDiff(0))
	require.NoError(t, e.AcceptDiff(context.Background(), 0))

	assert.Equal(t, "He sprinted to the store and back.", e.PlainText())
	for _, id := range []int{1, 2} {
		_, n, ok := e.Document().Find(id)
		require.True(t, ok)
		sug, _ := e.Suggestion(id)
		assert.Equal(t, sug.OriginalText, n.Text)
	}
	assert.Equal(t, []int{1, 2}, cardIDs(e))
}

func TestShowDiffRefusals(t *testing.T) {
	e := newEditor(t, "He ran quickly to the store.",
		s("He ran quickly", "He sprinted"),
		s("missing text", "x"),
	)

	_, err := e.InsertText(document.Pos{Offset: 3}, "x")
	require.NoError(t, err)
	assert.ErrorIs(t, e.ShowDiff(0), diffview.ErrStaleMatch)
	assert.ErrorIs(t, e.ShowDiff(1), diffview.ErrAnchorMissing)
	assert.ErrorIs(t, e.ShowDiff(9), review.ErrUnknownSuggestion)

	_, ok := e.Open()
	assert.False(t, ok)
	assert.ErrorIs(t, e.AcceptDiff(context.Background(), 0), review.ErrNotShown)
}

func TestEditInsideDiffCollapsesIt(t *testing.T) {
	e := newEditor(t, "it was good", s("good", "great"))
	require.NoError(t, e.ShowDiff(0))

	_, err := e.InsertText(document.Pos{Offset: 9}, "o")
	require.NoError(t, err)

	_, ok := e.Open()
	assert.False(t, ok)
	st, _ := e.State(0)
	assert.Equal(t, review.Highlighted, st)
	assert.ErrorIs(t, e.ShowDiff(0), diffview.ErrStaleMatch)
}

func TestAnalysisGenerations(t *testing.T) {
	e := newEditor(t, "alpha beta")

	first := e.BeginAnalysis()
	second := e.BeginAnalysis()

	require.NoError(t, e.CompleteAnalysis(second, []suggest.Suggestion{s("beta", "b")}, nil))
	err := e.CompleteAnalysis(first, []suggest.Suggestion{s("alpha", "a")}, nil)
	require.ErrorIs(t, err, ErrSuperseded)

	require.Len(t, e.Active(), 1)
	assert.Equal(t, "beta", e.Active()[0].OriginalText)
	assert.Equal(t, second, e.Batch().Generation)
}

func TestAnalysisFailureKeepsActiveSet(t *testing.T) {
	e := newEditor(t, "alpha beta", s("alpha", "a"))
	batchID := e.Batch().ID

	gen := e.BeginAnalysis()
	err := e.CompleteAnalysis(gen, nil, errors.New("backend unavailable"))

	require.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Equal(t, batchID, e.Batch().ID)
	assert.Len(t, e.Active(), 1)
	assert.Equal(t, []int{0}, cardIDs(e))
}

func TestBatchReplacementIsAtomic(t *testing.T) {
	e := newEditor(t, "alpha beta", s("alpha", "a"))
	require.NoError(t, e.ShowDiff(0))
	e.Cards()
	passes := e.Passes()

	require.NoError(t, e.ApplyBatch([]suggest.Suggestion{s("beta", "b")}))

	assert.Equal(t, `<p>alpha <mark data-suggestion="0">beta</mark></p>`, e.Document().Markup())
	_, ok := e.Open()
	assert.False(t, ok)
	assert.Equal(t, []int{0}, cardIDs(e))
	assert.Equal(t, passes+1, e.Passes(), "one recompute for the whole replacement")
}

func TestAppendTextTriggersRecompute(t *testing.T) {
	e := newEditor(t, "Draft", s("Draft", "Final"))
	e.Cards()
	passes := e.Passes()

	_, err := e.AppendText(" and more.\nNext paragraph.")
	require.NoError(t, err)

	assert.Equal(t, []int{0}, cardIDs(e))
	assert.Equal(t, passes+1, e.Passes())
	assert.Equal(t, "Draft and more.\nNext paragraph.", e.PlainText())
}

func TestCardsSortedForAnyBatchOrder(t *testing.T) {
	e := newEditor(t, "first\nsecond\nthird\nfourth")

	require.NoError(t, e.ApplyBatch([]suggest.Suggestion{
		s("fourth", "4"), s("second", "2"), s("third", "3"), s("first", "1"),
	}))

	cards := e.Cards()
	require.Len(t, cards, 4)
	for i := 1; i < len(cards); i++ {
		assert.Less(t, cards[i-1].VerticalOffset, cards[i].VerticalOffset)
	}
	assert.Equal(t, []int{3, 1, 2, 0}, cardIDs(e))
}

func TestResizeMovesCards(t *testing.T) {
	e := newEditor(t, "one two three four five six", s("six", "6"))
	require.Equal(t, 0, e.Cards()[0].VerticalOffset)

	e.Resize(8)

	assert.Positive(t, e.Cards()[0].VerticalOffset)
}

func TestDecisionsRecorded(t *testing.T) {
	store := &memStore{}
	e := New("alpha beta", Options{Width: 80, Path: "notes.md", Decisions: store})
	t.Cleanup(e.Close)
	require.NoError(t, e.ApplyBatch([]suggest.Suggestion{s("alpha", "a"), s("beta", "b")}))

	ctx := context.Background()
	require.NoError(t, e.ShowDiff(0))
	require.NoError(t, e.AcceptDiff(ctx, 0))
	require.NoError(t, e.ShowDiff(1))
	require.NoError(t, e.RejectDiff(ctx, 1))

	require.Len(t, store.decisions, 2)
	assert.Equal(t, review.OutcomeAccepted, store.decisions[0].Outcome)
	assert.Equal(t, review.OutcomeRejected, store.decisions[1].Outcome)
	assert.Equal(t, "notes.md", store.decisions[1].DocumentPath)
	assert.Equal(t, e.Batch().ID, store.decisions[0].BatchID)
	assert.Equal(t, "Style", store.decisions[0].Category)
}

func TestBackspaceAndRewriteInput(t *testing.T) {
	e := newEditor(t, "one\ntwo\nthree\nfour")

	pos, err := e.Backspace(document.Pos{Block: 1})
	require.NoError(t, err)
	assert.Equal(t, document.Pos{Block: 0, Offset: 3}, pos)
	assert.Equal(t, "onetwo\nthree\nfour", e.PlainText())

	original, surrounding := e.RewriteInput(document.Pos{Block: 1, Offset: 5}, document.Pos{Block: 1, Offset: 0})
	assert.Equal(t, "three", original)
	assert.Equal(t, "onetwo\nthree\nfour", surrounding)
}
