package prospect

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Loan69/ai-agent-prospection/internal/feed"
	"github.com/Loan69/ai-agent-prospection/internal/llm"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

func feedAgent(st *mockStore, src *mockFeed, comp llm.Completer, n *mockNotifier) *Agent {
	cfg := testConfig()
	cfg.Matcher = feed.NewMatcher(nil, 0)
	deps := Deps{Store: st, Feed: src, Completer: comp}
	if n != nil {
		deps.Notifier = n
	}
	return New(cfg, deps)
}

func TestFeedRun_FullFlow(t *testing.T) {
	now := time.Now()
	items := []model.FeedItem{
		{Title: "Création d'un SaaS de réservation", Description: "MVP en 3 mois", Link: "https://www.codeur.com/projects/1", PublishedAt: &now},
		{Title: "Refonte site vitrine", Description: "déjà traité", Link: "https://www.codeur.com/projects/2"},
		{Title: "Traduction de documents", Description: "anglais vers français", Link: "https://www.codeur.com/projects/3"},
		{Title: "Application mobile de livraison", Description: "budget trop faible", Link: "https://www.codeur.com/projects/4"},
	}

	src := &mockFeed{}
	src.On("Fetch", mock.Anything).Return(items, nil)

	st := &mockStore{}
	st.On("ProjectExists", mock.Anything, "https://www.codeur.com/projects/1").Return(false, nil)
	st.On("ProjectExists", mock.Anything, "https://www.codeur.com/projects/2").Return(true, nil)
	st.On("ProjectExists", mock.Anything, "https://www.codeur.com/projects/4").Return(false, nil)
	st.On("UpsertProject", mock.Anything, mock.MatchedBy(func(p model.ProjectRecord) bool {
		return p.URL == "https://www.codeur.com/projects/1" && p.Matched &&
			p.Score != nil && *p.Score == 7 &&
			p.MessageGenerated == "Bonjour, je peux livrer votre MVP."
	})).Return(nil).Once()

	comp := llm.CompleterFunc(func(_ context.Context, req llm.Request) (*llm.Completion, error) {
		if req.Task != "message" {
			return nil, errors.New("unexpected task " + req.Task)
		}
		if strings.Contains(req.Prompt, "budget trop faible") {
			return completion("SKIP"), nil
		}
		return completion("NOTE: 7/10\nMESSAGE: Bonjour, je peux livrer votre MVP."), nil
	})

	n := &mockNotifier{}
	n.On("ProjectQualified", mock.Anything, mock.Anything).Return(nil).Once()

	rec := &recorder{}
	tally, err := feedAgent(st, src, comp, n).FeedRun(context.Background(), rec)
	require.NoError(t, err)

	assert.Equal(t, Tally{
		Total:            4,
		Relevant:         3,
		Qualified:        1,
		SkippedExisting:  1,
		SkippedLowScore:  1,
		SkippedUnmatched: 1,
	}, tally)
	assert.Equal(t, EventComplete, rec.last().Type)
	st.AssertExpectations(t)
	n.AssertExpectations(t)
}

func TestFeedRun_FetchFailureDegrades(t *testing.T) {
	src := &mockFeed{}
	src.On("Fetch", mock.Anything).Return(nil, errors.New("feed: unexpected status 502"))

	rec := &recorder{}
	tally, err := feedAgent(&mockStore{}, src, &mockCompleter{}, nil).FeedRun(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, Tally{}, tally)
	assert.Equal(t, 1, rec.count(EventWarning))
	assert.Equal(t, EventComplete, rec.last().Type)
}

func TestFeedRun_StaleItemsUnmatched(t *testing.T) {
	old := time.Now().Add(-48 * time.Hour)
	src := &mockFeed{}
	src.On("Fetch", mock.Anything).Return([]model.FeedItem{
		{Title: "Développement web", Link: "u", PublishedAt: &old},
	}, nil)

	tally, err := feedAgent(&mockStore{}, src, &mockCompleter{}, nil).FeedRun(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.SkippedUnmatched)
	assert.Equal(t, 0, tally.Relevant)
}

func TestFeedRun_CompletionErrorFails(t *testing.T) {
	src := &mockFeed{}
	src.On("Fetch", mock.Anything).Return([]model.FeedItem{
		{Title: "Site vitrine pour artisan", Link: "u1"},
	}, nil)
	st := &mockStore{}
	st.On("ProjectExists", mock.Anything, "u1").Return(false, nil)

	comp := &mockCompleter{}
	comp.On("Complete", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	tally, err := feedAgent(st, src, comp, nil).FeedRun(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, tally.Failed)
	st.AssertNotCalled(t, "UpsertProject", mock.Anything, mock.Anything)
}

func TestFeedRun_NoCompleterAborts(t *testing.T) {
	src := &mockFeed{}
	st := &mockStore{}

	rec := &recorder{}
	tally, err := feedAgent(st, src, nil, nil).FeedRun(context.Background(), rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoCompleter)
	assert.Equal(t, Tally{}, tally)
	assert.Equal(t, 1, rec.count(EventError))
	assert.Equal(t, EventComplete, rec.last().Type)
	src.AssertNotCalled(t, "Fetch", mock.Anything)
	st.AssertNotCalled(t, "ProjectExists", mock.Anything, mock.Anything)
}

func TestFeedRun_NoSource(t *testing.T) {
	a := New(testConfig(), Deps{Store: &mockStore{}})
	_, err := a.FeedRun(context.Background(), nil)
	assert.Error(t, err)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "Dév...", truncate("Développement", 3))
}
