package client

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"examdrill/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSyncer struct {
	requests []*dto.UpsertResponseRequest
	err      error
}

func (r *recordingSyncer) SaveResponse(ctx context.Context, req *dto.UpsertResponseRequest) (*dto.ResponseItem, error) {
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.ResponseItem{QuestionID: req.QuestionID}, nil
}

func sessionQuestions(n int) []dto.QuestionResponse {
	questions := make([]dto.QuestionResponse, n)
	for i := range questions {
		questions[i] = dto.QuestionResponse{
			ID:           fmt.Sprintf("q%d", i+1),
			Subject:      "Airway",
			Category:     "Airway, Respiration & Ventilation",
			QuestionText: fmt.Sprintf("question %d", i+1),
		}
	}
	return questions
}

func TestSelectAnswer_RecordsAndSyncs(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewSession(syncer)
	s.SetQuestions(sessionQuestions(3))

	s.SelectAnswer(context.Background(), "q1", "b")

	answer, ok := s.Answer("q1")
	require.True(t, ok)
	assert.Equal(t, "b", answer)

	require.Len(t, syncer.requests, 1)
	assert.Equal(t, "q1", syncer.requests[0].QuestionID)
	require.NotNil(t, syncer.requests[0].UserAnswer)
	assert.Equal(t, "b", *syncer.requests[0].UserAnswer)
}

func TestSelectAnswer_ToggleOffKeepsEntry(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewSession(syncer)
	s.SetQuestions(sessionQuestions(1))

	s.SelectAnswer(context.Background(), "q1", "b")
	s.SelectAnswer(context.Background(), "q1", "b")

	answer, ok := s.Answer("q1")
	require.True(t, ok, "the entry stays after clearing")
	assert.Empty(t, answer)

	require.Len(t, syncer.requests, 2)
	require.NotNil(t, syncer.requests[1].UserAnswer)
	assert.Empty(t, *syncer.requests[1].UserAnswer, "the cleared answer is written as empty")
}

func TestSelectAnswer_SwitchChoice(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewSession(syncer)
	s.SetQuestions(sessionQuestions(1))

	s.SelectAnswer(context.Background(), "q1", "b")
	s.SelectAnswer(context.Background(), "q1", "c")

	answer, _ := s.Answer("q1")
	assert.Equal(t, "c", answer)
}

func TestSelectAnswer_NoRollbackOnSyncFailure(t *testing.T) {
	var gotErr error
	syncer := &recordingSyncer{err: errors.New("write failed")}
	s := NewSession(syncer, WithSyncErrorHandler(func(err error) { gotErr = err }))
	s.SetQuestions(sessionQuestions(1))

	s.SelectAnswer(context.Background(), "q1", "b")

	answer, ok := s.Answer("q1")
	require.True(t, ok)
	assert.Equal(t, "b", answer, "local state survives the failed write")
	assert.Error(t, gotErr)
	assert.True(t, s.OutOfSync(), "a failed write marks the session for refetch")

	s.ClearOutOfSync()
	assert.False(t, s.OutOfSync())
}

func TestToggleBookmark_SendsNewFlagWithAnswerSnapshot(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewSession(syncer)
	s.SetQuestions(sessionQuestions(1))

	s.SelectAnswer(context.Background(), "q1", "b")
	s.ToggleBookmark(context.Background(), "q1")

	assert.True(t, s.IsBookmarked("q1"))
	require.Len(t, syncer.requests, 2)

	bookmarkReq := syncer.requests[1]
	require.NotNil(t, bookmarkReq.IsBookmarked)
	assert.True(t, *bookmarkReq.IsBookmarked)
	require.NotNil(t, bookmarkReq.UserAnswer, "the current answer travels with the bookmark")
	assert.Equal(t, "b", *bookmarkReq.UserAnswer)

	s.ToggleBookmark(context.Background(), "q1")
	assert.False(t, s.IsBookmarked("q1"))
	require.Len(t, syncer.requests, 3)
	assert.False(t, *syncer.requests[2].IsBookmarked)
}

func TestToggleBookmark_NoAnswerOmitsSnapshot(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewSession(syncer)
	s.SetQuestions(sessionQuestions(1))

	s.ToggleBookmark(context.Background(), "q1")

	require.Len(t, syncer.requests, 1)
	assert.Nil(t, syncer.requests[0].UserAnswer)
}

func TestToggleStrike(t *testing.T) {
	s := NewSession(nil)

	s.ToggleStrike("q1", "a")
	assert.True(t, s.IsStruck("q1", "a"))
	assert.False(t, s.IsStruck("q1", "b"))
	assert.False(t, s.IsStruck("q2", "a"), "strikes are keyed per question and choice")

	s.ToggleStrike("q1", "a")
	assert.False(t, s.IsStruck("q1", "a"))
}

func TestExplanationVisibility(t *testing.T) {
	s := NewSession(&recordingSyncer{})
	s.SetQuestions(sessionQuestions(3))

	assert.False(t, s.ExplanationVisible("q1"))

	s.SelectAnswer(context.Background(), "q1", "b")
	assert.True(t, s.ExplanationVisible("q1"), "a recorded answer reveals the explanation")

	s.SelectAnswer(context.Background(), "q1", "b") // clear
	assert.False(t, s.ExplanationVisible("q1"), "a cleared answer hides it again")

	s.ShowAllExplanations()
	assert.True(t, s.ExplanationVisible("q1"))
	assert.True(t, s.ExplanationVisible("q3"))

	s.HideAllExplanations()
	assert.False(t, s.ExplanationVisible("q1"))
}

func TestShowAllExplanations_OnlyVisibleQuestions(t *testing.T) {
	s := NewSession(nil)
	questions := sessionQuestions(2)
	questions[1].Subject = "Cardiology"
	s.SetQuestions(questions)

	s.SetSubjectFilter("Airway")
	s.ShowAllExplanations()

	assert.True(t, s.ExplanationVisible("q1"))
	assert.False(t, s.ExplanationVisible("q2"), "filtered-out questions are not marked")
}

func TestFiltersAndPagination(t *testing.T) {
	s := NewSession(nil, WithPageSize(2))
	questions := sessionQuestions(5)
	questions[4].Subject = "Cardiology"
	questions[4].QuestionText = "cardiac arrest management"
	s.SetQuestions(questions)

	assert.Equal(t, 1, s.Page())
	assert.Equal(t, 3, s.PageCount())
	assert.Len(t, s.PageQuestions(), 2)

	s.SetPage(3)
	assert.Equal(t, 3, s.Page())
	assert.Len(t, s.PageQuestions(), 1)

	s.SetSubjectFilter("Cardiology")
	assert.Equal(t, 1, s.Page(), "filter change resets to page 1")
	require.Len(t, s.FilteredQuestions(), 1)
	assert.Equal(t, "q5", s.FilteredQuestions()[0].ID)

	s.SetSubjectFilter("")
	s.SetSearchText("CARDIAC")
	require.Len(t, s.FilteredQuestions(), 1, "substring match is case-insensitive")

	s.SetSearchText("")
	s.SetPage(2)
	s.SetQuestions(sessionQuestions(3))
	assert.Equal(t, 1, s.Page(), "new question set resets to page 1")
}

func TestSetPage_Clamped(t *testing.T) {
	s := NewSession(nil, WithPageSize(2))
	s.SetQuestions(sessionQuestions(3))

	s.SetPage(99)
	assert.Equal(t, 2, s.Page())
	s.SetPage(0)
	assert.Equal(t, 1, s.Page())
}

func TestDemoMode(t *testing.T) {
	syncer := &recordingSyncer{}
	s := NewSession(syncer, WithDemoMode(0))
	s.SetQuestions(sessionQuestions(8))

	assert.True(t, s.IsInteractive("q5"), "first five stay interactive")
	assert.False(t, s.IsInteractive("q6"))

	s.SelectAnswer(context.Background(), "q6", "a")
	_, ok := s.Answer("q6")
	assert.False(t, ok, "locked questions ignore input")
	assert.Empty(t, syncer.requests, "locked questions never sync")

	s.ToggleBookmark(context.Background(), "q6")
	assert.False(t, s.IsBookmarked("q6"))

	s.SelectAnswer(context.Background(), "q1", "a")
	_, ok = s.Answer("q1")
	assert.True(t, ok)
}

func TestDemoMode_LimitAppliesToFilteredList(t *testing.T) {
	s := NewSession(nil, WithDemoMode(1))
	questions := sessionQuestions(3)
	questions[2].Subject = "Cardiology"
	s.SetQuestions(questions)

	s.SetSubjectFilter("Cardiology")
	assert.True(t, s.IsInteractive("q3"), "the filtered list decides the demo window")
	assert.False(t, s.IsInteractive("q1"), "filtered-out questions are not interactive")
}

func TestLoadResponses(t *testing.T) {
	answer := "c"
	s := NewSession(nil)
	s.LoadResponses([]dto.ResponseItem{
		{QuestionID: "q1", UserAnswer: &answer, IsBookmarked: true},
		{QuestionID: "q2", IsBookmarked: false},
	})

	got, ok := s.Answer("q1")
	require.True(t, ok)
	assert.Equal(t, "c", got)
	assert.True(t, s.IsBookmarked("q1"))
	assert.False(t, s.IsBookmarked("q2"))
	_, ok = s.Answer("q2")
	assert.False(t, ok)
}
