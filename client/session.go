package client

import (
	"context"
	"strings"

	"examdrill/internal/dto"
)

// Syncer pushes view-state changes to the backend. *Client satisfies
// it; tests substitute their own.
type Syncer interface {
	SaveResponse(ctx context.Context, req *dto.UpsertResponseRequest) (*dto.ResponseItem, error)
}

// answerCleared is stored when the user clicks their selected choice
// again. Keeping the entry (rather than deleting it) preserves the
// fact that the question was touched.
const answerCleared = ""

// DefaultDemoLimit caps how many filtered questions stay interactive
// when the session runs in demo mode.
const DefaultDemoLimit = 5

// Session is the view state a frontend holds while a user works
// through one exam's question list. All methods must be called from a
// single goroutine; writes to the backend are fire-and-forget from the
// caller's perspective but executed synchronously here so the caller
// controls scheduling.
//
// Writes are optimistic: local state is updated first and kept even
// when the backend write fails. A failed write records the session as
// out of sync so the owner can refetch instead of silently diverging.
type Session struct {
	questions []dto.QuestionResponse

	answers      map[string]string // question id -> selected letter, or answerCleared
	bookmarks    map[string]bool
	explanations map[string]bool
	struck       map[string]bool // question id + ":" + choice

	subjectFilter  string
	categoryFilter string
	searchText     string

	page     int
	pageSize int

	demoMode  bool
	demoLimit int

	syncer      Syncer
	onSyncError func(error)
	outOfSync   bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPageSize sets how many questions one page shows.
func WithPageSize(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithDemoMode limits interaction to the first demoLimit filtered
// questions.
func WithDemoMode(limit int) SessionOption {
	return func(s *Session) {
		s.demoMode = true
		if limit > 0 {
			s.demoLimit = limit
		}
	}
}

// WithSyncErrorHandler installs the callback invoked when a backend
// write fails. The UI typically surfaces it as an alert.
func WithSyncErrorHandler(fn func(error)) SessionOption {
	return func(s *Session) { s.onSyncError = fn }
}

// NewSession creates an empty session that syncs through syncer.
func NewSession(syncer Syncer, opts ...SessionOption) *Session {
	s := &Session{
		answers:      make(map[string]string),
		bookmarks:    make(map[string]bool),
		explanations: make(map[string]bool),
		struck:       make(map[string]bool),
		page:         1,
		pageSize:     10,
		demoLimit:    DefaultDemoLimit,
		syncer:       syncer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuestions replaces the question list and resets pagination.
func (s *Session) SetQuestions(questions []dto.QuestionResponse) {
	s.questions = questions
	s.page = 1
}

// LoadResponses primes answers and bookmarks from previously stored
// rows, typically right after fetching them on login.
func (s *Session) LoadResponses(responses []dto.ResponseItem) {
	for _, r := range responses {
		if r.UserAnswer != nil {
			s.answers[r.QuestionID] = *r.UserAnswer
		}
		if r.IsBookmarked {
			s.bookmarks[r.QuestionID] = true
		}
	}
}

// Answer returns the recorded answer for a question; ok is false when
// the question was never touched.
func (s *Session) Answer(questionID string) (string, bool) {
	answer, ok := s.answers[questionID]
	return answer, ok
}

// IsBookmarked reports the local bookmark flag.
func (s *Session) IsBookmarked(questionID string) bool {
	return s.bookmarks[questionID]
}

// OutOfSync reports whether any backend write has failed since the
// last ClearOutOfSync. The owner should refetch responses when set.
func (s *Session) OutOfSync() bool {
	return s.outOfSync
}

// ClearOutOfSync resets the divergence marker, typically after a
// refetch.
func (s *Session) ClearOutOfSync() {
	s.outOfSync = false
}

func (s *Session) sync(ctx context.Context, req *dto.UpsertResponseRequest) {
	if s.syncer == nil {
		return
	}
	if _, err := s.syncer.SaveResponse(ctx, req); err != nil {
		s.outOfSync = true
		if s.onSyncError != nil {
			s.onSyncError(err)
		}
	}
}

// SelectAnswer records choice for the question, or clears the answer
// when the already-selected choice is clicked again, then writes the
// new answer to the backend. Local state is kept even if the write
// fails.
func (s *Session) SelectAnswer(ctx context.Context, questionID, choice string) {
	if !s.IsInteractive(questionID) {
		return
	}

	newAnswer := choice
	if current, ok := s.answers[questionID]; ok && current == choice {
		newAnswer = answerCleared
	}
	s.answers[questionID] = newAnswer

	answer := newAnswer
	s.sync(ctx, &dto.UpsertResponseRequest{
		QuestionID: questionID,
		UserAnswer: &answer,
	})
}

// ToggleBookmark flips the local bookmark flag and writes the new flag
// together with the current answer snapshot.
func (s *Session) ToggleBookmark(ctx context.Context, questionID string) {
	if !s.IsInteractive(questionID) {
		return
	}

	newFlag := !s.bookmarks[questionID]
	s.bookmarks[questionID] = newFlag

	req := &dto.UpsertResponseRequest{
		QuestionID:   questionID,
		IsBookmarked: &newFlag,
	}
	if answer, ok := s.answers[questionID]; ok {
		snapshot := answer
		req.UserAnswer = &snapshot
	}
	s.sync(ctx, req)
}

func strikeKey(questionID, choice string) string {
	return questionID + ":" + choice
}

// ToggleStrike flips the strikethrough mark on one option row. Strikes
// are purely local and never synced.
func (s *Session) ToggleStrike(questionID, choice string) {
	key := strikeKey(questionID, choice)
	if s.struck[key] {
		delete(s.struck, key)
	} else {
		s.struck[key] = true
	}
}

// IsStruck reports whether an option row is struck through.
func (s *Session) IsStruck(questionID, choice string) bool {
	return s.struck[strikeKey(questionID, choice)]
}

// ExplanationVisible reports whether a question's explanation shows:
// automatically once the question has a non-empty answer, or after
// ShowAllExplanations marked it.
func (s *Session) ExplanationVisible(questionID string) bool {
	if answer, ok := s.answers[questionID]; ok && answer != answerCleared {
		return true
	}
	return s.explanations[questionID]
}

// ShowAllExplanations marks every currently visible (filtered)
// question's explanation visible.
func (s *Session) ShowAllExplanations() {
	for _, q := range s.FilteredQuestions() {
		s.explanations[q.ID] = true
	}
}

// HideAllExplanations clears the explicit marks. Questions with a
// recorded answer keep showing their explanation.
func (s *Session) HideAllExplanations() {
	s.explanations = make(map[string]bool)
}

// SetSubjectFilter narrows the list to one subject and resets to page 1.
// An empty value clears the filter.
func (s *Session) SetSubjectFilter(subject string) {
	s.subjectFilter = subject
	s.page = 1
}

// SetCategoryFilter narrows the list to one category and resets to page 1.
func (s *Session) SetCategoryFilter(category string) {
	s.categoryFilter = category
	s.page = 1
}

// SetSearchText narrows the list to questions whose text contains the
// given substring (case-insensitive) and resets to page 1.
func (s *Session) SetSearchText(text string) {
	s.searchText = text
	s.page = 1
}

func (s *Session) matches(q dto.QuestionResponse) bool {
	if s.subjectFilter != "" && !strings.EqualFold(q.Subject, s.subjectFilter) {
		return false
	}
	if s.categoryFilter != "" && !strings.EqualFold(q.Category, s.categoryFilter) {
		return false
	}
	if s.searchText != "" && !strings.Contains(strings.ToLower(q.QuestionText), strings.ToLower(s.searchText)) {
		return false
	}
	return true
}

// FilteredQuestions returns the questions passing the active filters,
// in their original order.
func (s *Session) FilteredQuestions() []dto.QuestionResponse {
	filtered := make([]dto.QuestionResponse, 0, len(s.questions))
	for _, q := range s.questions {
		if s.matches(q) {
			filtered = append(filtered, q)
		}
	}
	return filtered
}

// IsInteractive reports whether the user may act on the question. In
// demo mode only the first demoLimit filtered questions accept input,
// regardless of the current page.
func (s *Session) IsInteractive(questionID string) bool {
	if !s.demoMode {
		return true
	}
	for i, q := range s.FilteredQuestions() {
		if q.ID == questionID {
			return i < s.demoLimit
		}
	}
	return false
}

// Page returns the current 1-based page number.
func (s *Session) Page() int {
	return s.page
}

// PageCount returns how many pages the filtered list spans; at least 1.
func (s *Session) PageCount() int {
	n := len(s.FilteredQuestions())
	if n == 0 {
		return 1
	}
	return (n + s.pageSize - 1) / s.pageSize
}

// SetPage moves to the given page, clamped to the valid range.
func (s *Session) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	if max := s.PageCount(); page > max {
		page = max
	}
	s.page = page
}

// PageQuestions returns the slice of the filtered list shown on the
// current page.
func (s *Session) PageQuestions() []dto.QuestionResponse {
	filtered := s.FilteredQuestions()
	start := (s.page - 1) * s.pageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + s.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}
