package dto

import "time"

// UpsertResponseRequest is the body of POST /responses.
// UserAnswer and IsBookmarked are pointers so that an absent field can be
// told apart from an explicit empty answer or false flag; absent fields
// leave the stored values untouched.
type UpsertResponseRequest struct {
	QuestionID   string  `json:"question_id"`
	UserAnswer   *string `json:"user_answer,omitempty"`
	IsBookmarked *bool   `json:"is_bookmarked,omitempty"`
}

// BookmarkUpdateRequest is the body of the legacy PATCH /responses.
type BookmarkUpdateRequest struct {
	QuestionID   string `json:"question_id"`
	IsBookmarked *bool  `json:"is_bookmarked"`
}

// ResponseItem represents one stored response row in API responses
type ResponseItem struct {
	ID           string            `json:"id"`
	UserID       string            `json:"user_id"`
	QuestionID   string            `json:"question_id"`
	ExamName     string            `json:"examname"`
	UserAnswer   *string           `json:"user_answer"`
	IsCorrect    *bool             `json:"is_correct"`
	IsBookmarked bool              `json:"is_bookmarked"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Question     *QuestionResponse `json:"question,omitempty"`
}

// ResponseListResponse is the envelope for the filtered response fetch
type ResponseListResponse struct {
	Responses []ResponseItem `json:"responses"`
}

// SingleResponseEnvelope is the envelope for write operations returning one row
type SingleResponseEnvelope struct {
	Response ResponseItem `json:"response"`
}

// DeleteResponsesResult is the envelope for DELETE /responses
type DeleteResponsesResult struct {
	Message string `json:"message"`
}
