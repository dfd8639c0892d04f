package validation

import (
	"strings"

	"examdrill/internal/domain"
	"examdrill/internal/dto"

	"github.com/oklog/ulid/v2"
)

// answer letters accepted by the grading rules; an empty answer is
// allowed and clears correctness.
var validChoices = map[string]bool{"a": true, "b": true, "c": true, "d": true}

// ValidateULID reports whether id parses as a ULID.
func ValidateULID(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// ValidateUpsertRequest checks a response save payload.
func ValidateUpsertRequest(req *dto.UpsertResponseRequest) error {
	var errs domain.ValidationErrors

	if req.QuestionID == "" {
		errs = append(errs, domain.NewMissingFieldError("question_id"))
	} else if !ValidateULID(req.QuestionID) {
		errs = append(errs, domain.NewInvalidFormatError("question_id", req.QuestionID))
	}

	if req.UserAnswer != nil && *req.UserAnswer != "" {
		if !validChoices[strings.ToLower(*req.UserAnswer)] {
			errs = append(errs, domain.NewInvalidFormatError("user_answer", *req.UserAnswer))
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBookmarkUpdate checks the legacy bookmark-only payload.
func ValidateBookmarkUpdate(req *dto.BookmarkUpdateRequest) error {
	var errs domain.ValidationErrors

	if req.QuestionID == "" {
		errs = append(errs, domain.NewMissingFieldError("question_id"))
	} else if !ValidateULID(req.QuestionID) {
		errs = append(errs, domain.NewInvalidFormatError("question_id", req.QuestionID))
	}
	if req.IsBookmarked == nil {
		errs = append(errs, domain.NewMissingFieldError("is_bookmarked"))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateDeleteParams enforces that exactly one of questionId and
// resetAll is supplied on a delete request.
func ValidateDeleteParams(questionID string, resetAll bool) error {
	if questionID != "" && resetAll {
		return domain.NewInvalidInputError("provide either questionId or resetAll, not both")
	}
	if questionID == "" && !resetAll {
		return domain.NewInvalidInputError("either questionId or resetAll is required")
	}
	if questionID != "" && !ValidateULID(questionID) {
		return domain.ValidationErrors{domain.NewInvalidFormatError("questionId", questionID)}
	}
	return nil
}
