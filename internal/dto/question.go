package dto

// QuestionResponse represents a question in the API response
// @Description Question information including options and rationale
type QuestionResponse struct {
	ID               string `json:"id"`
	ExamName         string `json:"examname"`
	Subject          string `json:"subject,omitempty"`
	Category         string `json:"category,omitempty"`
	QuestionText     string `json:"question_text"`
	OptionA          string `json:"option_a"`
	OptionB          string `json:"option_b"`
	OptionC          string `json:"option_c"`
	OptionD          string `json:"option_d"`
	CorrectChoice    string `json:"correct_choice"`
	Rationale        string `json:"rationale,omitempty"`
	QuestionImageURL string `json:"question_image_url,omitempty"`
}

// QuestionListResponse is the envelope for question delivery
type QuestionListResponse struct {
	Questions []QuestionResponse `json:"questions"`
}

// ExamSummaryResponse represents one exam in the catalog listing
type ExamSummaryResponse struct {
	ExamName      string `json:"examname"`
	QuestionCount int    `json:"question_count"`
}

// ExamListResponse is the envelope for the exam catalog
type ExamListResponse struct {
	Exams []ExamSummaryResponse `json:"exams"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
