package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
)

// QuizHandler exposes quiz attempts over JSON.
type QuizHandler struct {
	service *app.QuizService
	logger  *slog.Logger
}

func NewQuizHandler(service *app.QuizService, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{service: service, logger: logger}
}

// Register mounts the quiz routes on mux.
func (h *QuizHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /sets/{setId}/quizzes", h.StartQuiz)
	mux.HandleFunc("POST /quizzes/{attemptId}/responses", h.SubmitQuiz)
	mux.HandleFunc("GET /quizzes/{attemptId}", h.GetAttempt)
}

// questionView is a question as shown to the learner: no answer, no flags.
type questionView struct {
	OrderIndex        int                 `json:"orderIndex"`
	Type              domain.QuestionType `json:"type"`
	Prompt            string              `json:"prompt"`
	AnswerWith        domain.Side         `json:"answerWith"`
	Options           []string            `json:"options,omitempty"`
	TrueOrFalseOption string              `json:"trueOrFalseOption,omitempty"`
}

type attemptView struct {
	ID        string              `json:"id"`
	SetID     string              `json:"setId"`
	Config    domain.QuizConfig   `json:"config"`
	Questions []questionView      `json:"questions"`
	CreatedAt time.Time           `json:"createdAt"`
	Result    *domain.GradeResult `json:"result,omitempty"`
}

type submitRequest struct {
	Responses []domain.Response `json:"responses"`
}

func newAttemptView(attempt domain.QuizAttempt) attemptView {
	view := attemptView{
		ID:        attempt.ID,
		SetID:     attempt.SetID,
		Config:    attempt.Config,
		Questions: make([]questionView, 0, len(attempt.Questions)),
		CreatedAt: attempt.CreatedAt,
		Result:    attempt.Result,
	}
	for _, q := range attempt.Questions {
		qv := questionView{
			OrderIndex:        q.OrderIndex,
			Type:              q.Type,
			Prompt:            q.Prompt,
			AnswerWith:        q.AnswerWith,
			TrueOrFalseOption: q.TrueOrFalseOption,
		}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, opt.Option)
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

func (h *QuizHandler) StartQuiz(w http.ResponseWriter, r *http.Request) {
	var cfg domain.QuizConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid quiz config")
		return
	}

	attempt, err := h.service.StartQuiz(r.Context(), r.PathValue("setId"), cfg)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newAttemptView(attempt))
}

func (h *QuizHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid responses")
		return
	}

	result, err := h.service.SubmitQuiz(r.Context(), r.PathValue("attemptId"), req.Responses)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *QuizHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.service.GetAttempt(r.Context(), r.PathValue("attemptId"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newAttemptView(attempt))
}

func (h *QuizHandler) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("quiz request failed", "error", err)
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSetNotFound),
		errors.Is(err, domain.ErrAttemptNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoEnabledTypes),
		errors.Is(err, domain.ErrInvalidConfig),
		errors.Is(err, domain.ErrInvalidResponseShape):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientCards),
		errors.Is(err, domain.ErrInsufficientDistinctValues):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorPayload{Message: message})
}
