package domain

import "time"

// Card is a single term/definition pair owned by a set.
type Card struct {
	ID         string `json:"id" yaml:"id"`
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	Index      int    `json:"index" yaml:"index"`
}

// Set is a titled collection of cards, already sanitized by its owner.
type Set struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Cards []Card `json:"cards" yaml:"cards"`
}

// QuestionType identifies how a quiz question is answered.
type QuestionType string

const (
	Written        QuestionType = "written"
	TrueOrFalse    QuestionType = "trueOrFalse"
	MultipleChoice QuestionType = "multipleChoice"
)

// Side is one face of a card.
type Side string

const (
	SideTerm       Side = "term"
	SideDefinition Side = "definition"
)

// Opposite returns the other face.
func (s Side) Opposite() Side {
	if s == SideTerm {
		return SideDefinition
	}
	return SideTerm
}

// Of returns the card text for this side.
func (s Side) Of(c Card) string {
	if s == SideTerm {
		return c.Term
	}
	return c.Definition
}

func (s Side) Valid() bool {
	return s == SideTerm || s == SideDefinition
}

// AnswerWith is the quiz-wide side policy.
type AnswerWith string

const (
	AnswerWithTerm       AnswerWith = "term"
	AnswerWithDefinition AnswerWith = "definition"
	AnswerWithBoth       AnswerWith = "both"
)

// Option is a selectable answer of a choice question.
type Option struct {
	Option  string `json:"option"`
	Correct bool   `json:"correct"`
}

// QuizQuestion is one generated question of a quiz attempt.
type QuizQuestion struct {
	Type              QuestionType `json:"type"`
	Prompt            string       `json:"prompt"`
	AnswerWith        Side         `json:"answerWith"`
	Answer            string       `json:"answer"`
	Options           []Option     `json:"options,omitempty"`
	TrueOrFalseOption string       `json:"trueOrFalseOption,omitempty"`
	OrderIndex        int          `json:"orderIndex"`
	Correct           bool         `json:"correct"`
}

// QuizConfig describes the quiz a user asked for.
type QuizConfig struct {
	NumberOfQuestions int        `json:"numberOfQuestions" yaml:"numberOfQuestions"`
	AnswerWith        AnswerWith `json:"answerWith" yaml:"answerWith"`
	Written           bool       `json:"written" yaml:"written"`
	TrueOrFalse       bool       `json:"trueOrFalse" yaml:"trueOrFalse"`
	MultipleChoice    bool       `json:"multipleChoice" yaml:"multipleChoice"`
}

// EnabledTypes lists the enabled question types in declaration order.
func (c QuizConfig) EnabledTypes() []QuestionType {
	types := make([]QuestionType, 0, 3)
	if c.Written {
		types = append(types, Written)
	}
	if c.TrueOrFalse {
		types = append(types, TrueOrFalse)
	}
	if c.MultipleChoice {
		types = append(types, MultipleChoice)
	}
	return types
}

// Response is a raw user answer. Value holds free text for written
// questions and the decimal option index for choice questions.
type Response struct {
	OrderIndex int          `json:"orderIndex"`
	Type       QuestionType `json:"type"`
	Value      string       `json:"value"`
}

// GradeResult is the outcome of grading one quiz attempt.
type GradeResult struct {
	Questions      []QuizQuestion `json:"questions"`
	CorrectCount   int            `json:"correctCount"`
	PercentCorrect int            `json:"percentCorrect"`
}

// QuizAttempt is a generated quiz held between build and grading.
type QuizAttempt struct {
	ID        string         `json:"id"`
	SetID     string         `json:"setId"`
	Config    QuizConfig     `json:"config"`
	Questions []QuizQuestion `json:"questions"`
	CreatedAt time.Time      `json:"createdAt"`
	Result    *GradeResult   `json:"result,omitempty"`
}
