package entities

// QuestionType describes how a quiz question is answered.
type QuestionType string

const (
	QuestionTypeMeaning     QuestionType = "meaning"     // pick the meaning of an Arabic word
	QuestionTypeChoice      QuestionType = "choice"      // curriculum multiple-choice challenge
	QuestionTypeTranslation QuestionType = "translation" // type the translation of a sentence
)

// Question is one step of a lesson quiz.
type Question struct {
	WordID        string // empty for challenge questions
	Type          QuestionType
	Prompt        string
	Options       []string // empty for translation questions
	CorrectIndex  int
	CorrectAnswer string
}

// IsChoice reports whether the question is answered by picking an option.
func (q Question) IsChoice() bool {
	return len(q.Options) > 0
}
