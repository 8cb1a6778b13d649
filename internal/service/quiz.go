package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

var (
	ErrNoQuestionsAvailable = errors.New("no questions available")
	ErrNoActiveQuiz         = errors.New("no active quiz")
	ErrQuizNotFinished      = errors.New("quiz not finished")
	ErrWrongAnswerKind      = errors.New("answer does not match question type")
	ErrInvalidOption        = errors.New("invalid selected option")
)

// QuizAnswer is the outcome of one answered question.
type QuizAnswer struct {
	Correct       bool
	CorrectAnswer string
	Completed     bool
}

// QuizService runs lesson quizzes: one meaning question per word followed by
// the lesson's own challenges.
type QuizService struct {
	curriculum Curriculum
	options    *OptionGenerator
	validator  *AnswerValidator
	sessions   QuizStorage
	clock      Clock
	logger     *zap.Logger
}

func NewQuizService(
	curriculum Curriculum,
	options *OptionGenerator,
	validator *AnswerValidator,
	sessions QuizStorage,
	clock Clock,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		curriculum: curriculum,
		options:    options,
		validator:  validator,
		sessions:   sessions,
		clock:      clock,
		logger:     logger,
	}
}

// StartQuiz builds a quiz for lessonID and makes it the user's active quiz.
func (s *QuizService) StartQuiz(userID int64, lessonID string) (*entities.QuizSession, error) {
	lesson, err := s.curriculum.Lesson(lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	questions := s.generateQuestions(lesson)
	if len(questions) == 0 {
		return nil, ErrNoQuestionsAvailable
	}

	session := entities.NewQuizSession(userID, lesson.ID, questions, s.clock.Now())
	s.sessions.Store(userID, session)

	s.logger.Debug("quiz started",
		zap.Int64("user_id", userID),
		zap.String("lesson_id", lesson.ID),
		zap.Int("questions", len(questions)),
	)

	return session, nil
}

// Active returns the user's quiz, finished or not.
func (s *QuizService) Active(userID int64) (*entities.QuizSession, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, ErrNoActiveQuiz
	}
	return session, nil
}

// AnswerOption answers the current choice question with the option at index.
func (s *QuizService) AnswerOption(userID int64, index int) (QuizAnswer, error) {
	session, q, err := s.current(userID)
	if err != nil {
		return QuizAnswer{}, err
	}
	if !q.IsChoice() {
		return QuizAnswer{}, ErrWrongAnswerKind
	}
	if index < 0 || index >= len(q.Options) {
		return QuizAnswer{}, ErrInvalidOption
	}

	return s.record(session, q, index == q.CorrectIndex), nil
}

// AnswerText answers the current translation question with free text.
func (s *QuizService) AnswerText(userID int64, text string) (QuizAnswer, error) {
	session, q, err := s.current(userID)
	if err != nil {
		return QuizAnswer{}, err
	}
	if q.IsChoice() {
		return QuizAnswer{}, ErrWrongAnswerKind
	}

	return s.record(session, q, s.validator.Validate(text, q.CorrectAnswer)), nil
}

// Finish closes a completed quiz and credits the lesson to the learner with
// XP scaled by the share of correct answers.
func (s *QuizService) Finish(ctx context.Context, learner *Learner) (LessonOutcome, error) {
	session, ok := s.sessions.Get(learner.UserID)
	if !ok {
		return LessonOutcome{}, ErrNoActiveQuiz
	}
	if session.Status != entities.QuizCompleted {
		return LessonOutcome{}, ErrQuizNotFinished
	}

	reward := 0
	if lesson, err := s.curriculum.Lesson(session.LessonID); err == nil {
		reward = lesson.XPReward
	}

	s.sessions.Delete(learner.UserID)

	outcome := learner.CompleteLesson(ctx, session.LessonID, session.EarnedXP(reward))

	s.logger.Info("quiz finished",
		zap.Int64("user_id", learner.UserID),
		zap.String("lesson_id", session.LessonID),
		zap.Int("correct", session.CorrectAnswers),
		zap.Int("total", session.Total()),
		zap.Int("xp", outcome.XPEarned),
	)

	return outcome, nil
}

// Cancel drops the user's quiz without rewards.
func (s *QuizService) Cancel(userID int64) {
	s.sessions.Delete(userID)
}

func (s *QuizService) current(userID int64) (*entities.QuizSession, entities.Question, error) {
	session, ok := s.sessions.Get(userID)
	if !ok {
		return nil, entities.Question{}, ErrNoActiveQuiz
	}
	q, ok := session.CurrentQuestion()
	if !ok {
		return nil, entities.Question{}, ErrNoActiveQuiz
	}
	return session, q, nil
}

func (s *QuizService) record(session *entities.QuizSession, q entities.Question, correct bool) QuizAnswer {
	session.Record(correct, s.clock.Now())
	return QuizAnswer{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Completed:     session.Status == entities.QuizCompleted,
	}
}

func (s *QuizService) generateQuestions(lesson entities.Lesson) []entities.Question {
	questions := make([]entities.Question, 0, len(lesson.Words)+len(lesson.Challenges))

	for _, w := range lesson.Words {
		options, correctIndex := s.options.GenerateOptions(w)
		questions = append(questions, entities.Question{
			WordID:        w.ID,
			Type:          entities.QuestionTypeMeaning,
			Prompt:        fmt.Sprintf("What does %s (%s) mean?", w.Arabic, w.Transliteration),
			Options:       options,
			CorrectIndex:  correctIndex,
			CorrectAnswer: w.Meaning,
		})
	}

	s.options.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	for _, ch := range lesson.Challenges {
		switch ch.Kind {
		case entities.ChallengeMultipleChoice:
			questions = append(questions, entities.Question{
				Type:          entities.QuestionTypeChoice,
				Prompt:        ch.Question,
				Options:       slices.Clone(ch.Options),
				CorrectIndex:  slices.Index(ch.Options, ch.CorrectAnswer),
				CorrectAnswer: ch.CorrectAnswer,
			})
		case entities.ChallengeSentenceTranslation:
			prompt := ch.Question
			if ch.Sentence != nil {
				prompt = fmt.Sprintf("%s\n\n%s", ch.Question, ch.Sentence.Arabic)
			}
			questions = append(questions, entities.Question{
				Type:          entities.QuestionTypeTranslation,
				Prompt:        prompt,
				CorrectAnswer: ch.CorrectAnswer,
			})
		}
	}

	return questions
}
