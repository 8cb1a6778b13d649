// Package curriculum loads the read-only level/lesson/word catalogue and
// validates it into entities before the rest of the bot sees it.
package curriculum

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
)

var (
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrLevelNotFound   = errors.New("level not found")
	ErrWordNotFound    = errors.New("word not found")
	ErrInvalidDocument = errors.New("invalid curriculum")
)

type exampleDTO struct {
	Arabic      string `json:"arabic"`
	Translation string `json:"translation"`
}

type wordDTO struct {
	ID              string     `json:"id" validate:"required"`
	Arabic          string     `json:"arabic" validate:"required"`
	Transliteration string     `json:"transliteration" validate:"required"`
	Meaning         string     `json:"meaning" validate:"required"`
	Example         exampleDTO `json:"example"`
}

type sentenceDTO struct {
	Arabic      string   `json:"arabic" validate:"required"`
	Translation string   `json:"translation" validate:"required"`
	Words       []string `json:"words"`
}

type challengeDTO struct {
	ID            string       `json:"id" validate:"required"`
	Type          string       `json:"type" validate:"required,oneof=multiple-choice sentence-translation"`
	Question      string       `json:"question" validate:"required"`
	Options       []string     `json:"options" validate:"omitempty,min=2,dive,required"`
	CorrectAnswer string       `json:"correctAnswer" validate:"required"`
	Sentence      *sentenceDTO `json:"sentence" validate:"required_if=Type sentence-translation"`
}

type lessonDTO struct {
	ID          string         `json:"id" validate:"required"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	XPReward    int            `json:"xpReward" validate:"gte=0"`
	Words       []wordDTO      `json:"words" validate:"required,min=1,dive"`
	Challenges  []challengeDTO `json:"challenges" validate:"dive"`
}

type levelDTO struct {
	ID          string      `json:"id" validate:"required"`
	Name        string      `json:"name" validate:"required"`
	Description string      `json:"description"`
	Emoji       string      `json:"emoji"`
	XPRequired  int         `json:"xpRequired" validate:"gte=0"`
	Lessons     []lessonDTO `json:"lessons" validate:"dive"`
}

type document struct {
	Levels []levelDTO `json:"levels" validate:"required,min=1,dive"`
}

// Curriculum is the validated catalogue with id indexes.
type Curriculum struct {
	levels        []entities.Level
	levelIndex    map[string]int
	lessons       map[string]entities.Lesson
	words         map[string]entities.Word
	wordOrder     []string
	lessonToLevel map[string]string
}

// Load reads and validates the curriculum JSON file at path.
func Load(path string) (*Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read curriculum: %w", err)
	}

	return Parse(data)
}

// Parse validates a curriculum JSON document.
func Parse(data []byte) (*Curriculum, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	return build(doc)
}

func build(doc document) (*Curriculum, error) {
	c := &Curriculum{
		levelIndex:    make(map[string]int),
		lessons:       make(map[string]entities.Lesson),
		words:         make(map[string]entities.Word),
		lessonToLevel: make(map[string]string),
	}

	hasEntryLevel := false
	for _, lv := range doc.Levels {
		if _, dup := c.levelIndex[lv.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate level %q", ErrInvalidDocument, lv.ID)
		}
		if lv.XPRequired == 0 {
			hasEntryLevel = true
		}

		level := entities.Level{
			ID:          lv.ID,
			Name:        lv.Name,
			Description: lv.Description,
			Emoji:       lv.Emoji,
			XPRequired:  lv.XPRequired,
		}

		for _, ls := range lv.Lessons {
			lesson, err := c.buildLesson(lv.ID, ls)
			if err != nil {
				return nil, err
			}
			level.Lessons = append(level.Lessons, lesson)
		}

		c.levelIndex[lv.ID] = len(c.levels)
		c.levels = append(c.levels, level)
	}

	if !hasEntryLevel {
		return nil, fmt.Errorf("%w: no level with xpRequired 0", ErrInvalidDocument)
	}

	return c, nil
}

func (c *Curriculum) buildLesson(levelID string, ls lessonDTO) (entities.Lesson, error) {
	if _, dup := c.lessons[ls.ID]; dup {
		return entities.Lesson{}, fmt.Errorf("%w: duplicate lesson %q", ErrInvalidDocument, ls.ID)
	}

	lesson := entities.Lesson{
		ID:          ls.ID,
		LevelID:     levelID,
		Title:       ls.Title,
		Description: ls.Description,
		XPReward:    ls.XPReward,
	}

	for _, w := range ls.Words {
		if _, dup := c.words[w.ID]; dup {
			return entities.Lesson{}, fmt.Errorf("%w: duplicate word %q", ErrInvalidDocument, w.ID)
		}
		word := entities.Word{
			ID:              w.ID,
			Arabic:          w.Arabic,
			Transliteration: w.Transliteration,
			Meaning:         w.Meaning,
			Example:         entities.Example{Arabic: w.Example.Arabic, Translation: w.Example.Translation},
		}
		c.words[w.ID] = word
		c.wordOrder = append(c.wordOrder, w.ID)
		lesson.Words = append(lesson.Words, word)
	}

	for _, ch := range ls.Challenges {
		challenge, err := buildChallenge(ch)
		if err != nil {
			return entities.Lesson{}, fmt.Errorf("lesson %q: %w", ls.ID, err)
		}
		lesson.Challenges = append(lesson.Challenges, challenge)
	}

	c.lessons[ls.ID] = lesson
	c.lessonToLevel[ls.ID] = levelID

	return lesson, nil
}

func buildChallenge(ch challengeDTO) (entities.Challenge, error) {
	kind := entities.ChallengeKind(ch.Type)
	if !kind.Valid() {
		return entities.Challenge{}, fmt.Errorf("%w: challenge %q has unknown type %q", ErrInvalidDocument, ch.ID, ch.Type)
	}

	challenge := entities.Challenge{
		ID:            ch.ID,
		Kind:          kind,
		Question:      ch.Question,
		CorrectAnswer: ch.CorrectAnswer,
	}

	switch kind {
	case entities.ChallengeMultipleChoice:
		if !slices.Contains(ch.Options, ch.CorrectAnswer) {
			return entities.Challenge{}, fmt.Errorf("%w: challenge %q options miss the correct answer", ErrInvalidDocument, ch.ID)
		}
		challenge.Options = slices.Clone(ch.Options)
	case entities.ChallengeSentenceTranslation:
		challenge.Sentence = &entities.Sentence{
			Arabic:      ch.Sentence.Arabic,
			Translation: ch.Sentence.Translation,
			Words:       slices.Clone(ch.Sentence.Words),
		}
	}

	return challenge, nil
}

// Levels returns every level in curriculum order.
func (c *Curriculum) Levels() []entities.Level {
	return c.levels
}

// Level returns the level with the given id.
func (c *Curriculum) Level(id string) (entities.Level, error) {
	idx, ok := c.levelIndex[id]
	if !ok {
		return entities.Level{}, ErrLevelNotFound
	}
	return c.levels[idx], nil
}

// Lesson returns the lesson with the given id.
func (c *Curriculum) Lesson(id string) (entities.Lesson, error) {
	lesson, ok := c.lessons[id]
	if !ok {
		return entities.Lesson{}, ErrLessonNotFound
	}
	return lesson, nil
}

// Word returns the word with the given id.
func (c *Curriculum) Word(id string) (entities.Word, error) {
	word, ok := c.words[id]
	if !ok {
		return entities.Word{}, ErrWordNotFound
	}
	return word, nil
}

// Words returns every word in curriculum order.
func (c *Curriculum) Words() []entities.Word {
	words := make([]entities.Word, 0, len(c.wordOrder))
	for _, id := range c.wordOrder {
		words = append(words, c.words[id])
	}
	return words
}

// Thresholds returns the XP needed by each level in curriculum order.
func (c *Curriculum) Thresholds() []entities.LevelThreshold {
	thresholds := make([]entities.LevelThreshold, 0, len(c.levels))
	for _, lv := range c.levels {
		thresholds = append(thresholds, entities.LevelThreshold{LevelID: lv.ID, XPRequired: lv.XPRequired})
	}
	return thresholds
}

// LevelOfLesson returns the level that contains the lesson.
func (c *Curriculum) LevelOfLesson(lessonID string) (entities.Level, error) {
	levelID, ok := c.lessonToLevel[lessonID]
	if !ok {
		return entities.Level{}, ErrLessonNotFound
	}
	return c.Level(levelID)
}
