package entities

// ChallengeKind is the closed set of lesson challenge types.
type ChallengeKind string

const (
	ChallengeMultipleChoice      ChallengeKind = "multiple-choice"
	ChallengeSentenceTranslation ChallengeKind = "sentence-translation"
)

// Valid reports whether k is one of the known challenge kinds.
func (k ChallengeKind) Valid() bool {
	switch k {
	case ChallengeMultipleChoice, ChallengeSentenceTranslation:
		return true
	default:
		return false
	}
}

// Word is a vocabulary item with its Arabic form and meaning.
type Word struct {
	ID              string
	Arabic          string
	Transliteration string
	Meaning         string
	Example         Example
}

// Example is a Quranic usage of a word.
type Example struct {
	Arabic      string
	Translation string
}

// Sentence is the source text of a sentence-translation challenge.
type Sentence struct {
	Arabic      string
	Translation string
	Words       []string
}

// Challenge is a single exercise attached to a lesson.
type Challenge struct {
	ID            string
	Kind          ChallengeKind
	Question      string
	Options       []string // multiple-choice only
	CorrectAnswer string
	Sentence      *Sentence // sentence-translation only
}

// Lesson groups the words taught together and the XP it rewards.
type Lesson struct {
	ID          string
	LevelID     string
	Title       string
	Description string
	XPReward    int
	Words       []Word
	Challenges  []Challenge
}

// WordIDs returns the ids of the lesson's words in curriculum order.
func (l Lesson) WordIDs() []string {
	ids := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		ids = append(ids, w.ID)
	}
	return ids
}

// Level is a stage of the curriculum unlocked by XP.
type Level struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	XPRequired  int
	Lessons     []Lesson
}
