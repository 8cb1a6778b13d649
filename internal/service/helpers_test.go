package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/quranlingo-bot/internal/curriculum"
	"github.com/aliskhannn/quranlingo-bot/internal/domain/entities"
	"github.com/aliskhannn/quranlingo-bot/internal/infra/memory"
	"github.com/aliskhannn/quranlingo-bot/internal/repository"
)

const testUserID int64 = 42

var testThresholds = []entities.LevelThreshold{
	{LevelID: "level-1", XPRequired: 0},
	{LevelID: "level-2", XPRequired: 50},
	{LevelID: "level-3", XPRequired: 100},
}

// fakeClock is a manually advanced clock in UTC.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Today() entities.Date {
	return entities.DateOf(c.Now(), time.UTC)
}

func (c *fakeClock) Location() *time.Location {
	return time.UTC
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingStore counts writes and can be switched to fail reads or writes.
type countingStore struct {
	*memory.Store

	mu        sync.Mutex
	puts      int
	failPuts  bool
	getPrefix string
	getErr    error
}

var errStoreDown = errors.New("store down")

func newCountingStore() *countingStore {
	return &countingStore{Store: memory.NewStore()}
}

func (s *countingStore) Put(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	s.puts++
	fail := s.failPuts
	s.mu.Unlock()

	if fail {
		return errStoreDown
	}
	return s.Store.Put(ctx, key, data)
}

func (s *countingStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	err := s.getErr
	match := strings.HasPrefix(key, s.getPrefix)
	s.mu.Unlock()

	if err != nil && match {
		return nil, err
	}
	return s.Store.Get(ctx, key)
}

// FailGets makes reads of keys under prefix return err. A nil err restores
// normal reads.
func (s *countingStore) FailGets(prefix string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getPrefix = prefix
	s.getErr = err
}

func (s *countingStore) Puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

func (s *countingStore) FailPuts(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPuts = fail
}

// stubCurriculum serves a small fixed curriculum.
type stubCurriculum struct {
	lessons map[string]entities.Lesson
	words   []entities.Word
}

func newStubCurriculum() *stubCurriculum {
	words := []entities.Word{
		{ID: "w1", Arabic: "اللّٰه", Transliteration: "Allāh", Meaning: "God"},
		{ID: "w2", Arabic: "رَحْمَة", Transliteration: "Raḥmah", Meaning: "Mercy"},
		{ID: "w3", Arabic: "نُور", Transliteration: "Nūr", Meaning: "Light"},
		{ID: "w4", Arabic: "جَنّة", Transliteration: "Jannah", Meaning: "Paradise"},
		{ID: "w5", Arabic: "إيمان", Transliteration: "Īmān", Meaning: "Faith"},
	}

	return &stubCurriculum{
		words: words,
		lessons: map[string]entities.Lesson{
			"L1": {
				ID: "L1", LevelID: "level-1", Title: "Divine Names", XPReward: 20,
				Words: words[:3],
				Challenges: []entities.Challenge{
					{
						ID: "c1", Kind: entities.ChallengeMultipleChoice,
						Question: "What does اللّٰه mean?", Options: []string{"God", "Light", "Mercy", "Prophet"},
						CorrectAnswer: "God",
					},
					{
						ID: "c2", Kind: entities.ChallengeSentenceTranslation,
						Question: "Translate the following sentence", CorrectAnswer: "In the name of Allah",
						Sentence: &entities.Sentence{Arabic: "بِسْمِ اللّٰهِ", Translation: "In the name of Allah"},
					},
				},
			},
			"L2": {ID: "L2", LevelID: "level-1", Title: "Spiritual Concepts", XPReward: 25, Words: words[3:]},
		},
	}
}

func (c *stubCurriculum) Thresholds() []entities.LevelThreshold { return testThresholds }

func (c *stubCurriculum) Levels() []entities.Level { return nil }

func (c *stubCurriculum) Lesson(id string) (entities.Lesson, error) {
	l, ok := c.lessons[id]
	if !ok {
		return entities.Lesson{}, curriculum.ErrLessonNotFound
	}
	return l, nil
}

func (c *stubCurriculum) Word(id string) (entities.Word, error) {
	for _, w := range c.words {
		if w.ID == id {
			return w, nil
		}
	}
	return entities.Word{}, curriculum.ErrWordNotFound
}

func (c *stubCurriculum) Words() []entities.Word { return c.words }

type fixture struct {
	store    *countingStore
	progress *repository.ProgressRepository
	reviews  *repository.ReviewRepository
	clock    *fakeClock
	manager  *SessionManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newCountingStore()
	f := &fixture{
		store:    store,
		progress: repository.NewProgressRepository(store),
		reviews:  repository.NewReviewRepository(store),
		clock:    newFakeClock(time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)),
	}
	f.manager = NewSessionManager(f.progress, f.reviews, newStubCurriculum(), DefaultRewards(), f.clock, zap.NewNop())

	return f
}

func (f *fixture) learner(t *testing.T) *Learner {
	t.Helper()
	return f.learnerFor(t, testUserID)
}

func (f *fixture) learnerFor(t *testing.T, userID int64) *Learner {
	t.Helper()
	l, err := f.manager.Learner(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l
}
