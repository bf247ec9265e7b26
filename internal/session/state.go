package session

import (
	"reflect"
	"slices"
	"time"

	"github.com/lshigami/placementai/internal/model"
)

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// State is everything the server remembers about one browser between
// requests. Handlers get it from FromContext and mutate it in place; the
// middleware persists it after the handler returns.
type State struct {
	UserEmail string               `json:"user_email,omitempty"`
	IsAdmin   bool                 `json:"is_admin,omitempty"`
	Quiz      []model.QuizQuestion `json:"quiz,omitempty"`
	Flashes   []Flash              `json:"flashes,omitempty"`
	UpdatedAt time.Time            `json:"updated_at"`
}

func (s *State) Authenticated() bool {
	return s.UserEmail != ""
}

func (s *State) Login(email string, isAdmin bool) {
	s.UserEmail = email
	s.IsAdmin = isAdmin
	s.Quiz = nil
}

// Clear drops identity, quiz and pending flashes.
func (s *State) Clear() {
	*s = State{}
}

func (s *State) AddFlash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns pending flashes and forgets them.
func (s *State) PopFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

func (s *State) HasQuiz() bool {
	return len(s.Quiz) > 0
}

func (s *State) empty() bool {
	return s.UserEmail == "" && !s.IsAdmin && len(s.Quiz) == 0 && len(s.Flashes) == 0
}

func (s *State) equal(o *State) bool {
	return s.UserEmail == o.UserEmail && s.IsAdmin == o.IsAdmin &&
		reflect.DeepEqual(s.Quiz, o.Quiz) && slices.Equal(s.Flashes, o.Flashes)
}

func (s *State) clone() *State {
	c := *s
	c.Quiz = slices.Clone(s.Quiz)
	for i := range c.Quiz {
		c.Quiz[i].Options = slices.Clone(c.Quiz[i].Options)
	}
	c.Flashes = slices.Clone(s.Flashes)
	return &c
}

// mergeInto applies the fields a handler changed (base -> next) onto stored,
// leaving fields written by concurrent requests alone.
func mergeInto(stored, base, next *State) *State {
	merged := stored.clone()
	if next.UserEmail != base.UserEmail || next.IsAdmin != base.IsAdmin {
		merged.UserEmail, merged.IsAdmin = next.UserEmail, next.IsAdmin
	}
	if !reflect.DeepEqual(next.Quiz, base.Quiz) {
		merged.Quiz = next.Quiz
	}
	if !reflect.DeepEqual(next.Flashes, base.Flashes) {
		merged.Flashes = append(slices.Clone(next.Flashes), flashesAddedSince(base.Flashes, stored.Flashes)...)
	}
	return merged
}

// flashesAddedSince returns the flashes appended to stored after base was read.
func flashesAddedSince(base, stored []Flash) []Flash {
	if len(stored) <= len(base) || !slices.Equal(stored[:len(base)], base) {
		return nil
	}
	return stored[len(base):]
}
