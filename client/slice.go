package client

import (
	"errors"
	"sync"
)

// ListState is a snapshot of a cached collection.
type ListState[T any] struct {
	Items   []T
	Loading bool
	Error   string
}

// listSlice caches one collection. Every operation moves it through pending and
// then fulfilled or rejected; the last completion wins.
type listSlice[T any] struct {
	mu    sync.Mutex
	state ListState[T]
	id    func(T) string
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

func (s *listSlice[T]) pending() {
	s.mu.Lock()
	s.state.Loading = true
	s.state.Error = ""
	s.mu.Unlock()
}

func (s *listSlice[T]) rejected(err error) error {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Error = errorMessage(err)
	s.mu.Unlock()
	return err
}

func (s *listSlice[T]) replace(items []T) {
	s.mu.Lock()
	s.state.Loading = false
	s.state.Items = append([]T(nil), items...)
	s.mu.Unlock()
}

// upsert replaces the item with the same id, or inserts it at the front or back.
func (s *listSlice[T]) upsert(item T, prepend bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	key := s.id(item)
	for i, it := range s.state.Items {
		if s.id(it) == key {
			s.state.Items[i] = item
			return
		}
	}
	if prepend {
		s.state.Items = append([]T{item}, s.state.Items...)
		return
	}
	s.state.Items = append(s.state.Items, item)
}

func (s *listSlice[T]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	out := s.state.Items[:0:0]
	for _, it := range s.state.Items {
		if s.id(it) != id {
			out = append(out, it)
		}
	}
	s.state.Items = out
}

// State returns a copy of the current state.
func (s *listSlice[T]) State() ListState[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Items = append([]T(nil), s.state.Items...)
	return st
}
