package net

import (
	"errors"
	"testing"
)

func TestRunStore(t *testing.T) {
	s := NewRunStore(2)
	s.Put(&Run{ID: "a"})
	s.Put(&Run{ID: "b"})
	s.Put(&Run{ID: "c"})

	if _, err := s.Get("a"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("oldest run should be evicted, got %v", err)
	}
	run, err := s.Get("c")
	if err != nil || run.ID != "c" {
		t.Errorf("Get(c) = %v, %v", run, err)
	}

	list := s.List()
	if len(list) != 2 || list[0].ID != "c" || list[1].ID != "b" {
		t.Errorf("List() = %v", list)
	}

	// Re-putting an id replaces it without growing the store.
	s.Put(&Run{ID: "c", Layout: "again"})
	if list := s.List(); len(list) != 2 || list[0].Layout != "again" {
		t.Errorf("after replace List() = %v", list)
	}
}
