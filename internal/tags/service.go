// Package tags is the central tag store: id-keyed tags plus sub-tag links
// forming a hierarchy. Tags are compared by id only.
package tags

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tally-dev/tally/internal/model"
)

var (
	// ErrNotFound is returned for unknown tag ids or missing links.
	ErrNotFound = errors.New("tags: not found")
	// ErrLinkExists is returned when linking an already-linked sub-tag.
	ErrLinkExists = errors.New("tags: link already exists")
)

// Service provides lookup and hierarchy maintenance over tags.
type Service struct {
	mu       sync.RWMutex
	byID     map[int]model.Tag
	children map[int][]int
	nextID   int
}

// NewService creates an empty tag store.
func NewService() *Service {
	return &Service{
		byID:     make(map[int]model.Tag),
		children: make(map[int][]int),
		nextID:   1,
	}
}

// Create adds a tag and returns it with its assigned id.
func (s *Service) Create(name string) model.Tag {
	s.mu.Lock()
	defer s.mu.Unlock()
	tag := model.Tag{ID: s.nextID, Name: name}
	s.byID[tag.ID] = tag
	s.nextID++
	return tag
}

// Get returns a tag by id.
func (s *Service) Get(id int) (model.Tag, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tag, ok := s.byID[id]
	if !ok {
		return model.Tag{}, fmt.Errorf("tag %d: %w", id, ErrNotFound)
	}
	return tag, nil
}

// All returns every tag, in id order not guaranteed.
func (s *Service) All() []model.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Tag, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t)
	}
	return out
}

// Link makes child a sub-tag of parent. Linking a tag to itself or linking
// the same pair twice is an error.
func (s *Service) Link(parentID, childID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[parentID]; !ok {
		return fmt.Errorf("tag %d: %w", parentID, ErrNotFound)
	}
	if _, ok := s.byID[childID]; !ok {
		return fmt.Errorf("tag %d: %w", childID, ErrNotFound)
	}
	if parentID == childID {
		return fmt.Errorf("tag %d: cannot be its own sub-tag", parentID)
	}
	for _, c := range s.children[parentID] {
		if c == childID {
			return fmt.Errorf("tag %d under %d: %w", childID, parentID, ErrLinkExists)
		}
	}
	s.children[parentID] = append(s.children[parentID], childID)
	return nil
}

// Unlink removes a sub-tag link.
func (s *Service) Unlink(parentID, childID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kids := s.children[parentID]
	for i, c := range kids {
		if c == childID {
			s.children[parentID] = append(kids[:i], kids[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("tag %d under %d: %w", childID, parentID, ErrNotFound)
}

// SubTags returns the direct sub-tags of a tag.
func (s *Service) SubTags(id int) []model.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Tag
	for _, c := range s.children[id] {
		out = append(out, s.byID[c])
	}
	return out
}
