package wizard

import (
	"strings"

	"github.com/google/uuid"
)

// --- Selected-product lines ---

// AddLine appends a new line for the given catalog product. The quantity
// must be positive and the product must exist in the loaded catalog;
// otherwise nothing changes. The new line gets a fresh instance ID and an
// empty observation list.
func (s *Session) AddLine(productID uuid.UUID, quantity int32) (Line, error) {
	if !s.productsLoaded {
		return Line{}, ErrProductsNotLoaded
	}
	if quantity <= 0 {
		return Line{}, ErrInvalidQuantity
	}

	var product *Product
	for i := range s.products {
		if s.products[i].ID == productID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		return Line{}, ErrProductNotFound
	}

	s.nextInstance++
	line := Line{
		InstanceID: s.nextInstance,
		ProductID:  product.ID,
		Name:       product.Name,
		Price:      product.Price,
		Quantity:   quantity,
	}
	s.lines = append(s.lines, line)

	if s.activeTab == 0 {
		s.activeTab = line.InstanceID
	}
	s.recompute()
	return line, nil
}

// RemoveLine removes the line with the given instance ID. If it owned the
// active observation tab, the first remaining line's tab becomes active.
func (s *Session) RemoveLine(instanceID int64) error {
	idx := s.lineIndex(instanceID)
	if idx < 0 {
		return ErrLineNotFound
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)

	if s.activeTab == instanceID {
		if len(s.lines) > 0 {
			s.activeTab = s.lines[0].InstanceID
		} else {
			s.activeTab = 0
		}
	}
	if s.edit != nil && s.edit.instanceID == instanceID {
		s.edit = nil
	}
	s.recompute()
	return nil
}

// Lines returns the selected-product lines in insertion order.
func (s *Session) Lines() []Line { return s.lines }

func (s *Session) lineIndex(instanceID int64) int {
	for i := range s.lines {
		if s.lines[i].InstanceID == instanceID {
			return i
		}
	}
	return -1
}

// --- Observation tabs ---

// ActiveTab returns the instance ID of the active observation tab, or false
// if there are no lines.
func (s *Session) ActiveTab() (int64, bool) {
	if s.activeTab == 0 {
		return 0, false
	}
	return s.activeTab, true
}

// SelectTab makes the given line's observation tab active.
func (s *Session) SelectTab(instanceID int64) error {
	if s.lineIndex(instanceID) < 0 {
		return ErrLineNotFound
	}
	s.activeTab = instanceID
	return nil
}

// --- Observations ---

// AddObservation appends free-text to a line's observation list.
// Blank or whitespace-only text is rejected.
func (s *Session) AddObservation(instanceID int64, text string) error {
	idx := s.lineIndex(instanceID)
	if idx < 0 {
		return ErrLineNotFound
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyObservation
	}
	s.lines[idx].Observations = append(s.lines[idx].Observations, text)
	return nil
}

// BeginEditObservation enters edit mode for one observation and returns its
// current text for the edit field. Starting a new edit replaces any edit
// already in progress.
func (s *Session) BeginEditObservation(instanceID int64, index int) (string, error) {
	idx := s.lineIndex(instanceID)
	if idx < 0 {
		return "", ErrLineNotFound
	}
	if index < 0 || index >= len(s.lines[idx].Observations) {
		return "", ErrObservationNotFound
	}
	original := s.lines[idx].Observations[index]
	s.edit = &obsEdit{instanceID: instanceID, index: index, original: original}
	return original, nil
}

// CommitEditObservation ends the edit in progress. Blank text is a no-op
// that keeps the original value: blank input never destroys an observation.
func (s *Session) CommitEditObservation(text string) error {
	if s.edit == nil {
		return ErrNoEditInProgress
	}
	edit := *s.edit
	s.edit = nil

	idx := s.lineIndex(edit.instanceID)
	if idx < 0 {
		return ErrLineNotFound
	}
	if edit.index >= len(s.lines[idx].Observations) {
		return ErrObservationNotFound
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	s.lines[idx].Observations[edit.index] = text
	return nil
}

// DeleteObservation removes one observation from a line by index.
func (s *Session) DeleteObservation(instanceID int64, index int) error {
	idx := s.lineIndex(instanceID)
	if idx < 0 {
		return ErrLineNotFound
	}
	obs := s.lines[idx].Observations
	if index < 0 || index >= len(obs) {
		return ErrObservationNotFound
	}
	s.lines[idx].Observations = append(obs[:index], obs[index+1:]...)
	return nil
}
