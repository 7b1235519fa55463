package session

import (
	"encoding/json"
)

// FlashKind is the severity of a flash message.
type FlashKind string

// Flash kinds, matching the alert classes of the layout.
const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "danger"
	FlashInfo    FlashKind = "info"
)

// Flash is a message shown once on the next rendered page.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// AddFlash queues a message for the next page of the browser session. It
// does not require an authenticated session, so a message can outlive logout.
func (s *Store) AddFlash(sessionID string, kind FlashKind, message string) error {
	if sessionID == "" || message == "" {
		return nil
	}

	flashes := s.peekFlashes(sessionID)
	flashes = append(flashes, Flash{Kind: kind, Message: message})

	out, err := json.Marshal(flashes)
	if err != nil {
		return err
	}

	return s.storage.Set(sessionID+flashSuffix, out, flashExpiry)
}

// Flashes returns and clears the queued messages.
func (s *Store) Flashes(sessionID string) []Flash {
	if sessionID == "" {
		return nil
	}

	flashes := s.peekFlashes(sessionID)
	if len(flashes) > 0 {
		_ = s.storage.Delete(sessionID + flashSuffix)
	}

	return flashes
}

func (s *Store) peekFlashes(sessionID string) []Flash {
	raw, err := s.storage.Get(sessionID + flashSuffix)
	if err != nil || len(raw) == 0 {
		return nil
	}

	var flashes []Flash
	if err = json.Unmarshal(raw, &flashes); err != nil {
		return nil
	}

	return flashes
}
