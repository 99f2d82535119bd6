package scitalk

import (
	"log"
	"strings"
	"sync"
)

// VerificationStatus tracks where the current topic sits in the curriculum
// check.
type VerificationStatus string

const (
	VerificationNotChecked VerificationStatus = "not_checked"
	VerificationPending    VerificationStatus = "pending"
	VerificationApproved   VerificationStatus = "approved"
	VerificationRejected   VerificationStatus = "rejected"
	VerificationError      VerificationStatus = "error"
)

// FollowUp is one student question and the AI's answer to it.
type FollowUp struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Session holds one user's in-progress interaction state. It lives only in
// memory for the duration of their use and is mutated exclusively by the
// Workflow in response to user actions.
type Session struct {
	ID                  string
	GradeLevel          string
	SubjectName         string
	Topic               string
	Verification        VerificationStatus
	VerificationMessage string
	GeneratedQuestion   string
	StudentAnswer       string
	AIFeedback          string
	FollowUps           []FollowUp

	// Notice carries the last action's inline message to the next render.
	Notice string

	// Transcript, when non-nil, receives every AI request/response of the
	// session.
	Transcript *TranscriptLog
}

// NewSession creates an empty session for the given opaque id.
func NewSession(id string) *Session {
	return &Session{
		ID:           id,
		Verification: VerificationNotChecked,
	}
}

// SetTopic records the selected grade, subject and topic. Any change to the
// triple invalidates the previous verification and clears everything derived
// from it. The follow-up history is kept across topic changes.
func (s *Session) SetTopic(gradeLevel, subjectName, topic string) {
	topic = strings.TrimSpace(topic)
	if gradeLevel == s.GradeLevel && subjectName == s.SubjectName && topic == s.Topic {
		return
	}
	s.GradeLevel = gradeLevel
	s.SubjectName = subjectName
	s.Topic = topic
	s.Verification = VerificationNotChecked
	s.VerificationMessage = ""
	s.GeneratedQuestion = ""
	s.StudentAnswer = ""
	s.AIFeedback = ""
}

// InputComplete reports whether grade, subject and topic are all filled in.
func (s *Session) InputComplete() bool {
	return s.GradeLevel != "" && s.SubjectName != "" && s.Topic != ""
}

// CanGenerateQuestion reports whether question generation is unlocked.
func (s *Session) CanGenerateQuestion() bool {
	return s.Verification == VerificationApproved
}

// CanAnswer reports whether the answer and follow-up steps are reachable.
func (s *Session) CanAnswer() bool {
	return s.GeneratedQuestion != ""
}

// CanExport reports whether the export step is reachable.
func (s *Session) CanExport() bool {
	return s.AIFeedback != ""
}

// SessionStore owns the live sessions, keyed by the opaque id held in the
// browser cookie. Sessions are fully isolated from each other and are never
// persisted.
type SessionStore struct {
	mu            sync.Mutex
	sessions      map[string]*Session
	transcriptDir string
}

// NewSessionStore creates an empty store. When transcriptDir is non-empty,
// every new session gets a transcript log file under it.
func NewSessionStore(transcriptDir string) *SessionStore {
	return &SessionStore{
		sessions:      make(map[string]*Session),
		transcriptDir: transcriptDir,
	}
}

// Get returns the session for id, creating it on first use.
func (st *SessionStore) Get(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	if s, ok := st.sessions[id]; ok {
		return s
	}

	s := NewSession(id)
	if st.transcriptDir != "" {
		transcript, err := OpenTranscriptLog(st.transcriptDir, id)
		if err != nil {
			log.Printf("Transcript log unavailable for session %s: %v", id, err)
		} else {
			s.Transcript = transcript
		}
	}
	st.sessions[id] = s
	return s
}

// Delete ends a session and closes its transcript log.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.sessions[id]
	if !ok {
		return
	}
	if s.Transcript != nil {
		if err := s.Transcript.Close(); err != nil {
			log.Printf("Failed to close transcript for session %s: %v", id, err)
		}
	}
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}
