// Package plan normalizes raw substitution-monitor payloads into typed,
// immutable day-plan records and drives multi-day pagination.
package plan

import (
	"encoding/json"
	"time"
)

// Substitution is a two-slot record for a value currently in effect that
// differs from the normally scheduled one. A nil slot means the monitor
// marked it as absent ("---").
type Substitution[T any] struct {
	// Current is the room/teacher/etc. actually in effect.
	Current *T `json:"current"`
	// Subst is the usual room/teacher/etc. being substituted for.
	Subst *T `json:"subst"`
}

// Group represents a class or course group.
type Group struct {
	// ShortName is the raw institutional code, verbatim.
	// Examples include "S1/2_LeD 2".
	ShortName string `json:"shortName"`
	// LongName is the descriptive expansion, e.g. "S1/2 Geschichtsprofil 2".
	// Unknown codes keep the short name.
	LongName string `json:"longName"`
}

// NewGroup creates a group from its short code, deriving the long name.
func NewGroup(shortName string) Group {
	return Group{ShortName: shortName, LongName: NormalizeGroup(shortName)}
}

// Room represents a physical room that lessons take place in.
type Room struct {
	// ShortName is the raw room code, e.g. "BSp3" or "L101".
	ShortName string `json:"shortName"`
	// LongName is the descriptive expansion, e.g. "Sporthalle 3".
	LongName string `json:"longName"`
}

// NewRoom creates a room from its short code, deriving the long name.
func NewRoom(shortName string) Room {
	return Room{ShortName: shortName, LongName: NormalizeRoom(shortName)}
}

// Subject represents a subject or course.
type Subject struct {
	// ShortName is the raw subject code, e.g. "Ch" or "Deg1".
	ShortName string `json:"shortName"`
	// LongName is the descriptive expansion, e.g. "Chemie" or "Deutsch G1".
	LongName string `json:"longName"`
}

// NewSubject creates a subject from its short code, deriving the long name.
func NewSubject(shortName string) Subject {
	return Subject{ShortName: shortName, LongName: NormalizeSubject(shortName)}
}

// Message is a general message for the day, usually aimed at most students.
// Subject is often empty.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// RoomSlot holds either a plain room or a room substitution.
// Exactly one of the two fields is set.
type RoomSlot struct {
	Room  *Room
	Subst *Substitution[Room]
}

// MarshalJSON renders the slot as the plain room or the substitution record.
func (s RoomSlot) MarshalJSON() ([]byte, error) {
	if s.Subst != nil {
		return json.Marshal(s.Subst)
	}
	return json.Marshal(s.Room)
}

// UnmarshalJSON accepts both shapes produced by MarshalJSON.
func (s *RoomSlot) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if _, ok := probe["current"]; ok {
		s.Subst = &Substitution[Room]{}
		return json.Unmarshal(data, s.Subst)
	}
	s.Room = &Room{}
	return json.Unmarshal(data, s.Room)
}

// TeacherSlot holds either a plain teacher name or a teacher substitution.
type TeacherSlot struct {
	Name  string
	Subst *Substitution[string]
}

// MarshalJSON renders the slot as the plain name or the substitution record.
func (s TeacherSlot) MarshalJSON() ([]byte, error) {
	if s.Subst != nil {
		return json.Marshal(s.Subst)
	}
	return json.Marshal(s.Name)
}

// UnmarshalJSON accepts both shapes produced by MarshalJSON.
func (s *TeacherSlot) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.Name)
	}
	s.Subst = &Substitution[string]{}
	return json.Unmarshal(data, s.Subst)
}

// Entry is one lesson-affecting record of a day plan.
type Entry struct {
	// Lesson is the raw lesson identifier or range. Opaque text: the
	// monitor does not guarantee a numeric or contiguous format.
	Lesson string `json:"lesson"`
	// Time is the raw display time range, presentation-only.
	Time string `json:"time"`
	// Groups lists the groups this entry affects.
	Groups []Group `json:"groups"`
	// Subject of the lesson.
	Subject Subject `json:"subject"`
	// Rooms holds one slot per comma-separated raw room token.
	Rooms []RoomSlot `json:"rooms"`
	// Teacher of the lesson, possibly substituted.
	Teacher TeacherSlot `json:"teacher"`
	// Info is a short classification, e.g. a cancellation marker. Opaque.
	Info string `json:"info"`
	// Message is a free-text note. Opaque.
	Message string `json:"message"`
}

// Affects reports whether the entry names the given group.
func (e *Entry) Affects(group Group) bool {
	for _, g := range e.Groups {
		if g.ShortName == group.ShortName {
			return true
		}
	}
	return false
}

// DayPlan is the substitution plan for one whole day.
type DayPlan struct {
	// Date this plan corresponds to (UTC midnight).
	Date time.Time `json:"date"`
	// LastUpdate is the time the plan was last updated. Not in a
	// standardized format, purely for presentational purposes.
	LastUpdate string `json:"lastUpdate"`
	// AffectedGroups lists the groups affected by this plan.
	AffectedGroups []Group `json:"affectedGroups"`
	// Messages of the day.
	Messages []Message `json:"messages"`
	// Entries for the day, deduplicated, in payload order.
	Entries []Entry `json:"entries"`
}

// IsAffected checks whether a given group is affected by this plan.
func (p *DayPlan) IsAffected(group Group) bool {
	for _, g := range p.AffectedGroups {
		if g.ShortName == group.ShortName {
			return true
		}
	}
	return false
}

// EntriesFor returns all entries that affect the given group.
func (p *DayPlan) EntriesFor(group Group) []Entry {
	if !p.IsAffected(group) {
		return nil
	}
	var entries []Entry
	for _, e := range p.Entries {
		if e.Affects(group) {
			entries = append(entries, e)
		}
	}
	return entries
}
