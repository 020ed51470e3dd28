package plan

import (
	"strings"

	"github.com/hhgyloh/untisplan-go/internal/sliceutil"
)

// DedupEntries removes structurally identical entries, keeping the first
// occurrence and preserving order. Two entries are duplicates iff every
// declared field compares equal, including nested substitution slots and
// derived long names. Idempotent.
func DedupEntries(entries []Entry) []Entry {
	return sliceutil.Deduplicate(entries, entryKey)
}

// Canonical-key separators. Units separate fields, groups separate list
// elements; both are control characters that cannot occur in payload text.
const (
	fieldSep = "\x1f"
	listSep  = "\x1d"
)

// entryKey builds a canonical key over every declared Entry field.
// Deliberately independent of any serialization format.
func entryKey(e Entry) string {
	var b strings.Builder

	b.WriteString(e.Lesson)
	b.WriteString(fieldSep)
	b.WriteString(e.Time)
	b.WriteString(fieldSep)
	for _, g := range e.Groups {
		b.WriteString(g.ShortName)
		b.WriteString(listSep)
	}
	b.WriteString(fieldSep)
	b.WriteString(e.Subject.ShortName)
	b.WriteString(fieldSep)
	for _, r := range e.Rooms {
		writeRoomSlot(&b, r)
		b.WriteString(listSep)
	}
	b.WriteString(fieldSep)
	writeTeacherSlot(&b, e.Teacher)
	b.WriteString(fieldSep)
	b.WriteString(e.Info)
	b.WriteString(fieldSep)
	b.WriteString(e.Message)

	return b.String()
}

func writeRoomSlot(b *strings.Builder, slot RoomSlot) {
	if slot.Subst == nil {
		b.WriteString("room:")
		if slot.Room != nil {
			b.WriteString(slot.Room.ShortName)
		}
		return
	}
	b.WriteString("subst:")
	if slot.Subst.Current != nil {
		b.WriteString(slot.Subst.Current.ShortName)
	}
	b.WriteString("/")
	if slot.Subst.Subst != nil {
		b.WriteString(slot.Subst.Subst.ShortName)
	}
}

func writeTeacherSlot(b *strings.Builder, slot TeacherSlot) {
	if slot.Subst == nil {
		b.WriteString("name:")
		b.WriteString(slot.Name)
		return
	}
	b.WriteString("subst:")
	if slot.Subst.Current != nil {
		b.WriteString(*slot.Subst.Current)
	}
	b.WriteString("/")
	if slot.Subst.Subst != nil {
		b.WriteString(*slot.Subst.Subst)
	}
}
