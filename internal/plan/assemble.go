package plan

import (
	"fmt"
	"strings"

	"github.com/hhgyloh/untisplan-go/internal/errors"
	"github.com/hhgyloh/untisplan-go/internal/untis"
)

// rowFields is the expected number of positional fields in a raw lesson row:
// lesson, time, groups, subject, rooms, teacher, info, message.
const rowFields = 8

// listSeparator separates multiple codes inside one raw field.
const listSeparator = ", "

// ParsePayload normalizes one raw payload into a DayPlan. The plan's entries
// are deduplicated; everything else keeps payload order. Malformed dates or
// rows yield a Parsing error, never a partial plan.
func ParsePayload(payload *untis.Payload) (*DayPlan, error) {
	date, err := DecodeWireDate(payload.Date.String())
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(payload.Rows))
	for i, row := range payload.Rows {
		entry, err := parseEntry(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		entries = append(entries, entry)
	}

	return &DayPlan{
		Date:           date,
		LastUpdate:     DecodeText(payload.LastUpdate),
		AffectedGroups: parseGroupCodes(payload.AffectedElements["1"]),
		Messages:       parseMessages(payload.MessageData.Messages),
		Entries:        DedupEntries(entries),
	}, nil
}

// parseEntry maps one fixed-position raw row onto an Entry.
func parseEntry(row untis.Row) (Entry, error) {
	if len(row.Data) < rowFields {
		return Entry{}, errors.NewParsingError("row", strings.Join(row.Data, "|"),
			fmt.Errorf("want %d fields, got %d", rowFields, len(row.Data)))
	}

	return Entry{
		Lesson:  DecodeText(row.Data[0]),
		Time:    DecodeText(row.Data[1]),
		Groups:  parseGroups(row.Data[2]),
		Subject: NewSubject(DecodeText(row.Data[3])),
		Rooms:   parseRooms(row.Data[4]),
		Teacher: parseTeacher(row.Data[5]),
		Info:    DecodeText(row.Data[6]),
		Message: DecodeText(row.Data[7]),
	}, nil
}

// parseGroups splits a comma-separated group field into Group values.
func parseGroups(field string) []Group {
	return parseGroupCodes(strings.Split(DecodeText(field), listSeparator))
}

func parseGroupCodes(codes []string) []Group {
	groups := make([]Group, 0, len(codes))
	for _, code := range codes {
		groups = append(groups, NewGroup(DecodeText(code)))
	}
	return groups
}

// parseRooms splits a comma-separated room field. Each token is checked for
// the encoded substitution form; plain tokens become rooms directly.
func parseRooms(field string) []RoomSlot {
	tokens := strings.Split(DecodeText(field), listSeparator)
	slots := make([]RoomSlot, 0, len(tokens))
	for _, token := range tokens {
		split, ok := SplitSubstitution(token)
		if !ok {
			room := NewRoom(token)
			slots = append(slots, RoomSlot{Room: &room})
			continue
		}
		sub := &Substitution[Room]{}
		if split.Current != nil {
			room := NewRoom(*split.Current)
			sub.Current = &room
		}
		if split.Subst != nil {
			room := NewRoom(*split.Subst)
			sub.Subst = &room
		}
		slots = append(slots, RoomSlot{Subst: sub})
	}
	return slots
}

// parseTeacher decodes the teacher field. The plain form stays decoded text;
// teacher names are not run through a code normalizer.
func parseTeacher(field string) TeacherSlot {
	decoded := DecodeText(field)
	if split, ok := SplitSubstitution(decoded); ok {
		return TeacherSlot{Subst: &split}
	}
	return TeacherSlot{Name: decoded}
}

func parseMessages(raw []untis.RawMessage) []Message {
	messages := make([]Message, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, Message{
			Subject: DecodeText(m.Subject),
			Body:    DecodeText(m.Body),
		})
	}
	return messages
}
