package untis

import "encoding/json"

// substitutionRequest is the JSON body posted to the substitution monitor.
// Field set mirrors what the official monitor frontend sends; the service
// rejects requests with missing display flags.
type substitutionRequest struct {
	SchoolName                 string `json:"schoolName"`
	FormatName                 string `json:"formatName"`
	Date                       int    `json:"date"`
	MergeBlocks                bool   `json:"mergeBlocks"`
	ShowTeacher                bool   `json:"showTeacher"`
	ShowClass                  bool   `json:"showClass"`
	ShowHour                   bool   `json:"showHour"`
	ShowInfo                   bool   `json:"showInfo"`
	ShowRoom                   bool   `json:"showRoom"`
	ShowSubject                bool   `json:"showSubject"`
	GroupBy                    int    `json:"groupBy"`
	HideAbsent                 bool   `json:"hideAbsent"`
	DepartmentIDs              []int  `json:"departmentIds"`
	DepartmentElementType      int    `json:"departmentElementType"`
	HideCancelWithSubstitution bool   `json:"hideCancelWithSubstitution"`
	ShowTime                   bool   `json:"showTime"`
	ShowSubstText              bool   `json:"showSubstText"`
	ShowAbsentElements         []int  `json:"showAbsentElements"`
	ShowAffectedElements       []int  `json:"showAffectedElements"`
	ShowUnitTime               bool   `json:"showUnitTime"`
	ShowMessages               bool   `json:"showMessages"`
	ShowAbsentTeacher          bool   `json:"showAbsentTeacher"`
	ShowCancel                 bool   `json:"showCancel"`
}

// envelope is the outer response wrapper: either a payload, an error
// object, or both absent on malformed responses.
type envelope struct {
	Payload *Payload       `json:"payload"`
	Error   *envelopeError `json:"error"`
}

// envelopeError is the explicit error object of the response envelope.
type envelopeError struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
	Code    int    `json:"code"`
}

// Payload is one day's raw substitution data as delivered by the monitor.
// All text fields are HTML-entity encoded; normalization happens in the
// plan package, not here.
type Payload struct {
	// Date is the wire date of the day this payload describes (YYYYMMDD,
	// delivered as a JSON number or string depending on service version).
	Date json.Number `json:"date"`

	// LastUpdate is presentation-only text, format not guaranteed.
	LastUpdate string `json:"lastUpdate"`

	// AffectedElements maps element-type keys to code lists.
	// Key "1" holds the affected group/class codes.
	AffectedElements map[string][]string `json:"affectedElements"`

	// MessageData carries the messages of the day.
	MessageData MessageData `json:"messageData"`

	// Rows holds the raw lesson rows, 8 positional fields each.
	Rows []Row `json:"rows"`

	// NextDate is the wire date of the next day with data, or null.
	NextDate *json.Number `json:"nextDate"`
}

// MessageData wraps the message list of a payload.
type MessageData struct {
	Messages []RawMessage `json:"messages"`
}

// RawMessage is one message of the day, fields still entity-encoded.
type RawMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Row is one raw lesson row. Data holds the 8 positional fields:
// lesson, time, groups, subject, rooms, teacher, info, message.
type Row struct {
	Data  []string `json:"data"`
	Group string   `json:"group"`
}

// NextDateCode returns the next-date hint as an integer wire code,
// or 0 and false when the hint is absent.
func (p *Payload) NextDateCode() (int, bool) {
	if p.NextDate == nil {
		return 0, false
	}
	next, err := p.NextDate.Int64()
	if err != nil {
		return 0, false
	}
	return int(next), true
}
