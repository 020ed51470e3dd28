package plan

import "regexp"

// The monitor encodes substituted values as a marked span followed by the
// usual value in parentheses. Older payloads wrap the parenthesized part in
// a second span; both forms must be accepted:
//
//	<span class="substMonitorSubstElem">B204</span> (A101)
//	<span class="substMonitorSubstElem">B204</span> (<span class="cancelStyle">A101</span>)
var substRegex = regexp.MustCompile(
	`^<span class="substMonitorSubstElem">(.+)</span> \((?:<span class="cancelStyle">(.+)</span>|(.+))\)$`)

// noValue is the monitor's sentinel for an absent slot.
const noValue = "---"

// IsSubstitution reports whether a field is in the encoded substitution form.
func IsSubstitution(field string) bool {
	return substRegex.MatchString(field)
}

// SplitSubstitution decodes an encoded substitution field into its two
// slots. The second return is false when the field is not in the encoded
// form; callers then use the field as a plain value.
//
// A captured "---" resolves to a nil slot, never the literal sentinel.
// Non-sentinel captures are entity-decoded.
func SplitSubstitution(field string) (Substitution[string], bool) {
	m := substRegex.FindStringSubmatch(field)
	if m == nil {
		return Substitution[string]{}, false
	}

	subst := m[2]
	if subst == "" {
		subst = m[3]
	}

	return Substitution[string]{
		Current: substSlot(m[1]),
		Subst:   substSlot(subst),
	}, true
}

func substSlot(capture string) *string {
	if capture == noValue {
		return nil
	}
	decoded := DecodeText(capture)
	return &decoded
}
