package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"eventcatalog/internal/domain"
)

const (
	recordFields   = 7
	attendeeFields = 4

	attendeeSep = ';'
	valueSep    = ','
	escapeChar  = '\\'
)

var recordFieldNames = [recordFields]string{"type", "title", "host", "description", "date/time", "platform", "capacity"}

// EncodeRecord renders an event as its event line and attendee line, without
// line terminators.
func EncodeRecord(e *domain.Event) (record, attendees string) {
	fields := []string{
		strconv.Itoa(int(e.Type)),
		encodeText(e.Title),
		encodeText(e.Host),
		encodeText(e.Description),
		encodeText(e.DateTime),
		encodeText(e.Platform),
		strconv.Itoa(e.Capacity),
	}
	record = strings.Join(fields, string(fieldSep))

	blocks := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		blocks = append(blocks, strings.Join([]string{
			encodeText(a.Name),
			encodeText(a.Email),
			encodeText(a.Phone),
			encodeText(a.Affiliation),
		}, string(valueSep)))
	}
	attendees = strings.Join(blocks, string(attendeeSep))
	return record, attendees
}

// DecodeRecord parses an event line and its attendee line. An error means the
// whole record must be skipped. Attendee blocks that cannot be read are
// dropped and described in problems; the event itself is still returned.
func DecodeRecord(record, attendees string) (ev *domain.Event, problems []string, err error) {
	fields := splitUnescaped(record, fieldSep)
	if len(fields) != recordFields {
		return nil, nil, fmt.Errorf("expected %d fields, got %d", recordFields, len(fields))
	}
	for i, f := range fields {
		if f == "" {
			return nil, nil, fmt.Errorf("empty %s field", recordFieldNames[i])
		}
	}

	typ, err := domain.ParseEventType(fields[0])
	if err != nil {
		return nil, nil, fmt.Errorf("unknown event type %q", fields[0])
	}
	if !isDigits(fields[6]) {
		return nil, nil, fmt.Errorf("invalid capacity %q", fields[6])
	}
	capacity, err := strconv.Atoi(fields[6])
	if err != nil {
		return nil, nil, fmt.Errorf("invalid capacity %q: %w", fields[6], err)
	}

	ev = domain.NewEvent(typ,
		decodeText(fields[1]),
		decodeText(fields[2]),
		decodeText(fields[3]),
		decodeText(fields[4]),
		decodeText(fields[5]),
		capacity,
	)

	if attendees == "" {
		return ev, nil, nil
	}
	for i, block := range splitUnescaped(attendees, attendeeSep) {
		if block == "" {
			continue
		}
		// Older files start the line with the attendee count.
		if i == 0 && isDigits(block) {
			continue
		}
		values := splitUnescaped(block, valueSep)
		if len(values) != attendeeFields {
			problems = append(problems, fmt.Sprintf("attendee block %d of %q: expected %d fields, got %d",
				i+1, ev.Title, attendeeFields, len(values)))
			continue
		}
		ev.AddAttendee(domain.NewAttendee(
			decodeText(values[0]),
			decodeText(values[1]),
			decodeText(values[2]),
			decodeText(values[3]),
		))
	}
	return ev, problems, nil
}

// Encode writes events in store order, two lines per event.
func Encode(w io.Writer, events []*domain.Event) error {
	bw := bufio.NewWriter(w)
	for _, e := range events {
		record, attendees := EncodeRecord(e)
		if _, err := bw.WriteString(record + "\n" + attendees + "\n"); err != nil {
			return fmt.Errorf("write record %q: %w", e.Title, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

// Decode reads every record from r. Malformed records are skipped and
// reported; only read failures are returned as errors.
func Decode(r io.Reader) ([]*domain.Event, []domain.SkippedRecord, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, nil, err
	}

	var (
		events  []*domain.Event
		skipped []domain.SkippedRecord
	)
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			continue
		}
		lineNo := i + 1

		attendees := ""
		if i+1 < len(lines) && !containsUnescaped(lines[i+1], fieldSep) {
			attendees = lines[i+1]
			i++
		}

		ev, problems, err := DecodeRecord(line, attendees)
		if err != nil {
			skipped = append(skipped, domain.SkippedRecord{Line: lineNo, Reason: err.Error()})
			continue
		}
		for _, p := range problems {
			skipped = append(skipped, domain.SkippedRecord{Line: lineNo + 1, Reason: p})
		}
		events = append(events, ev)
	}
	return events, skipped, nil
}

// readLines splits r into lines without a length limit, so one oversized
// record is skipped by the decoder instead of failing the whole read.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read records: %w", err)
		}
	}
}

func encodeText(s string) string {
	return escape(Obfuscate(s, Shift))
}

func decodeText(s string) string {
	return Deobfuscate(unescape(s), Shift)
}

// escape protects the separators, the escape character and line breaks that
// can appear in obfuscated text.
func escape(s string) string {
	if !strings.ContainsAny(s, "\\|,;\n\r") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case escapeChar, fieldSep, valueSep, attendeeSep:
			b.WriteByte(escapeChar)
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func unescape(s string) string {
	if strings.IndexByte(s, escapeChar) < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != escapeChar || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// splitUnescaped splits s on sep, ignoring escaped occurrences. The parts keep
// their escapes.
func splitUnescaped(s string, sep byte) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			i++
		case sep:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func containsUnescaped(s string, sep byte) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case escapeChar:
			i++
		case sep:
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
