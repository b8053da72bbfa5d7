package records

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Encode renders a table as an indented JSON array of row objects keyed by
// column heading, keys in column order.
func Encode(table Table, sentinel string) ([]byte, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	var payload any
	switch t := table.(type) {
	case *TeamTable:
		return encodeTeam(t, sentinel)
	case *TimelineTable:
		rows := make([]timelineRecord, 0, len(t.Rows))
		for _, row := range t.Rows {
			rows = append(rows, timelineRecord{Phase: row.Phase, Start: row.Start.String(), End: row.End.String()})
		}
		payload = rows
	case *ProgressTable:
		rows := make([]progressRecord, 0, len(t.Rows))
		for _, row := range t.Rows {
			rows = append(rows, progressRecord{Phase: row.Phase, Percent: row.Percent})
		}
		payload = rows
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, table)
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("records: encode %s: %w", table.Kind(), err)
	}
	return append(encoded, '\n'), nil
}

// Decode parses the JSON form of a table. Any structural problem, and any
// table that fails Validate, is reported as ErrMalformed.
func Decode(kind Kind, data []byte, sentinel string) (Table, error) {
	var (
		table Table
		err   error
	)
	switch kind {
	case KindTeam:
		table, err = decodeTeam(data, sentinel)
	case KindTimeline:
		table, err = decodeTimeline(data)
	case KindProgress:
		table, err = decodeProgress(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	if err != nil {
		return nil, malformed(err)
	}
	if err := table.Validate(); err != nil {
		return nil, malformed(err)
	}
	return table, nil
}

func malformed(err error) error {
	if errors.Is(err, ErrMalformed) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrMalformed, err)
}

type timelineRecord struct {
	Phase string `json:"Phase"`
	Start string `json:"Start Date"`
	End   string `json:"End Date"`
}

type progressRecord struct {
	Phase   string `json:"Phase"`
	Percent int    `json:"Progress (%)"`
}

type timelineWire struct {
	Phase *string `json:"Phase"`
	Start *Date   `json:"Start Date"`
	End   *Date   `json:"End Date"`
}

type progressWire struct {
	Phase   *string `json:"Phase"`
	Percent *int    `json:"Progress (%)"`
}

func decodeTimeline(data []byte) (*TimelineTable, error) {
	var wire []timelineWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, err
	}
	table := &TimelineTable{Rows: make([]TimelineRow, 0, len(wire))}
	for i, row := range wire {
		if row.Phase == nil || row.Start == nil || row.End == nil {
			return nil, fmt.Errorf("row %d: missing column", i)
		}
		table.Rows = append(table.Rows, TimelineRow{Phase: *row.Phase, Start: *row.Start, End: *row.End})
	}
	return table, nil
}

func decodeProgress(data []byte) (*ProgressTable, error) {
	var wire []progressWire
	if err := strictUnmarshal(data, &wire); err != nil {
		return nil, err
	}
	table := &ProgressTable{Rows: make([]ProgressRow, 0, len(wire))}
	for i, row := range wire {
		if row.Phase == nil || row.Percent == nil {
			return nil, fmt.Errorf("row %d: missing column", i)
		}
		table.Rows = append(table.Rows, ProgressRow{Phase: *row.Phase, Percent: *row.Percent})
	}
	return table, nil
}

func strictUnmarshal(data []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return err
	}
	return expectEOF(dec)
}

func encodeTeam(t *TeamTable, sentinel string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		if err := writeField(&buf, ColumnPhase, row.Phase); err != nil {
			return nil, err
		}
		for j, team := range t.Teams {
			if err := row.Cells[j].CheckSentinel(sentinel); err != nil {
				return nil, fmt.Errorf("phase %q, team %q: %w", row.Phase, team, err)
			}
			buf.WriteByte(',')
			if err := writeField(&buf, team, row.Cells[j].Text(sentinel)); err != nil {
				return nil, err
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, fmt.Errorf("records: encode team: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key, value string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("records: encode key %q: %w", key, err)
	}
	v, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("records: encode value for %q: %w", key, err)
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// decodeTeam walks the token stream so the team columns keep the key order
// of the first row object.
func decodeTeam(data []byte, sentinel string) (*TeamTable, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}
	table := &TeamTable{}
	for index := 0; dec.More(); index++ {
		fields, order, err := readObject(dec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", index, err)
		}
		if index == 0 {
			for _, key := range order {
				if key != ColumnPhase {
					table.Teams = append(table.Teams, key)
				}
			}
		}
		row, err := teamRow(table.Teams, fields, sentinel)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", index, err)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	if err := expectEOF(dec); err != nil {
		return nil, err
	}
	return table, nil
}

func teamRow(teams []string, fields map[string]json.RawMessage, sentinel string) (TeamRow, error) {
	if len(fields) != len(teams)+1 {
		return TeamRow{}, fmt.Errorf("expected %d columns, got %d", len(teams)+1, len(fields))
	}
	rawPhase, ok := fields[ColumnPhase]
	if !ok {
		return TeamRow{}, fmt.Errorf("missing %q column", ColumnPhase)
	}
	var phase string
	if err := json.Unmarshal(rawPhase, &phase); err != nil {
		return TeamRow{}, fmt.Errorf("phase must be a string")
	}
	row := TeamRow{Phase: phase, Cells: make([]Assignment, len(teams))}
	for i, team := range teams {
		raw, ok := fields[team]
		if !ok {
			return TeamRow{}, fmt.Errorf("missing %q column", team)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			row.Cells[i] = Unassigned()
			continue
		}
		var members string
		if err := json.Unmarshal(raw, &members); err != nil {
			return TeamRow{}, fmt.Errorf("%q members must be a string", team)
		}
		row.Cells[i] = ParseAssignment(members, sentinel)
	}
	return row, nil
}

func readObject(dec *json.Decoder) (map[string]json.RawMessage, []string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}
	fields := map[string]json.RawMessage{}
	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v", tok)
		}
		if _, dup := fields[key]; dup {
			return nil, nil, fmt.Errorf("duplicate column %q", key)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		fields[key] = raw
		order = append(order, key)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}
	return fields, order, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func expectEOF(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("unexpected data after table")
	}
	return nil
}
