package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"vote-dashboard-go/internal/types"
)

var (
	errNotArray     = errors.New("expected a JSON array of votes")
	errTrailingData = errors.New("unexpected data after the vote array")
)

// Parse decodes a vote payload. Records with an unexpected shape are kept
// with the bad fields emptied; recovered reports how many were patched.
func Parse(payload []byte) (records types.Collection, recovered int, err error) {
	var raw json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(payload))
	if err := dec.Decode(&raw); err != nil {
		return nil, 0, err
	}
	// a second document means the file was appended to, not rewritten
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return nil, 0, fmt.Errorf("%w at offset %d", errTrailingData, dec.InputOffset())
	}
	trimmed := bytes.TrimSpace(raw)
	if isNull(trimmed) {
		return types.Collection{}, 0, nil
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, 0, errNotArray
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, 0, err
	}
	records = make(types.Collection, 0, len(items))
	for _, item := range items {
		rec, clean := decodeRecord(item)
		if !clean {
			recovered++
		}
		records = append(records, rec)
	}
	return records, recovered, nil
}

func decodeRecord(raw json.RawMessage) (types.VoteRecord, bool) {
	var rec types.VoteRecord
	var fields map[string]json.RawMessage
	if isNull(raw) || json.Unmarshal(raw, &fields) != nil {
		return rec, false
	}
	clean := true

	if v, ok := fields["valores"]; ok && !isNull(v) {
		var cats map[string]json.RawMessage
		if err := json.Unmarshal(v, &cats); err != nil {
			clean = false
		} else {
			rec.Values = make(map[string][]string, len(cats))
			for cat, list := range cats {
				ids, ok := decodeIDs(list)
				if !ok {
					clean = false
				}
				rec.Values[cat] = ids
			}
		}
	}

	if v, ok := fields["mejor_companero"]; ok && !isNull(v) {
		ids, ok := decodeIDs(v)
		if !ok {
			clean = false
		}
		rec.BestCompanion = ids
	}
	return rec, clean
}

// decodeIDs keeps the string entries of a JSON list, in order.
func decodeIDs(raw json.RawMessage) ([]string, bool) {
	if isNull(raw) {
		return nil, true
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	ids := make([]string, 0, len(items))
	clean := true
	for _, item := range items {
		var id string
		if err := json.Unmarshal(item, &id); err != nil || isNull(item) {
			clean = false
			continue
		}
		ids = append(ids, id)
	}
	return ids, clean
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
