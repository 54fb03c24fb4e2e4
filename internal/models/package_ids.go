package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// PackageIDList is a list of package ids that tolerates the upstream's
// storage quirk: the column is free text, so the API emits either a JSON
// array of numbers or a string containing a JSON array ("[1, 2, 3]").
// Unparseable strings decode as an empty list rather than failing the
// whole payload.
type PackageIDList []int64

func (p *PackageIDList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = nil
		return nil
	}

	if data[0] == '[' {
		var ids []int64
		if err := json.Unmarshal(data, &ids); err != nil {
			return err
		}
		*p = ids
		return nil
	}

	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*p = parseIDString(raw)
		return nil
	}

	// A bare number is treated as a one-element list.
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*p = PackageIDList{id}
	return nil
}

func (p PackageIDList) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]int64(p))
}

func parseIDString(raw string) PackageIDList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err == nil {
		return ids
	}

	// Last resort: comma-separated digits without brackets.
	raw = strings.Trim(raw, "[]")
	var out PackageIDList
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil
		}
		out = append(out, id)
	}
	return out
}
