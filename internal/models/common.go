// internal/models/common.go
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// RefID is a foreign reference as the catalog service sends it: either a bare
// id string or a populated document carrying "_id". The empty value is null.
type RefID string

func (r RefID) IsZero() bool { return r == "" }

func (r RefID) String() string { return string(r) }

func (r RefID) MarshalJSON() ([]byte, error) {
	if r == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

func (r *RefID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RefID(s)
		return nil
	case '{':
		var doc struct {
			ID  string `json:"_id"`
			Alt string `json:"id"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return err
		}
		if doc.ID == "" {
			doc.ID = doc.Alt
		}
		*r = RefID(doc.ID)
		return nil
	case '[':
		// Legacy drafts stored category1 as an array; the first entry wins.
		var refs []RefID
		if err := json.Unmarshal(data, &refs); err != nil {
			return err
		}
		*r = ""
		if len(refs) > 0 {
			*r = refs[0]
		}
		return nil
	}

	return fmt.Errorf("unsupported reference value %s", string(data))
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Notice is a user-visible message. Key is an i18n key; Args fill its verbs.
type Notice struct {
	Kind NoticeKind    `json:"type"`
	Key  string        `json:"key"`
	Args []interface{} `json:"args,omitempty"`
}

func NewNotice(kind NoticeKind, key string, args ...interface{}) *Notice {
	return &Notice{Kind: kind, Key: key, Args: args}
}
