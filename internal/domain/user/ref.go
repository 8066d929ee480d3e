package user

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Summary is the inline profile carried by a resolved reference.
type Summary struct {
	UserID      uuid.UUID `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
}

// Ref points at a user and is either Unresolved (id only) or Resolved
// (id plus inline summary). On the wire an unresolved ref is the bare id
// string and a resolved ref is the summary object.
type Ref struct {
	ID      uuid.UUID
	Summary *Summary
}

func Unresolved(id uuid.UUID) Ref {
	return Ref{ID: id}
}

func Resolved(s Summary) Ref {
	return Ref{ID: s.UserID, Summary: &s}
}

func (r Ref) IsResolved() bool {
	return r.Summary != nil
}

// Resolve returns the resolved variant when the summary is known.
func (r Ref) Resolve(summaries map[uuid.UUID]Summary) Ref {
	if s, ok := summaries[r.ID]; ok {
		return Resolved(s)
	}
	return r
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Summary == nil {
		return json.Marshal(r.ID.String())
	}
	return json.Marshal(r.Summary)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("empty user reference")
	}
	if data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return fmt.Errorf("invalid user reference: %w", err)
		}
		*r = Unresolved(id)
		return nil
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s.UserID == uuid.Nil {
		return fmt.Errorf("user reference object missing userId")
	}
	*r = Resolved(s)
	return nil
}
