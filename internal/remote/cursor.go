package remote

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// cursor fixes the resume position of a createdAt-descending scan: the
// next page starts strictly after (CreatedAt, Id) in that ordering.
type cursor struct {
	CreatedAt time.Time `json:"c"`
	Id        string    `json:"i"`
}

func encodeCursor(c cursor) string {
	b, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decodeCursor(s string) (cursor, error) {
	var c cursor
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return c, fmt.Errorf("invalid cursor: %w", err)
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, fmt.Errorf("invalid cursor: %w", err)
	}
	return c, nil
}
