package schema

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// NewRequestID generates a request correlation ID in format req-{nanoid(10)}.
// The API layer stamps one on every request and carries it through logs.
func NewRequestID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("req-%s", id), nil
}
