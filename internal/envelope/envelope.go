// Package envelope validates the {status, result, comment} wrapper that the
// codeforces API puts around every response.
package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
)

const StatusOk = "OK"

var (
	StatusMissing  = errors.New("envelope: status key missing")
	ResultMissing  = errors.New("envelope: status is OK but result key is missing")
	CommentMissing = errors.New("envelope: status is not OK but comment key is missing")
	// Undecodable is not a contract violation, the body was not a JSON
	// object to begin with (ex. an html error page).
	Undecodable = errors.New("envelope: body is not a json object")
)

// StatusFailed is returned for a well formed failure envelope, the error
// message is exactly the comment the server sent.
type StatusFailed struct {
	Status  string
	Comment string
}

func (e *StatusFailed) Error() string {
	return e.Comment
}

// Envelope is a decoded response wrapper with its values left raw.
type Envelope map[string]json.RawMessage

// Validate decodes raw as an envelope and validates it.
func Validate(raw []byte) (json.RawMessage, error) {
	var env Envelope
	err := json.Unmarshal(raw, &env)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", Undecodable, err)
	}
	return ValidateEnvelope(env)
}

// ValidateEnvelope returns the result payload unchanged when the envelope is
// successful, otherwise it returns one of StatusMissing, ResultMissing,
// CommentMissing or *StatusFailed.
func ValidateEnvelope(env Envelope) (json.RawMessage, error) {
	rawStatus, ok := env["status"]
	if !ok {
		return nil, StatusMissing
	}
	// a status that is not a string can never be "OK"
	var status string
	_ = json.Unmarshal(rawStatus, &status)

	if status == StatusOk {
		result, ok := env["result"]
		if !ok {
			return nil, ResultMissing
		}
		return result, nil
	}

	rawComment, ok := env["comment"]
	if !ok {
		return nil, CommentMissing
	}
	var comment string
	err := json.Unmarshal(rawComment, &comment)
	if err != nil {
		comment = string(rawComment)
	}
	return nil, &StatusFailed{Status: status, Comment: comment}
}
