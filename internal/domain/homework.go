package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField  = errors.New("missing field in API response")
	ErrWrongShape    = errors.New("unexpected shape of API data")
	ErrMissingKey    = errors.New("missing key in homework record")
	ErrUnknownStatus = errors.New("unknown homework status")
)

// Status is the review state of a homework as reported by the API.
type Status string

const (
	StatusApproved  Status = "approved"
	StatusReviewing Status = "reviewing"
	StatusRejected  Status = "rejected"
)

var verdicts = map[Status]string{
	StatusApproved:  "Работа проверена: ревьюеру всё понравилось. Ура!",
	StatusReviewing: "Работа взята на проверку ревьюером.",
	StatusRejected:  "Работа проверена: у ревьюера есть замечания.",
}

// Verdict returns the fixed phrase for a known status.
func (s Status) Verdict() (string, bool) {
	v, ok := verdicts[s]
	return v, ok
}

// Record identifies one submission state. Two records are the same
// notification iff name and status match; other API fields are ignored.
type Record struct {
	Name   string
	Status Status
}

// Message formats the notification text for the record.
func (r Record) Message() (string, error) {
	verdict, ok := r.Status.Verdict()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, string(r.Status))
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", r.Name, verdict), nil
}

// RecordFrom extracts the record identity from a decoded homework object.
func RecordFrom(hw any) (Record, error) {
	obj, ok := hw.(map[string]any)
	if !ok {
		return Record{}, fmt.Errorf("%w: homework is %T, want object", ErrWrongShape, hw)
	}
	var rec Record
	for _, key := range []string{"status", "homework_name"} {
		raw, ok := obj[key]
		if !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrMissingKey, key)
		}
		s, ok := raw.(string)
		if !ok {
			return Record{}, fmt.Errorf("%w: %s is %T, want string", ErrWrongShape, key, raw)
		}
		if key == "status" {
			rec.Status = Status(s)
		} else {
			rec.Name = s
		}
	}
	return rec, nil
}

// ParseStatus builds the status-change message for a decoded homework object.
func ParseStatus(hw any) (string, error) {
	rec, err := RecordFrom(hw)
	if err != nil {
		return "", err
	}
	return rec.Message()
}
