package normalize

import (
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// NormalizedError is the canonical record produced for every recognized
// error value. Fields that the source does not carry keep their zero value:
// StatusCode 0 and an empty StatusMessage mean "undefined".
type NormalizedError struct {
	Cause         any    `json:"cause"`
	Data          any    `json:"data"`
	Message       string `json:"message"`
	Name          string `json:"name"`
	Stack         string `json:"stack"`
	StatusCode    int    `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`

	// Kind is the shape the source value matched.
	Kind Kind `json:"-"`
}

// Error implements the error interface.
func (e *NormalizedError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Name, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Unwrap returns Cause when it is an error.
func (e *NormalizedError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// HasStatus reports whether a status code was found.
func (e *NormalizedError) HasStatus() bool {
	return e.StatusCode != 0
}

// Normalize classifies raw and builds its canonical record. It fails with an
// *UnrecognizedShapeError carrying raw when raw matches no known shape.
func Normalize(raw any) (*NormalizedError, error) {
	kind := Classify(raw)
	if kind == KindInvalid {
		return nil, &UnrecognizedShapeError{Value: raw}
	}

	s := sourceOf(raw)
	n := &NormalizedError{
		Kind:    kind,
		Cause:   causeOf(raw, s),
		Message: messageOf(raw, s),
	}
	n.Stack, _ = s.str("stack")
	n.Name, _ = s.taggedStr("name")
	if n.Name == "" {
		n.Name = kind.defaultName()
	}

	switch kind {
	case KindTransport:
		resp := sourceOf(s.valueOrNil("response"))
		if code, ok := s.number("status"); ok {
			n.StatusCode = code
		} else if code, ok := resp.number("status"); ok {
			n.StatusCode = code
		}
		if text, ok := s.str("statusText"); ok {
			n.StatusMessage = text
		} else if text, ok := resp.str("statusText"); ok {
			n.StatusMessage = text
		} else {
			n.StatusMessage = n.Message
		}
		n.Data = firstValue(s, "data")
		if n.Data == nil {
			n.Data = firstValue(resp, "_data", "body")
		}

	case KindFramework:
		if code, ok := s.number("statusCode"); ok {
			n.StatusCode = code
		} else if code, ok := s.number("status"); ok {
			n.StatusCode = code
		}
		if msg, ok := s.str("statusMessage"); ok {
			n.StatusMessage = msg
		} else {
			n.StatusMessage = n.Message
		}
		n.Data = s.valueOrNil("data")
	}

	return n, nil
}

// Transform normalizes raw and returns fn's result instead of the record.
// fn runs exactly once, after normalization has completed.
func Transform[R any](raw any, fn func(*NormalizedError) R) (R, error) {
	n, err := Normalize(raw)
	if err != nil {
		var zero R
		return zero, err
	}
	return fn(n), nil
}

// DataAs returns n.Data as T. Values already of type T are returned as is;
// maps and structs are decoded into T using json field tags. Missing data
// yields the zero T.
func DataAs[T any](n *NormalizedError) (T, error) {
	var out T
	if n == nil || nullish(n.Data) {
		return out, nil
	}
	if v, ok := n.Data.(T); ok {
		return v, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return out, fmt.Errorf("normalize: build decoder: %w", err)
	}
	if err := dec.Decode(n.Data); err != nil {
		var zero T
		return zero, fmt.Errorf("normalize: decode %T data as %T: %w", n.Data, out, err)
	}
	return out, nil
}

// valueOrNil returns the non-nullish value under key, or nil.
func (s *source) valueOrNil(key string) any {
	v, _ := s.value(key)
	return v
}

// firstValue returns the first non-nullish value among keys.
func firstValue(s *source, keys ...string) any {
	for _, k := range keys {
		if v, ok := s.value(k); ok {
			return v
		}
	}
	return nil
}

// messageOf prefers an explicit message field; error values fall back to Error().
func messageOf(raw any, s *source) string {
	if msg, ok := s.str("message"); ok {
		return msg
	}
	if err, ok := raw.(error); ok {
		return err.Error()
	}
	return ""
}

// causeOf returns the cause field, or the wrapped error for error values.
func causeOf(raw any, s *source) any {
	if c, ok := s.value("cause"); ok {
		return c
	}
	if err, ok := raw.(error); ok {
		if inner := errors.Unwrap(err); inner != nil {
			return inner
		}
	}
	return nil
}
