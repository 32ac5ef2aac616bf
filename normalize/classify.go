package normalize

import "reflect"

// Classify returns the first shape raw matches: transport, then framework,
// then generic. Values that are not error-like are KindInvalid.
func Classify(raw any) Kind {
	if !errorLike(raw) {
		return KindInvalid
	}
	s := sourceOf(raw)
	switch {
	case transportShape(s):
		return KindTransport
	case frameworkShape(s):
		return KindFramework
	default:
		return KindGeneric
	}
}

// Validate returns nil when raw matches a recognized shape. Otherwise it
// returns an *UnrecognizedShapeError carrying raw itself.
func Validate(raw any) error {
	if Classify(raw) == KindInvalid {
		return &UnrecognizedShapeError{Value: raw}
	}
	return nil
}

// IsTransport reports whether raw is an error that carries request and
// options together with a response or a status.
func IsTransport(raw any) bool {
	return errorLike(raw) && transportShape(sourceOf(raw))
}

// IsFramework reports whether raw is an error carrying statusCode or status
// that is not a transport error.
func IsFramework(raw any) bool {
	return Classify(raw) == KindFramework
}

// IsGeneric reports whether raw is error-like at all. Transport and framework
// errors are generic errors too.
func IsGeneric(raw any) bool {
	return errorLike(raw)
}

// IsFetchContext reports whether v carries non-nullish request and options
// fields, like the context handed to fetch interceptors.
func IsFetchContext(v any) bool {
	s := sourceOf(v)
	if s == nil {
		return false
	}
	_, hasReq := s.value("request")
	_, hasOpts := s.value("options")
	return hasReq && hasOpts
}

// IsFetchResponse reports whether v looks like a fetch response: status,
// statusText, headers and ok are present and status is numeric.
func IsFetchResponse(v any) bool {
	s := sourceOf(v)
	if s == nil {
		return false
	}
	if !s.has("status") || !s.has("statusText") || !s.has("headers") || !s.has("ok") {
		return false
	}
	_, ok := s.number("status")
	return ok
}

// errorLike reports whether raw implements error (and is not a nil pointer)
// or is a map whose "message" holds a string.
func errorLike(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case map[string]any:
		msg, ok := v["message"]
		if !ok {
			return false
		}
		_, ok = asString(msg)
		return ok
	case error:
		return !isNilValue(reflect.ValueOf(v))
	}
	return false
}

func transportShape(s *source) bool {
	return s.has("request") && s.has("options") && (s.has("response") || s.has("status"))
}

func frameworkShape(s *source) bool {
	return s.has("statusCode") || s.has("status")
}
