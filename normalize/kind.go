package normalize

// Kind identifies which error shape a raw value matched.
type Kind int

const (
	// KindInvalid marks a value that matches no recognized shape.
	KindInvalid Kind = iota
	// KindTransport marks a failed network call (request + options + response/status).
	KindTransport
	// KindFramework marks an error carrying statusCode or status.
	KindFramework
	// KindGeneric marks any other error value.
	KindGeneric
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindFramework:
		return "framework"
	case KindGeneric:
		return "generic"
	default:
		return "invalid"
	}
}

// Default names used when the source value has no (or an empty) name.
const (
	NameTransport = "FetchError"
	NameFramework = "FrameworkError"
	NameGeneric   = "Error"
)

// defaultName returns the fallback name label for a kind.
func (k Kind) defaultName() string {
	switch k {
	case KindTransport:
		return NameTransport
	case KindFramework:
		return NameFramework
	default:
		return NameGeneric
	}
}
