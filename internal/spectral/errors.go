package spectral

import (
	"fmt"
	"strings"
)

// MissingBandError is returned when a sample lacks a band the formula needs.
type MissingBandError struct {
	Index Name
	Bands []Band
}

func (e *MissingBandError) Error() string {
	names := make([]string, len(e.Bands))
	for i, b := range e.Bands {
		names[i] = string(b)
	}
	return fmt.Sprintf("%s: missing band(s) %s", e.Index, strings.Join(names, ", "))
}

// UnknownIndexError is returned for a name outside the registry.
type UnknownIndexError struct {
	Name Name
}

func (e *UnknownIndexError) Error() string {
	return fmt.Sprintf("unknown spectral index %q", string(e.Name))
}

// FormError is returned when a composite or bitemporal index is requested
// through the single-sample entry point.
type FormError struct {
	Index Name
	Kind  Kind
}

func (e *FormError) Error() string {
	switch e.Kind {
	case KindBitemporal:
		return fmt.Sprintf("%s needs a pre and a post sample, use DNBR", e.Index)
	case KindComposite:
		return fmt.Sprintf("%s is composed from other indices, use NDDI or NDDIFromSample", e.Index)
	default:
		return fmt.Sprintf("%s cannot be computed from a single sample", e.Index)
	}
}
