package distribution

import (
	"fmt"

	"github.com/samuelfneumann/pgraph"
)

// New constructs a distribution of the given kind over values of
// sampleType, parameterized by parents. It is the single validation
// point for a distribution's parameters: if New returns an error, no
// distribution was constructed.
func New(kind Kind, sampleType pgraph.AtomicType,
	parents []pgraph.Node) (Distribution, error) {
	switch kind {
	case KindNormal:
		n, err := NewNormal(sampleType, parents)
		if err != nil {
			return nil, err
		}
		return n, nil
	}

	log.Warningf("new: rejected distribution kind %v", kind)
	return nil, fmt.Errorf("new: %w: %v", ErrUnknownKind, kind)
}
