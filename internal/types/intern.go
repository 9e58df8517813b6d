package types

import (
	"sync"

	set "github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
)

// uniquer maps the canonical string of a type to its single instance.
var uniquer sync.Map // map[string]Type

func intern[T Type](t T) T {
	actual, _ := uniquer.LoadOrStore(t.String(), t)
	return actual.(T)
}

func validateFields(fields []BundleField) error {
	seen := set.New[string](len(fields))
	for i, f := range fields {
		if f.Type == nil {
			return errors.Errorf("bundle field %d (%q) has nil type", i, f.Name)
		}
		if f.Name == "" {
			return errors.Errorf("bundle field %d has an empty name", i)
		}
		if !seen.Insert(f.Name) {
			return errors.Errorf("duplicate bundle field %q", f.Name)
		}
	}
	return nil
}
