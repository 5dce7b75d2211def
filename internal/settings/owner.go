package settings

import (
	"github.com/settingsd/settingsd/internal/cache"
)

// OwnerRef identifies the entity a setting is scoped to. The zero value
// is the global scope. Scoping compares the pair by equality only; the
// kind tag carries no further meaning inside this package.
type OwnerRef struct {
	Kind string
	ID   string
}

// GlobalOwner is the owner of settings without an owner.
var GlobalOwner = OwnerRef{}

// IsGlobal reports whether the reference addresses the global scope.
func (o OwnerRef) IsGlobal() bool {
	return o.Kind == "" && o.ID == ""
}

// Identity returns the stable cache identity segment for this owner.
func (o OwnerRef) Identity() string {
	if o.IsGlobal() {
		return cache.GlobalOwnerIdentity
	}

	return o.Kind + ":" + o.ID
}

// Owner is implemented by domain entities that carry their own scoped
// settings.
type Owner interface {
	AsOwnerRef() OwnerRef
}
