package ident

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Registry tracks every identifier issued during one run.
// It is owned by a single run and never shared between runs.
type Registry struct {
	ids   map[string]struct{}
	order []string
	rnd   *rand.Rand
}

// NewRegistry creates an empty registry with a time-seeded random source.
func NewRegistry() *Registry {
	seed := uint64(time.Now().UnixNano())
	return NewRegistryWithSeed(seed, seed>>1|1)
}

// NewRegistryWithSeed creates a registry whose random ids are reproducible.
func NewRegistryWithSeed(seed1, seed2 uint64) *Registry {
	return &Registry{
		ids: make(map[string]struct{}),
		rnd: rand.New(rand.NewPCG(seed1, seed2)),
	}
}

// Register records id. It fails with ErrDuplicateID when id was already issued;
// ctx names the caller in the error message.
func (r *Registry) Register(id, ctx string) (string, error) {
	if _, ok := r.ids[id]; ok {
		return "", fmt.Errorf("%w (%s): %s", ErrDuplicateID, ctx, id)
	}
	r.ids[id] = struct{}{}
	r.order = append(r.order, id)
	return id, nil
}

// RandomID generates an 8-hex-character token and registers it.
func (r *Registry) RandomID() (string, error) {
	id := fmt.Sprintf("%08x", r.rnd.Uint32())
	return r.Register(id, "random_id")
}

// Exists reports whether id was registered.
func (r *Registry) Exists(id string) bool {
	_, ok := r.ids[id]
	return ok
}

// Require fails with ErrUnknownID unless id was registered.
func (r *Registry) Require(id, ctx string) error {
	if !r.Exists(id) {
		return fmt.Errorf("%w (%s): %s", ErrUnknownID, ctx, id)
	}
	return nil
}

// Len returns the number of registered ids.
func (r *Registry) Len() int {
	return len(r.order)
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
