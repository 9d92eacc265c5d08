package domain

import "time"

// Identifiable is anything carrying an entity id.
type Identifiable interface {
	ID() string
}

// Entity gives a domain object identity and lifecycle timestamps. Identity
// equality is based solely on id; updatedAt is refreshed by every mutator.
type Entity struct {
	id        string
	createdAt time.Time
	updatedAt time.Time
}

func newEntity(id string) (Entity, error) {
	if id == "" {
		return Entity{}, newValidationError("entity id must be a non-empty string")
	}
	now := time.Now()
	return Entity{id: id, createdAt: now, updatedAt: now}, nil
}

func (e *Entity) ID() string {
	return e.id
}

func (e *Entity) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entity) UpdatedAt() time.Time {
	return e.updatedAt
}

// Equals reports identity equality by id.
func (e *Entity) Equals(other Identifiable) bool {
	if other == nil {
		return false
	}
	return e.id == other.ID()
}

func (e *Entity) touch() {
	e.updatedAt = time.Now()
}

// restoreTimestamps is used when rehydrating an entity from a repository.
func (e *Entity) restoreTimestamps(createdAt, updatedAt time.Time) {
	e.createdAt = createdAt
	e.updatedAt = updatedAt
}
