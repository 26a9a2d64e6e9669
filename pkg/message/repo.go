package message

import (
	"errors"

	"msgboard/factory"
)

// ErrNotFound is returned by GetByID when no message has the requested id.
var ErrNotFound = errors.New("message not found")

// Repository is the persistence contract for board messages. Every operation
// works on the whole collection at once; the backing store is the single
// source of truth and nothing is cached between calls.
type Repository interface {
	// GetAll returns every stored message. An unreadable or malformed store
	// yields an empty collection, never an error.
	GetAll() []factory.Message

	// GetAllSorted returns every stored message ordered by Posted, newest
	// first.
	GetAllSorted() []factory.Message

	// GetByID returns the message with the given id, or ErrNotFound.
	GetByID(id int) (factory.Message, error)

	// Create assigns the next free id to msg, persists it and returns the
	// stored record. The caller is responsible for stamping Posted.
	Create(msg factory.Message) (factory.Message, error)

	// Update replaces the stored message with the same id. Updating an
	// unknown id is a no-op; affected reports whether a record was replaced.
	Update(msg factory.Message) (affected bool, err error)

	// Delete removes the message with the given id. Deleting an unknown id
	// is a no-op; affected reports whether a record was removed.
	Delete(id int) (affected bool, err error)
}
