// Package storage defines the Storage interface of the reference backend,
// a contract that any database implementation must satisfy.
//
// HOW THE CONTRACT IS SHAPED
// ──────────────────────────
// The theater records are a handful of tables that are all read and
// written the same way: list everything, filter one column with LIKE, find
// rows by an exact key, insert a row, update or delete rows by key. So the
// interface is table-driven: every method names the Entity it works on and
// passes columns by name. The implementation owns the whitelist of
// entities and columns; a name it does not know is rejected with
// ErrUnknownColumn before any SQL is built.
//
// Handlers depend only on this interface, so they can be tested with a
// fake and the database can be swapped without touching them.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/theater-records/internal/types"
)

// Entity names one of the record tables.
type Entity string

const (
	Students     Entity = "student"
	Actors       Entity = "actor"
	Crew         Entity = "crew"
	Shows        Entity = "shows"
	Characters   Entity = "characters"
	CrewInShow   Entity = "crew_in_show"
	Scenes       Entity = "scenes"
	SceneDetails Entity = "scene_details"
)

// Detail names a read-only report that joins several tables.
type Detail string

const (
	// StudentShows lists the shows a student acted in, with the characters
	// played in each. Argument: netID.
	StudentShows Detail = "student_shows"

	// ShowCrew lists the crew assigned to a show. Argument: showID.
	ShowCrew Detail = "show_crew"
)

// Sentinel errors. Implementations wrap them so handlers can use errors.Is.
var (
	ErrNotFound      = errors.New("record not found")
	ErrForeignKey    = errors.New("foreign key constraint violated")
	ErrDuplicate     = errors.New("record already exists")
	ErrUnknownColumn = errors.New("unknown column")
	ErrUnknownEntity = errors.New("unknown entity")
)

// Filter is a LIKE match of Value against one column. Alias selects the
// joined table the column belongs to; empty means the entity's own table.
type Filter struct {
	Column string
	Alias  string
	Value  string
}

// Key is an exact match on one or more columns.
type Key map[string]string

// Row holds column values to insert or update.
type Row map[string]any

// Storage is the database contract.
type Storage interface {
	// List returns every row of e in its display order. The result is
	// never nil.
	List(ctx context.Context, e Entity) ([]types.Record, error)

	// FilterBy returns the rows of e whose column contains f.Value.
	FilterBy(ctx context.Context, e Entity, f Filter) ([]types.Record, error)

	// Find returns the rows of e that match every column of key exactly.
	Find(ctx context.Context, e Entity, key Key) ([]types.Record, error)

	// Report runs a named detail query.
	Report(ctx context.Context, d Detail, arg string) ([]types.Record, error)

	// Insert adds one row. A duplicate key yields ErrDuplicate, a missing
	// referenced row ErrForeignKey.
	Insert(ctx context.Context, e Entity, row Row) error

	// Update changes the rows matching key. Zero affected rows is
	// ErrNotFound.
	Update(ctx context.Context, e Entity, key Key, row Row) error

	// Delete removes the rows matching key. Zero affected rows is
	// ErrNotFound; rows still referenced elsewhere yield ErrForeignKey.
	Delete(ctx context.Context, e Entity, key Key) error

	Close() error
}
