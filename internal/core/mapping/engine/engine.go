// Package engine maps streams of raw rows into result tuples.
package engine

import (
	"iter"
	"log/slog"

	"github.com/google/uuid"

	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/mapping/identity"
	"github.com/satishbabariya/rowmap/internal/core/mapping/materializer"
	"github.com/satishbabariya/rowmap/internal/core/mapping/registry"
	"github.com/satishbabariya/rowmap/internal/core/mapping/split"
	"github.com/satishbabariya/rowmap/internal/debug"
)

// MapRow maps one row under def. Either every spec of def succeeds and the
// full tuple is returned, or the row fails as a whole and every identity
// inserted while mapping it is removed from scope again.
func MapRow(row domain.RawRow, def *domain.MappingDefinition, scope *identity.Scope) (domain.ResultTuple, error) {
	groups, err := split.Split(row, def)
	if err != nil {
		return domain.ResultTuple{}, err
	}

	scope.Begin()
	elements := make([]domain.Element, 0, len(groups))
	for _, g := range groups {
		el, err := materialize(g, scope)
		if err != nil {
			if n := scope.Rollback(); n > 0 {
				debug.Debug("rolled back identity scope", "mapping", def.Name, "entities", n)
			}
			return domain.ResultTuple{}, err
		}
		elements = append(elements, el)
	}
	scope.Commit()
	return domain.NewResultTuple(elements...), nil
}

func materialize(g split.Group, scope *identity.Scope) (domain.Element, error) {
	switch g.Spec.(type) {
	case domain.EntityResult:
		obj, err := materializer.MaterializeEntity(g, scope)
		return domain.Element{Value: obj, Kind: domain.EntityKind, Status: domain.Tracked}, err
	case domain.ConstructorResult:
		obj, status, err := materializer.Construct(g, scope)
		return domain.Element{Value: obj, Kind: domain.ConstructorKind, Status: status}, err
	case domain.ColumnResult:
		v, err := materializer.Column(g)
		return domain.Element{Value: v, Kind: domain.ScalarKind}, err
	default:
		return domain.Element{}, domain.NewInvalidMappingError(g.Mapping, g.Index, "unsupported result spec %T", g.Spec)
	}
}

// MapRows returns the lazy sequence of tuples produced by mapping every row
// of rows under def, in row order. A row that fails yields its error and no
// tuple; iteration continues with the next row unless the consumer stops.
// An error from the source itself ends the sequence. The sequence can be
// ranged over once: later iterations yield ErrSourceConsumed.
func MapRows(rows RowSource, def *domain.MappingDefinition, scope *identity.Scope) iter.Seq2[domain.ResultTuple, error] {
	return mapRows(debug.Component("engine"), rows, def, scope)
}

func mapRows(log *slog.Logger, rows RowSource, def *domain.MappingDefinition, scope *identity.Scope) iter.Seq2[domain.ResultTuple, error] {
	consumed := false
	return func(yield func(domain.ResultTuple, error) bool) {
		if consumed {
			yield(domain.ResultTuple{}, ErrSourceConsumed)
			return
		}
		consumed = true

		n := 0
		for rows.Next() {
			n++
			tuple, err := MapRow(rows.Row(), def, scope)
			if err != nil {
				log.Debug("row failed", "mapping", def.Name, "row", n, "error", err)
			}
			if !yield(tuple, err) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			log.Debug("row source failed", "mapping", def.Name, "rows", n, "error", err)
			yield(domain.ResultTuple{}, err)
			return
		}
		log.Debug("mapped rows", "mapping", def.Name, "rows", n, "identities", scope.Len())
	}
}

// Collect gathers a sequence into a slice, stopping at the first error.
func Collect(seq iter.Seq2[domain.ResultTuple, error]) ([]domain.ResultTuple, error) {
	var out []domain.ResultTuple
	for tuple, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, tuple)
	}
	return out, nil
}

// Engine maps rows under the definitions of a registry.
type Engine struct {
	registry *registry.Registry
}

// New creates an engine over reg.
func New(reg *registry.Registry) *Engine {
	return &Engine{registry: reg}
}

// Registry returns the registry the engine looks definitions up in.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// NewSession starts a unit of work with a fresh identity scope.
func (e *Engine) NewSession() *Session {
	id := uuid.New()
	s := &Session{
		id:     id,
		engine: e,
		scope:  identity.NewScope(),
		log:    debug.Component("engine").With("session", id.String()),
	}
	s.log.Debug("session started")
	return s
}

// Session is one unit of work. Every row mapped through a session shares
// its identity scope. A session must not be used from several goroutines.
type Session struct {
	id     uuid.UUID
	engine *Engine
	scope  *identity.Scope
	log    *slog.Logger
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Scope returns the session's identity scope.
func (s *Session) Scope() *identity.Scope {
	return s.scope
}

// Map looks up the named mapping and maps rows under it.
func (s *Session) Map(name string, rows RowSource) iter.Seq2[domain.ResultTuple, error] {
	def, err := s.engine.registry.Lookup(name)
	if err != nil {
		return func(yield func(domain.ResultTuple, error) bool) {
			yield(domain.ResultTuple{}, err)
		}
	}
	return s.MapDefinition(def, rows)
}

// MapDefinition maps rows under def.
func (s *Session) MapDefinition(def *domain.MappingDefinition, rows RowSource) iter.Seq2[domain.ResultTuple, error] {
	return mapRows(s.log, rows, def, s.scope)
}

// MapRow maps a single row under the named mapping.
func (s *Session) MapRow(name string, row domain.RawRow) (domain.ResultTuple, error) {
	def, err := s.engine.registry.Lookup(name)
	if err != nil {
		return domain.ResultTuple{}, err
	}
	return MapRow(row, def, s.scope)
}

// Close ends the session and discards its identity scope.
func (s *Session) Close() {
	s.log.Debug("session closed", "identities", s.scope.Len())
	s.scope.Clear()
}
