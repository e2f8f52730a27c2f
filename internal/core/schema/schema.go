// Package schema loads mapping schema files into a model catalog and a
// mapping registry.
package schema

import (
	"bytes"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/satishbabariya/rowmap/internal/core/coerce"
	"github.com/satishbabariya/rowmap/internal/core/mapping/domain"
	"github.com/satishbabariya/rowmap/internal/core/mapping/registry"
	"github.com/satishbabariya/rowmap/internal/core/model"
	"github.com/satishbabariya/rowmap/internal/core/schema/ast"
	"github.com/satishbabariya/rowmap/internal/core/schema/parser"
	"github.com/satishbabariya/rowmap/internal/debug"
	"github.com/satishbabariya/rowmap/internal/version"
)

// Schema is a loaded schema file.
type Schema struct {
	// Path is the file the schema was read from.
	Path string
	// Source is the raw file content.
	Source string
	// File is the parse tree.
	File *ast.File
	// Catalog holds the declared models.
	Catalog *model.Catalog
	// Registry holds the declared mappings.
	Registry *registry.Registry
	// Mappings lists mapping names in declaration order.
	Mappings []string
}

// Option configures loading.
type Option func(*options)

type options struct {
	toolVersion string
	catalog     *model.Catalog
}

// WithToolVersion overrides the version checked against requires
// declarations.
func WithToolVersion(v string) Option {
	return func(o *options) { o.toolVersion = v }
}

// WithCatalog resolves model names against types registered in code in
// addition to the models the file declares.
func WithCatalog(c *model.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// Load reads and builds the schema at path on fs.
func Load(fs afero.Fs, path string, opts ...Option) (*Schema, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return Read(path, bytes.NewReader(data), opts...)
}

// Read parses and builds a schema from r.
func Read(filename string, r io.Reader, opts ...Option) (*Schema, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	file, err := parser.Parse(filename, bytes.NewReader(data))
	if err != nil {
		return nil, fromParseError(err).Err()
	}
	s, err := Build(file, opts...)
	if err != nil {
		return nil, err
	}
	s.Path = filename
	s.Source = string(data)
	return s, nil
}

// Build turns a parse tree into a catalog and a registry. Every problem is
// collected and reported together.
func Build(file *ast.File, opts ...Option) (*Schema, error) {
	o := options{toolVersion: version.Version}
	for _, opt := range opts {
		opt(&o)
	}

	b := &builder{
		file:     file,
		external: o.catalog,
		catalog:  model.NewCatalog(),
		registry: registry.New(),
	}
	b.checkRequires(o.toolVersion)
	b.buildModels()
	b.buildMappings()
	if err := b.diag.Err(); err != nil {
		return nil, err
	}

	debug.Debug("schema built", "models", len(b.catalog.Names()), "mappings", b.registry.Len())
	return &Schema{
		File:     file,
		Catalog:  b.catalog,
		Registry: b.registry,
		Mappings: b.mappings,
	}, nil
}

type builder struct {
	file     *ast.File
	external *model.Catalog
	catalog  *model.Catalog
	registry *registry.Registry
	mappings []string
	diag     Diagnostics
}

func (b *builder) checkRequires(toolVersion string) {
	for _, req := range b.file.Requires() {
		ok, err := version.Satisfies(toolVersion, req.Constraint)
		if err != nil {
			b.diag.Push(req.Pos, "%v", err)
			continue
		}
		if !ok {
			b.diag.Push(req.Pos, "schema requires version %s, running %s", req.Constraint, toolVersion)
		}
	}
}

// buildModels declares models parents first, whatever their order in the file.
func (b *builder) buildModels() {
	decls := make(map[string]*ast.Model)
	for _, m := range b.file.Models() {
		if _, dup := decls[m.Name]; dup {
			b.diag.Push(m.Pos, "model %s is declared twice", m.Name)
			continue
		}
		decls[m.Name] = m
	}

	state := make(map[string]int) // 1 = in progress, 2 = done
	var declare func(m *ast.Model)
	declare = func(m *ast.Model) {
		switch state[m.Name] {
		case 1:
			b.diag.Push(m.Pos, "model %s is part of an inheritance cycle", m.Name)
			return
		case 2:
			return
		}
		state[m.Name] = 1
		defer func() { state[m.Name] = 2 }()

		var parent *model.Type
		if m.Extends != "" {
			if pd, ok := decls[m.Extends]; ok {
				declare(pd)
			}
			p, ok := b.lookupType(m.Extends)
			if !ok {
				b.diag.Push(m.Pos, "model %s extends unknown model %s", m.Name, m.Extends)
				return
			}
			parent = p
		}
		b.declareModel(m, parent)
	}
	for _, m := range b.file.Models() {
		if decls[m.Name] == m {
			declare(m)
		}
	}
}

func (b *builder) declareModel(m *ast.Model, parent *model.Type) {
	fields := make([]model.Field, 0, len(m.Fields))
	ok := true
	for _, f := range m.Fields {
		typ, err := parseTypeRef(f.Type)
		if err != nil {
			b.diag.Push(f.Pos, "field %s.%s: %v", m.Name, f.Name, err)
			ok = false
			continue
		}
		field := model.Field{Name: f.Name, Type: typ, IsID: f.Attribute("id") != nil}
		if attr := f.Attribute("map"); attr != nil {
			col, err := stringArg(attr.Args)
			if err != nil {
				b.diag.Push(attr.Pos, "field %s.%s: @map %v", m.Name, f.Name, err)
				ok = false
				continue
			}
			field.Column = col
		}
		for _, attr := range f.Attributes {
			if attr.Name != "id" && attr.Name != "map" {
				b.diag.Push(attr.Pos, "field %s.%s: unknown attribute @%s", m.Name, f.Name, attr.Name)
				ok = false
			}
		}
		fields = append(fields, field)
	}

	var typeOpts []model.Option
	if parent != nil {
		typeOpts = append(typeOpts, model.Extends(parent))
	}
	for _, attr := range m.BlockAttributes {
		switch attr.Name {
		case "discriminator":
			value, err := stringArg(attr.Args)
			if err != nil {
				b.diag.Push(attr.Pos, "model %s: @@discriminator %v", m.Name, err)
				ok = false
				continue
			}
			typeOpts = append(typeOpts, model.WithDiscriminator(value))
		case "constructor":
		default:
			b.diag.Push(attr.Pos, "model %s: unknown attribute @@%s", m.Name, attr.Name)
			ok = false
		}
	}
	if !ok {
		return
	}

	t, err := model.Dynamic(m.Name, fields, typeOpts...)
	if err != nil {
		b.diag.Push(m.Pos, "%v", err)
		return
	}
	for _, attr := range m.BlockAttribute("constructor") {
		if len(attr.Args) != 1 || attr.Args[0].Str != nil || attr.Args[0].Ident != nil {
			b.diag.Push(attr.Pos, "model %s: @@constructor expects a field list", m.Name)
			continue
		}
		ctor, err := model.FieldConstructor(t, attr.Args[0].List...)
		if err != nil {
			b.diag.Push(attr.Pos, "model %s: %v", m.Name, err)
			continue
		}
		if err := t.AddConstructor(ctor); err != nil {
			b.diag.Push(attr.Pos, "%v", err)
		}
	}
	if err := b.catalog.Add(t); err != nil {
		b.diag.Push(m.Pos, "%v", err)
	}
}

func (b *builder) buildMappings() {
	for _, m := range b.file.Mappings() {
		def := &domain.MappingDefinition{Name: m.Name}
		ok := true
		for _, r := range m.Results {
			spec, err := b.resultSpec(r)
			if err != nil {
				b.diag.Push(r.Pos, "mapping %s: %v", m.Name, err)
				ok = false
				continue
			}
			def.Results = append(def.Results, spec)
		}
		if !ok {
			continue
		}
		if err := b.registry.Register(def); err != nil {
			b.diag.PushError(m.Pos, err)
			continue
		}
		b.mappings = append(b.mappings, m.Name)
	}
}

func (b *builder) resultSpec(r *ast.Result) (domain.ResultSpec, error) {
	switch {
	case r.Entity != nil:
		t, ok := b.lookupType(r.Entity.Type)
		if !ok {
			return nil, fmt.Errorf("unknown model %s", r.Entity.Type)
		}
		spec := domain.EntityResult{Type: t}
		for _, fc := range r.Entity.Fields {
			spec.Fields = append(spec.Fields, domain.FieldColumn{Field: fc.Field, Column: fc.Column})
		}
		if r.Entity.Discriminator != nil {
			spec.Discriminator = *r.Entity.Discriminator
		}
		return spec, nil
	case r.Column != nil:
		spec := domain.ColumnResult{Column: r.Column.Name}
		if r.Column.Type != nil {
			typ, err := parseTypeRef(r.Column.Type)
			if err != nil {
				return nil, fmt.Errorf("column %q: %w", r.Column.Name, err)
			}
			spec.Type = typ
		}
		return spec, nil
	case r.Construct != nil:
		t, ok := b.lookupType(r.Construct.Type)
		if !ok {
			return nil, fmt.Errorf("unknown model %s", r.Construct.Type)
		}
		spec := domain.ConstructorResult{Type: t}
		for _, arg := range r.Construct.Args {
			typ, err := parseTypeRef(arg.Type)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", arg.Column, err)
			}
			spec.Arguments = append(spec.Arguments, domain.Argument{Column: arg.Column, Type: typ})
		}
		return spec, nil
	}
	return nil, fmt.Errorf("empty result")
}

func (b *builder) lookupType(name string) (*model.Type, bool) {
	if t, err := b.catalog.Get(name); err == nil {
		return t, true
	}
	if b.external != nil {
		if t, err := b.external.Get(name); err == nil {
			return t, true
		}
	}
	return nil, false
}

func parseTypeRef(ref *ast.TypeRef) (coerce.Type, error) {
	kind, ok := coerce.ParseKind(ref.Name)
	if !ok {
		return coerce.Type{}, fmt.Errorf("unknown scalar type %s", ref.Name)
	}
	return coerce.Type{Kind: kind, Nullable: ref.Optional}, nil
}

func stringArg(args []*ast.Value) (string, error) {
	if len(args) != 1 || args[0].Str == nil {
		return "", fmt.Errorf("expects a single string argument")
	}
	return *args[0].Str, nil
}
