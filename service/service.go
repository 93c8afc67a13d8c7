// Package service translates records to and from JSON documents for the
// HTTP gateway, one company session per request.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SierraSoftworks/connor"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"
	"github.com/fulldump/vismadk/visma"
)

type Service struct {
	registry *visma.Registry
}

func NewService(registry *visma.Registry) *Service {
	return &Service{
		registry: registry,
	}
}

func (s *Service) ListCompanies() []string {
	return s.registry.Companies()
}

func (s *Service) ListTables() []string {
	return s.registry.Schema().Tables()
}

func (s *Service) Find(ctx context.Context, company, table string, request *FindRequest, f func(document JSON) bool) error {

	session, err := s.registry.Open(ctx, company)
	if err != nil {
		return err
	}
	defer session.Close()

	entity, err := session.Table(table)
	if err != nil {
		return err
	}
	def, _ := s.registry.Schema().Table(table)

	cursor := entity.Find(s.filterOf(def, request.Filter))
	defer cursor.Close()

	skip := request.Skip
	limit := request.Limit // 0 means no limit
	for cursor.Next() {

		document, err := documentOf(def, cursor.Record())
		if err != nil {
			return err
		}

		if len(request.Match) > 0 {
			match, err := connor.Match(request.Match, document)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}
			if !match {
				continue
			}
		}

		if skip > 0 {
			skip--
			continue
		}

		if !f(document) {
			break
		}

		if limit > 0 {
			limit--
			if limit == 0 {
				break
			}
		}
	}

	return cursor.Err()
}

func (s *Service) Get(ctx context.Context, company, table string, filter map[string]string) (JSON, error) {

	session, err := s.registry.Open(ctx, company)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	entity, err := session.Table(table)
	if err != nil {
		return nil, err
	}
	def, _ := s.registry.Schema().Table(table)

	record, err := entity.Get(s.filterOf(def, filter))
	if err != nil {
		return nil, err
	}
	defer record.Free()

	return documentOf(def, record)
}

func (s *Service) Insert(ctx context.Context, company, table string, values JSON) (JSON, error) {

	session, err := s.registry.Open(ctx, company)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	entity, err := session.Table(table)
	if err != nil {
		return nil, err
	}
	def, _ := s.registry.Schema().Table(table)

	record, err := entity.New()
	if err != nil {
		return nil, err
	}
	defer record.Free()

	err = s.stageValues(def, record, values)
	if err != nil {
		return nil, err
	}

	err = record.Create()
	if err != nil {
		return nil, err
	}

	return documentOf(def, record)
}

func (s *Service) Update(ctx context.Context, company, table string, filter map[string]string, values JSON) (int, error) {

	session, err := s.registry.Open(ctx, company)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	entity, err := session.Table(table)
	if err != nil {
		return 0, err
	}
	def, _ := s.registry.Schema().Table(table)

	cursor := entity.Find(s.filterOf(def, filter))
	defer cursor.Close()

	n := 0
	for cursor.Next() {
		record := cursor.Record()
		err := s.stageValues(def, record, values)
		if err != nil {
			return n, err
		}
		err = record.Save()
		if err != nil {
			return n, err
		}
		n++
	}

	return n, cursor.Err()
}

func (s *Service) Remove(ctx context.Context, company, table string, filter map[string]string) (int, error) {

	session, err := s.registry.Open(ctx, company)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	entity, err := session.Table(table)
	if err != nil {
		return 0, err
	}
	def, _ := s.registry.Schema().Table(table)

	cursor := entity.Find(s.filterOf(def, filter))
	defer cursor.Close()

	n := 0
	for cursor.Next() {
		err := cursor.Record().Delete()
		if err != nil {
			return n, err
		}
		n++
	}

	return n, cursor.Err()
}

// fieldName accepts both the short field name and the vendor-style full one
// (adk_supplier_name), as long as the full one resolves to the same table.
// Unknown names pass through and fail later as ErrorFieldNotFound.
func (s *Service) fieldName(def *schema.Table, name string) string {
	if _, exists := def.Field(name); exists {
		return name
	}
	table, field, exists := s.registry.Schema().Resolve(name)
	if exists && table == def {
		return field.Name
	}
	return name
}

func (s *Service) filterOf(def *schema.Table, filter map[string]string) visma.Filter {
	out := visma.Filter{}
	for name, expression := range filter {
		out[s.fieldName(def, name)] = expression
	}
	return out
}

// documentOf reads every field of the record into a JSON document. Dates
// become RFC3339 strings.
func documentOf(def *schema.Table, record *visma.Record) (JSON, error) {
	document := JSON{}
	for _, f := range def.Fields {
		value, err := record.Get(f.Name)
		if err != nil {
			return nil, err
		}
		if date, ok := value.(time.Time); ok {
			value = date.Format(time.RFC3339)
		}
		document[f.Name] = value
	}
	return document, nil
}

// stageValues assigns JSON document values to the record, mapping the JSON
// types to the field types (numbers arrive as float64, dates as strings).
func (s *Service) stageValues(def *schema.Table, record *visma.Record, values JSON) error {
	for name, value := range values {

		f, exists := def.Field(s.fieldName(def, name))
		if !exists {
			return fmt.Errorf("%w: '%s' of table '%s'", visma.ErrorFieldNotFound, name, def.Name)
		}

		switch f.Type {
		case adk.TypeInt:
			if n, ok := value.(float64); ok {
				value = int64(n)
			}
		case adk.TypeDate:
			s, ok := value.(string)
			if !ok {
				return fmt.Errorf("%w: field '%s' expects a date string", visma.ErrorFieldType, name)
			}
			date, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("%w: field '%s': %s", visma.ErrorFieldType, name, err.Error())
			}
			value = date
		}

		err := record.Set(f.Name, value)
		if err != nil {
			return err
		}
	}
	return nil
}
