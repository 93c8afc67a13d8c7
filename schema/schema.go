package schema

import (
	"sort"
	"strings"

	"github.com/fulldump/vismadk/adk"
)

// Field is one column of a vendor table: a short name, the vendor field
// code and the declared type. The original attribute style
// (adk_supplier_name) maps to Table "supplier" + Field "name".
type Field struct {
	Name string        `json:"name"`
	Code int           `json:"code"`
	Type adk.FieldType `json:"type"`
}

// Table is one vendor record type. The first field is the primary key.
// RowTable is set on header tables that own an ordered set of row records
// (invoice head -> invoice rows).
type Table struct {
	Name     string  `json:"name"`
	Code     int     `json:"code"`
	Fields   []Field `json:"fields"`
	RowTable *Table  `json:"-"`

	row    bool
	byName map[string]*Field
}

// IsRow reports whether this table holds row records owned by a header table.
func (t *Table) IsRow() bool {
	return t.row
}

func NewTable(name string, code int, fields ...Field) *Table {
	t := &Table{
		Name:   name,
		Code:   code,
		Fields: fields,
		byName: map[string]*Field{},
	}
	for i := range t.Fields {
		t.byName[t.Fields[i].Name] = &t.Fields[i]
	}
	return t
}

func (t *Table) Field(name string) (*Field, bool) {
	f, exists := t.byName[strings.ToLower(name)]
	return f, exists
}

func (t *Table) FieldByCode(code int) (*Field, bool) {
	for i := range t.Fields {
		if t.Fields[i].Code == code {
			return &t.Fields[i], true
		}
	}
	return nil, false
}

func (t *Table) Primary() *Field {
	return &t.Fields[0]
}

// Registry resolves table and field names to vendor codes.
type Registry struct {
	tables map[string]*Table
	byCode map[int]*Table
}

func NewRegistry(tables ...*Table) *Registry {
	r := &Registry{
		tables: map[string]*Table{},
		byCode: map[int]*Table{},
	}
	for _, t := range tables {
		r.tables[t.Name] = t
		r.byCode[t.Code] = t
		if t.RowTable != nil {
			t.RowTable.row = true
			r.tables[t.RowTable.Name] = t.RowTable
			r.byCode[t.RowTable.Code] = t.RowTable
		}
	}
	return r
}

func (r *Registry) Table(name string) (*Table, bool) {
	t, exists := r.tables[strings.ToLower(name)]
	return t, exists
}

func (r *Registry) TableByCode(code int) (*Table, bool) {
	t, exists := r.byCode[code]
	return t, exists
}

// Tables returns the registered table names (row tables excluded), sorted.
func (r *Registry) Tables() []string {
	names := []string{}
	for name, t := range r.tables {
		if t.row {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a vendor-style full field name (adk_supplier_name) to its
// table and field. Table names may contain underscores, so the longest
// matching table name wins.
func (r *Registry) Resolve(fullName string) (*Table, *Field, bool) {
	name := strings.ToLower(fullName)
	name = strings.TrimPrefix(name, "adk_")

	var table *Table
	var field *Field
	for _, t := range r.tables {
		if !strings.HasPrefix(name, t.Name+"_") {
			continue
		}
		if table != nil && len(table.Name) > len(t.Name) {
			continue
		}
		f, exists := t.Field(strings.TrimPrefix(name, t.Name+"_"))
		if !exists {
			continue
		}
		table, field = t, f
	}

	if table == nil {
		return nil, nil, false
	}
	return table, field, true
}
