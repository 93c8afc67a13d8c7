// Package memdriver is an in-memory implementation of the adk.Driver
// surface, used by tests, local development and the HTTP gateway when no
// vendor component is available. Data is kept per company path and
// optionally persisted to an append-only JSON command journal, one file per
// table under the company path.
package memdriver

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"
)

type company struct {
	path   string
	tables map[int]*table
}

type Driver struct {
	schema    *schema.Registry
	mu        sync.Mutex
	companies map[string]*company
	active    *company
}

func New(registry *schema.Registry) *Driver {
	if registry == nil {
		registry = schema.Default()
	}
	return &Driver{
		schema:    registry,
		companies: map[string]*company{},
	}
}

func (d *Driver) Open(commonPath, companyPath, username, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		return adk.NewError("open", adk.CodeOpenFailed, "a company is already open")
	}

	c, exists := d.companies[companyPath]
	if !exists {
		var err error
		c, err = d.load(companyPath)
		if err != nil {
			return adk.NewError("open", adk.CodeOpenFailed, "%s", err.Error())
		}
		d.companies[companyPath] = c
	}

	d.active = c
	return nil
}

// load builds the table set for one company path, replaying journals when
// the path is not empty. An empty path keeps the company memory-only.
func (d *Driver) load(companyPath string) (*company, error) {

	if companyPath != "" {
		err := os.MkdirAll(companyPath, 0755)
		if err != nil {
			return nil, fmt.Errorf("company path: %w", err)
		}
	}

	c := &company{
		path:   companyPath,
		tables: map[int]*table{},
	}

	for _, name := range d.schema.Tables() {
		def, _ := d.schema.Table(name)
		t := newTable(def)
		if companyPath != "" {
			var err error
			t.journal, err = openJournal(filepath.Join(companyPath, def.Name+".journal"), t)
			if err != nil {
				return nil, fmt.Errorf("table '%s': %w", def.Name, err)
			}
		}
		c.tables[def.Code] = t
	}

	return c, nil
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return adk.NewError("close", adk.CodeNoCompany, "no company is open")
	}
	d.active = nil
	return nil
}

// Shutdown closes every journal file. The driver is unusable afterwards.
func (d *Driver) Shutdown() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var lastErr error
	for _, c := range d.companies {
		for _, t := range c.tables {
			err := t.journal.close()
			if err != nil {
				lastErr = err
			}
		}
	}
	d.companies = map[string]*company{}
	d.active = nil
	return lastErr
}

func (d *Driver) CreateData(tableCode int) (adk.Data, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active == nil {
		return nil, adk.NewError("create_data", adk.CodeNoCompany, "no company is open")
	}

	t, exists := d.active.tables[tableCode]
	if !exists {
		def, defined := d.schema.TableByCode(tableCode)
		if defined && def.IsRow() {
			return nil, adk.NewError("create_data", adk.CodeUnknownTable, "records of '%s' are reached through their header table", def.Name)
		}
		return nil, adk.NewError("create_data", adk.CodeUnknownTable, "unknown table code %d", tableCode)
	}

	return &data{
		company: d.active,
		table:   t,
		values:  map[int]interface{}{},
	}, nil
}

func (d *Driver) DeleteStruct(raw adk.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "delete_struct")
	if err != nil {
		return err
	}
	h.released = true
	return nil
}

func (d *Driver) SetFilter(raw adk.Data, field int, expression string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "set_filter")
	if err != nil {
		return err
	}
	if h.isRow() {
		return adk.NewError("set_filter", adk.CodeInvalidFilter, "row buffers cannot be filtered")
	}
	_, exists := h.table.def.FieldByCode(field)
	if !exists {
		return adk.NewError("set_filter", adk.CodeUnknownField, "unknown field code %d of table '%s'", field, h.table.def.Name)
	}

	for i := range h.filters {
		if h.filters[i].field == field {
			h.filters[i].expression = expression
			return nil
		}
	}
	h.filters = append(h.filters, filter{field: field, expression: expression})
	return nil
}

func (d *Driver) First(raw adk.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "first")
	if err != nil {
		return err
	}
	if h.isRow() {
		return adk.NewError("first", adk.CodeNoPosition, "row buffers cannot be positioned")
	}

	rec := h.table.first(h.filters)
	if rec == nil {
		return adk.NewError("first", adk.CodeNotFound, "no record matches the filter")
	}
	h.current = rec
	h.values = cloneValues(rec.values)
	return nil
}

func (d *Driver) Next(raw adk.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "next")
	if err != nil {
		return err
	}
	if h.current == nil {
		return adk.NewError("next", adk.CodeNoPosition, "buffer is not positioned, call First")
	}

	rec := h.table.next(h.current, h.filters)
	if rec == nil {
		return adk.NewError("next", adk.CodeNotFound, "no more records match the filter")
	}
	h.current = rec
	h.values = cloneValues(rec.values)
	return nil
}

func (d *Driver) FieldType(raw adk.Data, field int) (adk.FieldType, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "field_type")
	if err != nil {
		return adk.TypeUnused, err
	}
	f, exists := h.table.def.FieldByCode(field)
	if !exists {
		return adk.TypeUnused, adk.NewError("field_type", adk.CodeUnknownField, "unknown field code %d of table '%s'", field, h.table.def.Name)
	}
	return f.Type, nil
}

func (d *Driver) GetString(raw adk.Data, field int) (string, error) {
	v, err := d.get(raw, field, adk.TypeString, "get_string")
	if err != nil || v == nil {
		return "", err
	}
	return v.(string), nil
}

func (d *Driver) GetInt(raw adk.Data, field int) (int64, error) {
	v, err := d.get(raw, field, adk.TypeInt, "get_int")
	if err != nil || v == nil {
		return 0, err
	}
	return v.(int64), nil
}

func (d *Driver) GetFloat(raw adk.Data, field int) (float64, error) {
	v, err := d.get(raw, field, adk.TypeFloat, "get_float")
	if err != nil || v == nil {
		return 0, err
	}
	return v.(float64), nil
}

func (d *Driver) GetBool(raw adk.Data, field int) (bool, error) {
	v, err := d.get(raw, field, adk.TypeBool, "get_bool")
	if err != nil || v == nil {
		return false, err
	}
	return v.(bool), nil
}

func (d *Driver) GetDate(raw adk.Data, field int) (time.Time, error) {
	v, err := d.get(raw, field, adk.TypeDate, "get_date")
	if err != nil || v == nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

func (d *Driver) SetString(raw adk.Data, field int, value string) error {
	return d.set(raw, field, adk.TypeString, "set_string", value)
}

func (d *Driver) SetInt(raw adk.Data, field int, value int64) error {
	return d.set(raw, field, adk.TypeInt, "set_int", value)
}

func (d *Driver) SetFloat(raw adk.Data, field int, value float64) error {
	return d.set(raw, field, adk.TypeFloat, "set_float", value)
}

func (d *Driver) SetBool(raw adk.Data, field int, value bool) error {
	return d.set(raw, field, adk.TypeBool, "set_bool", value)
}

func (d *Driver) SetDate(raw adk.Data, field int, value time.Time) error {
	return d.set(raw, field, adk.TypeDate, "set_date", value)
}

func (d *Driver) Update(raw adk.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "update")
	if err != nil {
		return err
	}

	if h.isRow() {
		_, err := h.rowRecord("update")
		if err != nil {
			return err
		}
		return d.persistHeader("update", h.header)
	}

	if h.current == nil {
		return adk.NewError("update", adk.CodeNoPosition, "buffer is not positioned, call First or Add")
	}

	oldKey := h.table.key(h.current)
	h.current.values = cloneValues(h.values)
	h.table.reindex(h.current, oldKey)
	return h.table.journal.append("update", h.table, h.current)
}

func (d *Driver) Add(raw adk.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "add")
	if err != nil {
		return err
	}
	if h.isRow() {
		return adk.NewError("add", adk.CodeNoRows, "row records are created with AddRows on their header")
	}

	rec := &record{
		id:     uuid.New().String(),
		values: cloneValues(h.values),
		rows:   h.bufRows,
	}
	h.table.insert(rec)
	h.current = rec
	h.bufRows = nil

	return h.table.journal.append("add", h.table, rec)
}

func (d *Driver) DeleteRecord(raw adk.Data) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.handle(raw, "delete_record")
	if err != nil {
		return err
	}

	if h.isRow() {
		rec, err := h.rowRecord("delete_record")
		if err != nil {
			return err
		}
		rows := h.header.rows()
		for i, row := range *rows {
			if row == rec {
				// sibling rows are renumbered from here on
				*rows = append((*rows)[:i], (*rows)[i+1:]...)
				break
			}
		}
		return d.persistHeader("update", h.header)
	}

	if h.current == nil {
		return adk.NewError("delete_record", adk.CodeNoPosition, "buffer is not positioned")
	}

	rec := h.current
	if _, exists := h.table.byID[rec.id]; !exists {
		return adk.NewError("delete_record", adk.CodeNotFound, "record is already deleted")
	}
	h.table.remove(rec, h.table.key(rec))
	// the removed record stays positioned as a tombstone: Next pivots on its
	// key+seq and resumes from the following match

	return h.table.journal.append("remove", h.table, rec)
}

func (d *Driver) NRows(raw adk.Data) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.headerHandle(raw, "n_rows")
	if err != nil {
		return 0, err
	}
	return len(*h.rows()), nil
}

func (d *Driver) DataRow(raw adk.Data, index int) (adk.Data, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.headerHandle(raw, "data_row")
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(*h.rows()) {
		return nil, adk.NewError("data_row", adk.CodeNotFound, "row %d out of range", index)
	}

	return &data{
		company:  h.company,
		table:    h.table,
		header:   h,
		rowIndex: index,
	}, nil
}

func (d *Driver) AddRows(raw adk.Data, quantity int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.headerHandle(raw, "add_rows")
	if err != nil {
		return err
	}
	if quantity < 1 {
		return adk.NewError("add_rows", adk.CodeNoRows, "quantity must be positive")
	}

	rows := h.rows()
	for i := 0; i < quantity; i++ {
		*rows = append(*rows, &record{values: map[int]interface{}{}})
	}

	if h.current != nil {
		return d.persistHeader("update", h)
	}
	return nil
}

func (d *Driver) get(raw adk.Data, field int, fieldType adk.FieldType, op string) (interface{}, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.typedField(raw, field, fieldType, op)
	if err != nil {
		return nil, err
	}
	return h.read(op, field)
}

func (d *Driver) set(raw adk.Data, field int, fieldType adk.FieldType, op string, value interface{}) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, err := d.typedField(raw, field, fieldType, op)
	if err != nil {
		return err
	}
	return h.write(op, field, value)
}

func (d *Driver) typedField(raw adk.Data, field int, fieldType adk.FieldType, op string) (*data, error) {
	h, err := d.handle(raw, op)
	if err != nil {
		return nil, err
	}

	def := h.table.def
	if h.isRow() {
		def = h.table.def.RowTable
	}
	f, exists := def.FieldByCode(field)
	if !exists {
		return nil, adk.NewError(op, adk.CodeUnknownField, "unknown field code %d of table '%s'", field, def.Name)
	}
	if f.Type != fieldType {
		return nil, adk.NewError(op, adk.CodeTypeMismatch, "field '%s' of table '%s' is %s, not %s", f.Name, def.Name, f.Type, fieldType)
	}
	return h, nil
}

func (d *Driver) handle(raw adk.Data, op string) (*data, error) {
	h, ok := raw.(*data)
	if !ok || h == nil {
		return nil, adk.NewError(op, adk.CodeNoPosition, "invalid data handle")
	}
	if h.released {
		return nil, adk.NewError(op, adk.CodeNoPosition, "data handle was released")
	}
	if d.active == nil || h.company != d.active {
		return nil, adk.NewError(op, adk.CodeNoCompany, "the handle's company is not open")
	}
	return h, nil
}

func (d *Driver) headerHandle(raw adk.Data, op string) (*data, error) {
	h, err := d.handle(raw, op)
	if err != nil {
		return nil, err
	}
	if h.isRow() {
		return nil, adk.NewError(op, adk.CodeNoRows, "row buffers have no rows")
	}
	if h.table.def.RowTable == nil {
		return nil, adk.NewError(op, adk.CodeNoRows, "table '%s' has no row records", h.table.def.Name)
	}
	return h, nil
}

func (d *Driver) persistHeader(name string, h *data) error {
	if h.current == nil {
		return nil // header not added yet, rows travel with the add
	}
	return h.table.journal.append(name, h.table, h.current)
}
