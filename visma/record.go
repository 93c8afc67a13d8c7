package visma

import (
	"fmt"
	"time"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"

	"github.com/fulldump/vismadk/utils"
)

// Record is one row of a table. Reads go through the native buffer on every
// access (values are never cached), except fields assigned locally, which
// stay staged until Save or Create pushes them.
type Record struct {
	session   *Session
	table     *schema.Table
	data      adk.Data
	persisted bool
	staged    map[string]interface{}
}

func (r *Record) Table() string {
	return r.table.Name
}

// Persisted reports whether the record is backed by a stored row. A record
// from New is not persisted until Create succeeds.
func (r *Record) Persisted() bool {
	return r.persisted
}

func (r *Record) field(name string) (*schema.Field, error) {
	f, exists := r.table.Field(name)
	if !exists {
		return nil, fmt.Errorf("%w: '%s' of table '%s'", ErrorFieldNotFound, name, r.table.Name)
	}
	return f, nil
}

// Get returns the field value: the staged one if the field was assigned
// locally, the stored one otherwise.
func (r *Record) Get(name string) (interface{}, error) {

	f, err := r.field(name)
	if err != nil {
		return nil, err
	}

	if staged, exists := r.staged[f.Name]; exists {
		return staged, nil
	}

	var value interface{}
	err = r.session.do(func(driver adk.Driver) error {
		var err error
		switch f.Type {
		case adk.TypeString:
			value, err = driver.GetString(r.data, f.Code)
		case adk.TypeInt:
			value, err = driver.GetInt(r.data, f.Code)
		case adk.TypeFloat:
			value, err = driver.GetFloat(r.data, f.Code)
		case adk.TypeBool:
			value, err = driver.GetBool(r.data, f.Code)
		case adk.TypeDate:
			value, err = driver.GetDate(r.data, f.Code)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (r *Record) GetString(name string) (string, error) {
	v, err := r.Get(name)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: field '%s' is not a string", ErrorFieldType, name)
	}
	return s, nil
}

func (r *Record) GetInt(name string) (int64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("%w: field '%s' is not an int", ErrorFieldType, name)
	}
	return n, nil
}

func (r *Record) GetFloat(name string) (float64, error) {
	v, err := r.Get(name)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: field '%s' is not a float", ErrorFieldType, name)
	}
	return n, nil
}

func (r *Record) GetBool(name string) (bool, error) {
	v, err := r.Get(name)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: field '%s' is not a bool", ErrorFieldType, name)
	}
	return b, nil
}

func (r *Record) GetDate(name string) (time.Time, error) {
	v, err := r.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("%w: field '%s' is not a date", ErrorFieldType, name)
	}
	return t, nil
}

// Set stages a value locally. Nothing reaches the native side until Save or
// Create.
func (r *Record) Set(name string, value interface{}) error {

	f, err := r.field(name)
	if err != nil {
		return err
	}

	converted, err := convertValue(f, value)
	if err != nil {
		return err
	}

	r.staged[f.Name] = converted
	return nil
}

func convertValue(f *schema.Field, value interface{}) (interface{}, error) {
	switch f.Type {
	case adk.TypeString:
		if v, ok := value.(string); ok {
			return v, nil
		}
	case adk.TypeInt:
		switch v := value.(type) {
		case int:
			return int64(v), nil
		case int32:
			return int64(v), nil
		case int64:
			return v, nil
		}
	case adk.TypeFloat:
		switch v := value.(type) {
		case float64:
			return v, nil
		case float32:
			return float64(v), nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		}
	case adk.TypeBool:
		if v, ok := value.(bool); ok {
			return v, nil
		}
	case adk.TypeDate:
		if v, ok := value.(time.Time); ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot assign %T to %s field '%s'", ErrorFieldType, value, f.Type, f.Name)
}

func (r *Record) pushStaged(driver adk.Driver) error {
	for _, name := range utils.GetKeys(r.staged) {
		f, _ := r.table.Field(name)
		value := r.staged[name]

		var err error
		switch f.Type {
		case adk.TypeString:
			err = driver.SetString(r.data, f.Code, value.(string))
		case adk.TypeInt:
			err = driver.SetInt(r.data, f.Code, value.(int64))
		case adk.TypeFloat:
			err = driver.SetFloat(r.data, f.Code, value.(float64))
		case adk.TypeBool:
			err = driver.SetBool(r.data, f.Code, value.(bool))
		case adk.TypeDate:
			err = driver.SetDate(r.data, f.Code, value.(time.Time))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Save pushes the staged values and updates the stored record. Save on a
// record that was never persisted is refused, use Create.
func (r *Record) Save() error {

	if !r.persisted {
		return ErrorNotPersisted
	}

	err := r.session.do(func(driver adk.Driver) error {
		err := r.pushStaged(driver)
		if err != nil {
			return err
		}
		return driver.Update(r.data)
	})
	if err != nil {
		return err
	}

	r.staged = map[string]interface{}{}
	return nil
}

// Create pushes the staged values and inserts the record.
func (r *Record) Create() error {

	if r.persisted {
		return ErrorAlreadyPersisted
	}

	err := r.session.do(func(driver adk.Driver) error {
		err := r.pushStaged(driver)
		if err != nil {
			return err
		}
		return driver.Add(r.data)
	})
	if err != nil {
		return err
	}

	r.persisted = true
	r.staged = map[string]interface{}{}
	return nil
}

// Delete removes the stored record. For row records the native side
// renumbers the remaining sibling rows, so any other row record of the same
// header held by the caller is stale afterwards: re-fetch with Rows.
func (r *Record) Delete() error {

	err := r.session.do(func(driver adk.Driver) error {
		return driver.DeleteRecord(r.data)
	})
	if err != nil {
		return err
	}

	r.persisted = false
	return nil
}

// Rows fetches the row records owned by this header record, in order.
func (r *Record) Rows() ([]*Record, error) {

	if r.table.RowTable == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrorNoRows, r.table.Name)
	}

	rows := []*Record{}
	err := r.session.do(func(driver adk.Driver) error {
		n, err := driver.NRows(r.data)
		if err != nil {
			return err
		}
		for i := 0; i < n; i++ {
			data, err := driver.DataRow(r.data, i)
			if err != nil {
				return err
			}
			rows = append(rows, &Record{
				session:   r.session,
				table:     r.table.RowTable,
				data:      data,
				persisted: true,
				staged:    map[string]interface{}{},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// CreateRows allocates quantity new row records at the end of this header's
// row set and returns them.
func (r *Record) CreateRows(quantity int) ([]*Record, error) {

	if r.table.RowTable == nil {
		return nil, fmt.Errorf("%w: '%s'", ErrorNoRows, r.table.Name)
	}

	err := r.session.do(func(driver adk.Driver) error {
		return driver.AddRows(r.data, quantity)
	})
	if err != nil {
		return nil, err
	}

	rows, err := r.Rows()
	if err != nil {
		return nil, err
	}

	return rows[len(rows)-quantity:], nil
}

// Free releases the native buffer. Optional, but the vendor side does not
// garbage collect buffers.
func (r *Record) Free() error {
	return r.session.do(func(driver adk.Driver) error {
		return driver.DeleteStruct(r.data)
	})
}
