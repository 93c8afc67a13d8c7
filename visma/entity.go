package visma

import (
	"fmt"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"

	"github.com/fulldump/vismadk/utils"
)

// Filter maps field names to vendor wildcard expressions ('*' any run,
// '?' one character). All fields must match.
type Filter map[string]string

// Entity is the query surface of one table within a session.
type Entity struct {
	session *Session
	table   *schema.Table
}

func (e *Entity) Name() string {
	return e.table.Name
}

// New allocates an unpersisted record. Call Create, not Save, to insert it.
//
// Vendor hazard, inherited: native buffers can be shared between records,
// so writing through a record obtained from New before Create may clobber
// another in-memory record sharing the buffer. The Unsaved/Persisted state
// check below turns the worst case (Save on a fresh buffer silently
// overwriting an unrelated record) into an error.
func (e *Entity) New() (*Record, error) {

	record := &Record{
		session: e.session,
		table:   e.table,
		staged:  map[string]interface{}{},
	}

	err := e.session.do(func(driver adk.Driver) error {
		var err error
		record.data, err = driver.CreateData(e.table.Code)
		return err
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Get returns the single first record matching the filter, or
// ErrorRecordNotFound.
func (e *Entity) Get(filter Filter) (*Record, error) {

	record, err := e.New()
	if err != nil {
		return nil, err
	}

	err = e.session.do(func(driver adk.Driver) error {
		err := applyFilter(driver, record.data, e.table, filter)
		if err != nil {
			return err
		}
		return driver.First(record.data)
	})
	if adk.IsNotFound(err) {
		record.Free()
		return nil, fmt.Errorf("%w: no '%s' record matches the filter", ErrorRecordNotFound, e.table.Name)
	}
	if err != nil {
		record.Free()
		return nil, err
	}

	record.persisted = true
	return record, nil
}

// Find returns a lazy forward-only cursor over the records matching the
// filter. Nothing is fetched until Next is called; abandoning the cursor
// early never touches the remaining matches. Restart by calling Find again.
func (e *Entity) Find(filter Filter) *Cursor {
	return &Cursor{
		entity: e,
		filter: filter,
	}
}

func applyFilter(driver adk.Driver, data adk.Data, table *schema.Table, filter Filter) error {
	for _, name := range utils.GetKeys(filter) {
		f, exists := table.Field(name)
		if !exists {
			return fmt.Errorf("%w: '%s' of table '%s'", ErrorFieldNotFound, name, table.Name)
		}
		err := driver.SetFilter(data, f.Code, filter[name])
		if err != nil {
			return err
		}
	}
	return nil
}
