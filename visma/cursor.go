package visma

import (
	"github.com/fulldump/vismadk/adk"
)

// Cursor walks the native cursor lazily: each Next advances one match.
type Cursor struct {
	entity *Entity
	filter Filter
	record *Record
	err    error
	done   bool
}

// Next positions the cursor on the next matching record. It returns false
// when there are no more matches or an error occurred, see Err.
func (c *Cursor) Next() bool {

	if c.done || c.err != nil {
		return false
	}

	if c.record == nil {
		return c.first()
	}

	err := c.entity.session.do(func(driver adk.Driver) error {
		return driver.Next(c.record.data)
	})
	if adk.IsNotFound(err) {
		c.done = true
		return false
	}
	if err != nil {
		c.err = err
		c.done = true
		return false
	}

	return true
}

func (c *Cursor) first() bool {

	record, err := c.entity.New()
	if err != nil {
		c.err = err
		c.done = true
		return false
	}

	err = c.entity.session.do(func(driver adk.Driver) error {
		err := applyFilter(driver, record.data, c.entity.table, c.filter)
		if err != nil {
			return err
		}
		return driver.First(record.data)
	})
	if adk.IsNotFound(err) {
		record.Free()
		c.done = true
		return false
	}
	if err != nil {
		record.Free()
		c.err = err
		c.done = true
		return false
	}

	record.persisted = true
	c.record = record
	return true
}

// Record returns the current record. It is bound to the cursor's one native
// buffer: advancing the cursor repositions that same buffer (vendor buffer
// reuse), so copy values out if they must outlive the iteration.
func (c *Cursor) Record() *Record {
	return c.record
}

func (c *Cursor) Err() error {
	return c.err
}

// Close releases the cursor's buffer. The record returned by Record is
// unusable afterwards.
func (c *Cursor) Close() error {
	c.done = true
	if c.record == nil {
		return nil
	}
	record := c.record
	c.record = nil
	return record.Free()
}
