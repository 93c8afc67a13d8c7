package memdriver

import (
	"github.com/fulldump/vismadk/adk"
)

// data is the in-memory counterpart of a vendor record buffer. Regular
// buffers keep a copy of the positioned record's values; row buffers read
// and write their header's row record directly, which is why a held row
// buffer goes stale when a sibling row is deleted (same as the vendor).
type data struct {
	company  *company
	table    *table
	released bool

	filters []filter
	values  map[int]interface{}
	bufRows []*record // rows attached before the record is added
	current *record

	// set on row buffers only
	header   *data
	rowIndex int
}

func (d *data) isRow() bool {
	return d.header != nil
}

// rows returns the live row slice of a header buffer: the positioned
// record's rows, or the staged ones for a buffer that was never added.
func (d *data) rows() *[]*record {
	if d.current != nil {
		return &d.current.rows
	}
	return &d.bufRows
}

func (d *data) rowRecord(op string) (*record, error) {
	rows := *d.header.rows()
	if d.rowIndex < 0 || d.rowIndex >= len(rows) {
		return nil, adk.NewError(op, adk.CodeNotFound, "row %d out of range", d.rowIndex)
	}
	return rows[d.rowIndex], nil
}

func (d *data) read(op string, field int) (interface{}, error) {
	if d.isRow() {
		rec, err := d.rowRecord(op)
		if err != nil {
			return nil, err
		}
		return rec.values[field], nil
	}
	return d.values[field], nil
}

func (d *data) write(op string, field int, value interface{}) error {
	if d.isRow() {
		rec, err := d.rowRecord(op)
		if err != nil {
			return err
		}
		rec.values[field] = value
		return nil
	}
	if d.values == nil {
		d.values = map[int]interface{}{}
	}
	d.values[field] = value
	return nil
}
