package adk

import (
	"time"
)

// Data is an opaque handle to a native record buffer. The vendor reuses
// buffers aggressively, so two Data values may refer to the same memory.
type Data interface{}

// Driver is the call surface this module consumes from the vendor component
// (AdkOpen2/AdkSetFilter/AdkFirstEx/AdkGetStr/... in the DLL binding).
// Implementations are expected NOT to be safe for concurrent calls; callers
// must serialize access (see visma.Registry).
type Driver interface {
	// Open connects to one company. At most one company can be open at a
	// time; Open on an already open driver replaces nothing, it fails.
	Open(commonPath, companyPath, username, password string) error
	Close() error

	// CreateData allocates a record buffer for the given table code.
	CreateData(table int) (Data, error)
	// DeleteStruct releases a buffer. Using the handle afterwards is an error.
	DeleteStruct(data Data) error

	// SetFilter restricts First/Next to records whose field value matches a
	// vendor wildcard expression. One filter per field; setting a filter on
	// the same field again replaces the previous one.
	SetFilter(data Data, field int, expression string) error
	First(data Data) error
	Next(data Data) error

	FieldType(data Data, field int) (FieldType, error)

	GetString(data Data, field int) (string, error)
	GetInt(data Data, field int) (int64, error)
	GetFloat(data Data, field int) (float64, error)
	GetBool(data Data, field int) (bool, error)
	GetDate(data Data, field int) (time.Time, error)

	SetString(data Data, field int, value string) error
	SetInt(data Data, field int, value int64) error
	SetFloat(data Data, field int, value float64) error
	SetBool(data Data, field int, value bool) error
	SetDate(data Data, field int, value time.Time) error

	// Update writes the buffer back to the record the buffer is positioned
	// on. Add inserts the buffer as a new record and leaves the buffer
	// positioned on it.
	Update(data Data) error
	Add(data Data) error
	DeleteRecord(data Data) error

	// Row operations, only valid on buffers of header tables. Deleting a
	// row record renumbers its siblings on the native side.
	NRows(data Data) (int, error)
	DataRow(data Data, index int) (Data, error)
	AddRows(data Data, quantity int) error
}

// FieldType is the vendor field type tag (ADK_FIELD_TYPE).
type FieldType int

const (
	TypeUnused FieldType = iota
	TypeString
	TypeInt
	TypeFloat
	TypeBool
	TypeDate
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	}
	return "unused"
}
