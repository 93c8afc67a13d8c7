package visma

import (
	"errors"
)

var (
	ErrorCompanyNotFound      = errors.New("company not found, add it first")
	ErrorCompanyAlreadyExists = errors.New("company already exists")
	ErrorTableNotFound        = errors.New("table not found")
	ErrorFieldNotFound        = errors.New("field not found")
	ErrorRecordNotFound       = errors.New("record not found")
	ErrorFieldType            = errors.New("value does not match the field type")
	ErrorNotPersisted         = errors.New("record was never persisted, use Create")
	ErrorAlreadyPersisted     = errors.New("record is already persisted, use Save")
	ErrorNoRows               = errors.New("table has no row records")
	ErrorSessionClosed        = errors.New("session is closed")
)
