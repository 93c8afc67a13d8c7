package visma

import (
	"sync/atomic"
	"testing"

	. "github.com/fulldump/biff"
)

func TestFind_IsLazy(t *testing.T) {

	driver := newRecordingDriver()
	session := openTestSession(driver)
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "1", "Alfonso SL")
	createSupplier(suppliers, "2", "Gerardo Ltd")

	cursor := suppliers.Find(Filter{})
	defer cursor.Close()

	// nothing is fetched until the first Next
	AssertEqual(atomic.LoadInt64(&driver.firsts), int64(0))

	AssertEqual(cursor.Next(), true)
	AssertEqual(atomic.LoadInt64(&driver.firsts), int64(1))
	AssertEqual(atomic.LoadInt64(&driver.nexts), int64(0))

	AssertEqual(cursor.Next(), true)
	AssertEqual(atomic.LoadInt64(&driver.nexts), int64(1))
}

func TestCursor_WalksMatches(t *testing.T) {

	session := openTestSession(newRecordingDriver())
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "1", "Alfonso SL")
	createSupplier(suppliers, "2", "Gerardo Ltd")
	createSupplier(suppliers, "3", "Alfonso e Hijos")

	cursor := suppliers.Find(Filter{"name": "Alfonso*"})
	defer cursor.Close()

	numbers := []string{}
	for cursor.Next() {
		number, err := cursor.Record().GetString("number")
		AssertNil(err)
		numbers = append(numbers, number)
	}

	AssertNil(cursor.Err())
	AssertEqual(numbers, []string{"1", "3"})
}

func TestCursor_RecordSharesTheBuffer(t *testing.T) {

	session := openTestSession(newRecordingDriver())
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "1", "Alfonso SL")
	createSupplier(suppliers, "2", "Gerardo Ltd")

	cursor := suppliers.Find(Filter{})
	defer cursor.Close()

	AssertEqual(cursor.Next(), true)
	record := cursor.Record()

	number, _ := record.GetString("number")
	AssertEqual(number, "1")

	// advancing repositions the record held by the caller
	AssertEqual(cursor.Next(), true)
	number, _ = record.GetString("number")
	AssertEqual(number, "2")
}

func TestCursor_DeleteThenNext(t *testing.T) {

	session := openTestSession(newRecordingDriver())
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "1", "Alfonso SL")
	createSupplier(suppliers, "2", "Gerardo Ltd")
	createSupplier(suppliers, "3", "Alfonso e Hijos")

	cursor := suppliers.Find(Filter{})
	defer cursor.Close()

	numbers := []string{}
	for cursor.Next() {
		record := cursor.Record()
		number, _ := record.GetString("number")
		numbers = append(numbers, number)
		AssertNil(record.Delete())
	}

	AssertNil(cursor.Err())
	AssertEqual(numbers, []string{"1", "2", "3"})
}

func TestCursor_Empty(t *testing.T) {

	session := openTestSession(newRecordingDriver())
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	cursor := suppliers.Find(Filter{"name": "nobody"})
	defer cursor.Close()

	AssertEqual(cursor.Next(), false)
	AssertNil(cursor.Err())
}

func TestCursor_CloseStopsIteration(t *testing.T) {

	session := openTestSession(newRecordingDriver())
	defer session.Close()

	suppliers, _ := session.Table("supplier")
	createSupplier(suppliers, "1", "Alfonso SL")
	createSupplier(suppliers, "2", "Gerardo Ltd")

	cursor := suppliers.Find(Filter{})
	AssertEqual(cursor.Next(), true)
	AssertNil(cursor.Close())

	AssertEqual(cursor.Next(), false)
	AssertNil(cursor.Err())
}

func TestCursor_UnknownFilterField(t *testing.T) {

	session := openTestSession(newRecordingDriver())
	defer session.Close()

	suppliers, _ := session.Table("supplier")

	cursor := suppliers.Find(Filter{"color": "red"})
	defer cursor.Close()

	AssertEqual(cursor.Next(), false)
	AssertEqual(cursor.Err() != nil, true)
}
