package memdriver

import (
	"strconv"
	"time"

	"github.com/google/btree"

	"github.com/fulldump/vismadk/schema"
)

type record struct {
	id     string
	seq    int64
	values map[int]interface{}
	rows   []*record
}

type entry struct {
	key string
	seq int64
	rec *record
}

// table holds the records of one vendor table, indexed by primary key so
// cursors walk in key order (the vendor returns records in key order too).
type table struct {
	def     *schema.Table
	seq     int64
	index   *btree.BTreeG[*entry]
	byID    map[string]*record
	journal *journal
}

func newTable(def *schema.Table) *table {
	return &table{
		def: def,
		index: btree.NewG(32, func(a, b *entry) bool {
			if a.key != b.key {
				return a.key < b.key
			}
			return a.seq < b.seq
		}),
		byID: map[string]*record{},
	}
}

func (t *table) key(rec *record) string {
	return formatValue(rec.values[t.def.Primary().Code])
}

func (t *table) insert(rec *record) {
	t.seq++
	rec.seq = t.seq
	t.index.ReplaceOrInsert(&entry{key: t.key(rec), seq: rec.seq, rec: rec})
	t.byID[rec.id] = rec
}

func (t *table) remove(rec *record, key string) {
	t.index.Delete(&entry{key: key, seq: rec.seq})
	delete(t.byID, rec.id)
}

// reindex must be called after an update that may have changed the primary
// key value.
func (t *table) reindex(rec *record, oldKey string) {
	newKey := t.key(rec)
	if newKey == oldKey {
		return
	}
	t.index.Delete(&entry{key: oldKey, seq: rec.seq})
	t.index.ReplaceOrInsert(&entry{key: newKey, seq: rec.seq, rec: rec})
}

type filter struct {
	field      int
	expression string
}

func (t *table) matches(rec *record, filters []filter) bool {
	for _, f := range filters {
		if !Match(f.expression, formatValue(rec.values[f.field])) {
			return false
		}
	}
	return true
}

// first returns the first record matching all filters, in primary key order.
func (t *table) first(filters []filter) *record {
	var found *record
	t.index.Ascend(func(e *entry) bool {
		if t.matches(e.rec, filters) {
			found = e.rec
			return false
		}
		return true
	})
	return found
}

// next returns the first match strictly after the given record.
func (t *table) next(after *record, filters []filter) *record {
	pivot := &entry{key: t.key(after), seq: after.seq}
	var found *record
	t.index.AscendGreaterOrEqual(pivot, func(e *entry) bool {
		if e.seq == after.seq && e.rec == after {
			return true // skip the pivot itself
		}
		if t.matches(e.rec, filters) {
			found = e.rec
			return false
		}
		return true
	})
	return found
}

func formatValue(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		if value {
			return "1"
		}
		return "0"
	case time.Time:
		return value.Format("2006-01-02")
	}
	return ""
}

func cloneValues(values map[int]interface{}) map[int]interface{} {
	clone := make(map[int]interface{}, len(values))
	for k, v := range values {
		clone[k] = v
	}
	return clone
}
