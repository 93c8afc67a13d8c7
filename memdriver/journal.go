package memdriver

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	json2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/fulldump/vismadk/adk"
	"github.com/fulldump/vismadk/schema"
)

// The journal is an append-only sequence of JSON commands, one file per
// table under the company path. Replayed on open, appended on every write.
type command struct {
	Name      string          `json:"name"`
	Uuid      string          `json:"uuid"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

type recordPayload struct {
	Id     string                   `json:"id"`
	Values map[string]interface{}   `json:"values"`
	Rows   []map[string]interface{} `json:"rows,omitempty"`
}

type journal struct {
	file *os.File
}

// openJournal replays an existing journal file into the table and leaves the
// file open for append.
func openJournal(filename string, t *table) (*journal, error) {

	f, err := os.OpenFile(filename, os.O_RDONLY|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("open journal for read: %w", err)
	}

	d := jsontext.NewDecoder(f)
	for {
		c := &command{}
		err := json2.UnmarshalDecode(d, c)
		if err == io.EOF {
			break
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("decode journal command: %w", err)
		}

		err = replay(t, c)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("replay journal command %s: %w", c.Uuid, err)
		}
	}
	f.Close()

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
	if err != nil {
		return nil, fmt.Errorf("open journal for write: %w", err)
	}

	return &journal{file: file}, nil
}

func replay(t *table, c *command) error {

	payload := &recordPayload{}
	err := json.Unmarshal(c.Payload, payload)
	if err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch c.Name {
	case "add":
		rec := &record{id: payload.Id}
		rec.values, err = decodeValues(t.def, payload.Values)
		if err != nil {
			return err
		}
		rec.rows, err = decodeRows(t.def, payload.Rows)
		if err != nil {
			return err
		}
		t.insert(rec)
	case "update":
		rec, exists := t.byID[payload.Id]
		if !exists {
			return fmt.Errorf("record '%s' not found", payload.Id)
		}
		oldKey := t.key(rec)
		rec.values, err = decodeValues(t.def, payload.Values)
		if err != nil {
			return err
		}
		rec.rows, err = decodeRows(t.def, payload.Rows)
		if err != nil {
			return err
		}
		t.reindex(rec, oldKey)
	case "remove":
		rec, exists := t.byID[payload.Id]
		if !exists {
			return fmt.Errorf("record '%s' not found", payload.Id)
		}
		t.remove(rec, t.key(rec))
	default:
		return fmt.Errorf("unknown command '%s'", c.Name)
	}

	return nil
}

// append persists one command. A nil journal (memory-only company) accepts
// everything and persists nothing.
func (j *journal) append(name string, t *table, rec *record) error {
	if j == nil {
		return nil
	}

	payload, err := json.Marshal(&recordPayload{
		Id:     rec.id,
		Values: encodeValues(t.def, rec.values),
		Rows:   encodeRows(t.def, rec.rows),
	})
	if err != nil {
		return fmt.Errorf("json encode payload: %w", err)
	}

	c := &command{
		Name:      name,
		Uuid:      uuid.New().String(),
		Timestamp: time.Now().UnixNano(),
		Payload:   payload,
	}

	err = json.NewEncoder(j.file).Encode(c)
	if err != nil {
		return fmt.Errorf("json encode command: %w", err)
	}

	return nil
}

func (j *journal) close() error {
	if j == nil {
		return nil
	}
	return j.file.Close()
}

func encodeValues(def *schema.Table, values map[int]interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, f := range def.Fields {
		v, exists := values[f.Code]
		if !exists {
			continue
		}
		if t, ok := v.(time.Time); ok {
			v = t.Format(time.RFC3339)
		}
		out[f.Name] = v
	}
	return out
}

func encodeRows(def *schema.Table, rows []*record) []map[string]interface{} {
	if def.RowTable == nil || len(rows) == 0 {
		return nil
	}
	out := []map[string]interface{}{}
	for _, row := range rows {
		out = append(out, encodeValues(def.RowTable, row.values))
	}
	return out
}

func decodeValues(def *schema.Table, in map[string]interface{}) (map[int]interface{}, error) {
	values := map[int]interface{}{}
	for name, v := range in {
		f, exists := def.Field(name)
		if !exists {
			return nil, fmt.Errorf("unknown field '%s' of table '%s'", name, def.Name)
		}

		switch f.Type {
		case adk.TypeString:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field '%s': expected string", name)
			}
			values[f.Code] = s
		case adk.TypeInt:
			n, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("field '%s': expected number", name)
			}
			values[f.Code] = int64(n)
		case adk.TypeFloat:
			n, ok := v.(float64)
			if !ok {
				return nil, fmt.Errorf("field '%s': expected number", name)
			}
			values[f.Code] = n
		case adk.TypeBool:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("field '%s': expected bool", name)
			}
			values[f.Code] = b
		case adk.TypeDate:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field '%s': expected date string", name)
			}
			date, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return nil, fmt.Errorf("field '%s': %w", name, err)
			}
			values[f.Code] = date
		}
	}
	return values, nil
}

func decodeRows(def *schema.Table, in []map[string]interface{}) ([]*record, error) {
	if len(in) == 0 {
		return nil, nil
	}
	if def.RowTable == nil {
		return nil, fmt.Errorf("table '%s' has no row table", def.Name)
	}
	rows := []*record{}
	for _, values := range in {
		decoded, err := decodeValues(def.RowTable, values)
		if err != nil {
			return nil, err
		}
		rows = append(rows, &record{values: decoded})
	}
	return rows, nil
}
