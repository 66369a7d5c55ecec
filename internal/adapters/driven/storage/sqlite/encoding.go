package sqlite

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/raggamuffin/raggamuffin/internal/core/domain"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// encodeMetadata renders metadata as a JSON object with sorted keys.
// Floats always carry a decimal point or exponent so that decodeMetadata
// restores them as float64 rather than int64.
func encodeMetadata(m domain.Metadata) (*string, error) {
	if m == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		switch v := m[k].(type) {
		case string:
			s, err := json.Marshal(v)
			if err != nil {
				return nil, err
			}
			buf.Write(s)
		case int64:
			buf.WriteString(strconv.FormatInt(v, 10))
		case float64:
			s := strconv.FormatFloat(v, 'g', -1, 64)
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			buf.WriteString(s)
		default:
			return nil, fmt.Errorf("metadata %q: unsupported value type %T: %w", k, v, domain.ErrConstraintViolation)
		}
	}
	buf.WriteByte('}')

	out := buf.String()
	return &out, nil
}

// decodeMetadata parses a stored metadata object. Number literals with a
// fraction or exponent decode as float64, all others as int64.
func decodeMetadata(raw sql.NullString) (domain.Metadata, error) {
	if !raw.Valid {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(raw.String))
	dec.UseNumber()

	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}

	m := make(domain.Metadata, len(values))
	for k, v := range values {
		switch x := v.(type) {
		case string:
			m[k] = x
		case json.Number:
			s := x.String()
			if strings.ContainsAny(s, ".eE") {
				f, err := x.Float64()
				if err != nil {
					return nil, fmt.Errorf("metadata %q: %w", k, err)
				}
				m[k] = f
			} else {
				n, err := x.Int64()
				if err != nil {
					return nil, fmt.Errorf("metadata %q: %w", k, err)
				}
				m[k] = n
			}
		default:
			return nil, fmt.Errorf("metadata %q: unexpected %T: %w", k, v, domain.ErrIntegrityCorruption)
		}
	}
	return m, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func intPtr(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

// blob keeps empty payloads distinct from unset ones.
func blob(b []byte) any {
	if b == nil {
		return nil
	}
	return b
}
