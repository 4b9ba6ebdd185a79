package models

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
	"time"
)

// Зарезервированные ключи документа. Пользовательские поля с такими именами
// никогда не попадают в Fields.
const (
	KeyID        = "_id"
	KeyRev       = "_rev"
	KeyDeleted   = "_deleted"
	KeyCreatedAt = "createdAt"
	KeyCreatedBy = "createdBy"
	KeyUpdatedAt = "updatedAt"
	KeyUpdatedBy = "updatedBy"
	KeyDeletedAt = "deletedAt"
	KeyDeletedBy = "deletedBy"
)

var reservedKeys = map[string]struct{}{
	KeyID:        {},
	KeyRev:       {},
	KeyDeleted:   {},
	KeyCreatedAt: {},
	KeyCreatedBy: {},
	KeyUpdatedAt: {},
	KeyUpdatedBy: {},
	KeyDeletedAt: {},
	KeyDeletedBy: {},
}

// IsReservedKey reports whether key is owned by the document record itself
// and therefore cannot be set through Fields.
func IsReservedKey(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Fields holds arbitrary user payload of a document.
type Fields map[string]any

// Clone returns a shallow copy of the fields.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	maps.Copy(out, f)
	return out
}

// Document представляет запись в локальном или удаленном хранилище документов.
// В JSON пользовательские поля "разворачиваются" на верхний уровень объекта
// рядом со служебными (_id, _rev, createdAt, ...).
type Document struct {
	CreatedAt time.Time  // CreatedAt время создания (нулевое для single-документов)
	UpdatedAt *time.Time // UpdatedAt время последнего редактирования
	DeletedAt *time.Time // DeletedAt не nil = tombstone (soft delete)
	Fields    Fields     // Fields пользовательские данные
	ID        string     // ID уникальный идентификатор в рамках хранилища
	Rev       string     // Rev ревизия "<generation>-<hash>", назначается хранилищем
	CreatedBy string     // CreatedBy автор создания
	UpdatedBy string     // UpdatedBy автор последнего изменения
	DeletedBy string     // DeletedBy автор удаления
	Deleted   bool       // Deleted маркер физического удаления в ленте изменений
}

// IsTombstone reports whether the document is soft-deleted or is a removal marker.
func (d Document) IsTombstone() bool {
	return d.DeletedAt != nil || d.Deleted
}

// Field returns a user field value or nil.
func (d Document) Field(key string) any {
	if d.Fields == nil {
		return nil
	}
	return d.Fields[key]
}

// Clone создает копию документа, не разделяющую map полей и указатели времени
func (d Document) Clone() Document {
	out := d
	out.Fields = d.Fields.Clone()
	if d.UpdatedAt != nil {
		t := *d.UpdatedAt
		out.UpdatedAt = &t
	}
	if d.DeletedAt != nil {
		t := *d.DeletedAt
		out.DeletedAt = &t
	}
	return out
}

// Merge returns a copy of the document with patch fields applied on top.
// New fields override old ones; reserved keys in patch are ignored.
func (d Document) Merge(patch Fields) Document {
	out := d.Clone()
	if out.Fields == nil {
		out.Fields = make(Fields, len(patch))
	}
	for k, v := range patch {
		if IsReservedKey(k) {
			continue
		}
		out.Fields[k] = v
	}
	return out
}

// Generation returns the numeric prefix of the revision (0 when absent or malformed).
func (d Document) Generation() int {
	if d.Rev == "" {
		return 0
	}
	prefix, _, _ := strings.Cut(d.Rev, "-")
	gen, err := strconv.Atoi(prefix)
	if err != nil {
		return 0
	}
	return gen
}

// IsNewerThan определяет, какая из двух ревизий документа побеждает.
// 1. Сначала сравнивается поколение ревизии (большее выигрывает)
// 2. При равных поколениях сравнивается сама строка ревизии (лексикографически)
// Правило детерминировано и одинаково на клиенте и сервере.
func (d Document) IsNewerThan(other *Document) bool {
	g1, g2 := d.Generation(), other.Generation()
	if g1 != g2 {
		return g1 > g2
	}
	return d.Rev > other.Rev
}

// NextRev computes the revision the document gets on its next write:
// generation+1 and a content hash of the body without the revision itself.
func (d Document) NextRev() (string, error) {
	body := d.Clone()
	body.Rev = ""
	data, err := json.Marshal(&body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}
	sum := md5.Sum(data)
	return fmt.Sprintf("%d-%s", d.Generation()+1, hex.EncodeToString(sum[:])), nil
}

// MarshalJSON flattens user fields next to the record fields.
func (d Document) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(d.Fields)+9)
	for k, v := range d.Fields {
		if IsReservedKey(k) {
			continue
		}
		m[k] = v
	}

	m[KeyID] = d.ID
	if d.Rev != "" {
		m[KeyRev] = d.Rev
	}
	if d.Deleted {
		m[KeyDeleted] = true
	}
	if !d.CreatedAt.IsZero() {
		m[KeyCreatedAt] = d.CreatedAt.UTC().Format(time.RFC3339Nano)
		m[KeyCreatedBy] = nullableString(d.CreatedBy)
		// deletedAt: null явно у всех документов коллекции
		m[KeyDeletedAt] = nil
	}
	if d.CreatedBy != "" {
		m[KeyCreatedBy] = d.CreatedBy
	}
	if d.UpdatedAt != nil {
		m[KeyUpdatedAt] = d.UpdatedAt.UTC().Format(time.RFC3339Nano)
		m[KeyUpdatedBy] = nullableString(d.UpdatedBy)
	}
	if d.DeletedAt != nil {
		m[KeyDeletedAt] = d.DeletedAt.UTC().Format(time.RFC3339Nano)
		m[KeyDeletedBy] = nullableString(d.DeletedBy)
	}

	return json.Marshal(m)
}

// UnmarshalJSON splits a flat JSON object into record fields and user fields.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to unmarshal document: %w", err)
	}

	doc := Document{}
	for k, v := range raw {
		var err error
		switch k {
		case KeyID:
			doc.ID = asString(v)
		case KeyRev:
			doc.Rev = asString(v)
		case KeyDeleted:
			b, _ := v.(bool)
			doc.Deleted = b
		case KeyCreatedAt:
			var t *time.Time
			t, err = parseTime(v)
			if t != nil {
				doc.CreatedAt = *t
			}
		case KeyCreatedBy:
			doc.CreatedBy = asString(v)
		case KeyUpdatedAt:
			doc.UpdatedAt, err = parseTime(v)
		case KeyUpdatedBy:
			doc.UpdatedBy = asString(v)
		case KeyDeletedAt:
			doc.DeletedAt, err = parseTime(v)
		case KeyDeletedBy:
			doc.DeletedBy = asString(v)
		default:
			if doc.Fields == nil {
				doc.Fields = make(Fields)
			}
			doc.Fields[k] = v
		}
		if err != nil {
			return fmt.Errorf("invalid %s: %w", k, err)
		}
	}

	*d = doc
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func parseTime(v any) (*time.Time, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("expected RFC3339 string, got %T", v)
	}
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
