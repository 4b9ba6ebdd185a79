package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_IsNewerThan(t *testing.T) {
	tests := []struct {
		self     *Document
		other    *Document
		name     string
		expected bool
	}{
		{
			name:     "self generation greater",
			self:     &Document{Rev: "3-aaa"},
			other:    &Document{Rev: "2-fff"},
			expected: true,
		},
		{
			name:     "self generation smaller",
			self:     &Document{Rev: "2-fff"},
			other:    &Document{Rev: "10-aaa"},
			expected: false,
		},
		{
			name:     "generations equal, self rev greater lex",
			self:     &Document{Rev: "2-bbb"},
			other:    &Document{Rev: "2-aaa"},
			expected: true,
		},
		{
			name:     "generations equal, self rev lower lex",
			self:     &Document{Rev: "2-aaa"},
			other:    &Document{Rev: "2-bbb"},
			expected: false,
		},
		{
			name:     "same revision is not newer",
			self:     &Document{Rev: "2-aaa"},
			other:    &Document{Rev: "2-aaa"},
			expected: false,
		},
		{
			name:     "any revision beats missing one",
			self:     &Document{Rev: "1-aaa"},
			other:    &Document{},
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.self.IsNewerThan(tt.other))
		})
	}
}

func TestDocument_Generation(t *testing.T) {
	assert.Equal(t, 0, (&Document{}).Generation())
	assert.Equal(t, 0, (&Document{Rev: "garbage"}).Generation())
	assert.Equal(t, 7, (&Document{Rev: "7-abc"}).Generation())
}

func TestDocument_NextRev(t *testing.T) {
	doc := &Document{ID: "a", Fields: Fields{"text": "x"}}

	rev1, err := doc.NextRev()
	require.NoError(t, err)
	assert.Regexp(t, `^1-[0-9a-f]{32}$`, rev1)

	doc.Rev = rev1
	rev2, err := doc.NextRev()
	require.NoError(t, err)
	assert.Regexp(t, `^2-[0-9a-f]{32}$`, rev2)

	// Одинаковое содержимое дает одинаковую ревизию
	again, err := (&Document{ID: "a", Fields: Fields{"text": "x"}}).NextRev()
	require.NoError(t, err)
	assert.Equal(t, rev1, again)
}

func TestDocument_Merge(t *testing.T) {
	doc := Document{ID: "a", Rev: "1-x", Fields: Fields{"text": "old", "keep": 1.0}}

	merged := doc.Merge(Fields{"text": "new", KeyID: "hijack", KeyDeletedAt: "2020-01-01T00:00:00Z"})

	assert.Equal(t, "a", merged.ID)
	assert.Equal(t, "1-x", merged.Rev)
	assert.Nil(t, merged.DeletedAt)
	assert.Equal(t, "new", merged.Field("text"))
	assert.Equal(t, 1.0, merged.Field("keep"))
	assert.NotContains(t, merged.Fields, KeyID)

	// Исходный документ не изменился
	assert.Equal(t, "old", doc.Field("text"))
}

func TestDocument_Clone(t *testing.T) {
	now := time.Now()
	original := Document{ID: "a", Fields: Fields{"k": "v"}, UpdatedAt: &now, DeletedAt: &now}

	clone := original.Clone()
	clone.Fields["k"] = "changed"
	*clone.UpdatedAt = now.Add(time.Hour)

	assert.Equal(t, "v", original.Fields["k"])
	assert.True(t, original.UpdatedAt.Equal(now))
	assert.True(t, clone.DeletedAt.Equal(now))
}

func TestDocument_IsTombstone(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Document{ID: "a"}).IsTombstone())
	assert.True(t, (&Document{ID: "a", DeletedAt: &now}).IsTombstone())
	assert.True(t, (&Document{ID: "a", Deleted: true}).IsTombstone())
}

func TestDocument_JSON(t *testing.T) {
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	deleted := created.Add(time.Hour)

	doc := Document{
		ID:        "0190a1b2-0000-7000-8000-000000000001",
		Rev:       "2-abc",
		CreatedAt: created,
		CreatedBy: "user1",
		DeletedAt: &deleted,
		DeletedBy: "user2",
		Fields:    Fields{"text": "buy milk", "done": false},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))
	assert.Equal(t, "buy milk", flat["text"])
	assert.Equal(t, "2-abc", flat[KeyRev])
	assert.Equal(t, "user1", flat[KeyCreatedBy])
	assert.Equal(t, "2024-05-01T11:00:00Z", flat[KeyDeletedAt])
	assert.NotContains(t, flat, KeyUpdatedAt)

	var got Document
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.Rev, got.Rev)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.Equal(t, "user1", got.CreatedBy)
	require.NotNil(t, got.DeletedAt)
	assert.True(t, got.DeletedAt.Equal(deleted))
	assert.Equal(t, "user2", got.DeletedBy)
	assert.Equal(t, Fields{"text": "buy milk", "done": false}, got.Fields)
}

func TestDocument_JSON_NullDeletedAt(t *testing.T) {
	var got Document
	err := json.Unmarshal([]byte(`{"_id":"a","createdAt":"2024-05-01T10:00:00Z","createdBy":null,"deletedAt":null}`), &got)
	require.NoError(t, err)
	assert.Nil(t, got.DeletedAt)
	assert.Empty(t, got.CreatedBy)
	assert.False(t, got.IsTombstone())
	assert.Nil(t, got.Fields)
}

func TestDocument_JSON_InvalidTime(t *testing.T) {
	var got Document
	err := json.Unmarshal([]byte(`{"_id":"a","updatedAt":42}`), &got)
	assert.Error(t, err)
}

func TestDocument_MethodsOnValues(t *testing.T) {
	byID := map[string]Document{"a": {ID: "a", Rev: "2-x", Fields: Fields{"text": "hi"}}}

	clone := byID["a"].Clone()
	clone.Fields["text"] = "changed"

	assert.Equal(t, "hi", byID["a"].Field("text"))
	assert.Equal(t, 2, byID["a"].Generation())
	assert.False(t, byID["a"].IsTombstone())
}
