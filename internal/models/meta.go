package models

import (
	"maps"
	"slices"
	"time"
)

// MetaID ключ записи метаданных в metadata-хранилище
const MetaID = "_local/meta"

// Meta представляет метаданные хранилища: водяной знак последней успешной
// выгрузки на сервер и множество документов, ожидающих выгрузки.
type Meta struct {
	TsUpload    time.Time       `json:"tsUpload"`    // TsUpload время последней успешной выгрузки (по умолчанию epoch)
	Unuploadeds map[string]bool `json:"unuploadeds"` // Unuploadeds id документов, еще не отправленных на сервер
}

// DefaultMeta returns the record used when nothing has been persisted yet.
func DefaultMeta() Meta {
	return Meta{
		TsUpload:    time.Unix(0, 0).UTC(),
		Unuploadeds: map[string]bool{},
	}
}

// Clone returns a copy that does not share the unuploaded set.
func (m Meta) Clone() Meta {
	out := Meta{TsUpload: m.TsUpload, Unuploadeds: maps.Clone(m.Unuploadeds)}
	if out.Unuploadeds == nil {
		out.Unuploadeds = map[string]bool{}
	}
	return out
}

// UnuploadedIDs returns pending ids in sorted order.
func (m Meta) UnuploadedIDs() []string {
	ids := make([]string, 0, len(m.Unuploadeds))
	for id := range m.Unuploadeds {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MetaPatch описывает частичное обновление Meta.
// nil поля оставляют текущее значение без изменений.
type MetaPatch struct {
	TsUpload    *time.Time
	Unuploadeds map[string]bool
}

// Apply returns the merged record; patch values override current ones.
func (m Meta) Apply(p MetaPatch) Meta {
	out := m.Clone()
	if p.TsUpload != nil {
		out.TsUpload = *p.TsUpload
	}
	if p.Unuploadeds != nil {
		out.Unuploadeds = maps.Clone(p.Unuploadeds)
	}
	return out
}
