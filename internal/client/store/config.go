package store

import (
	"time"

	"github.com/iudanet/docsync/internal/models"
)

// DefaultProbeTimeout bounds the connectivity check
const DefaultProbeTimeout = 5 * time.Second

// Config описывает одно логическое хранилище
type Config struct {
	// Default поля single-документа после DeleteSingle
	Default models.Fields
	// Less задает порядок зеркала в режиме коллекции (nil = без сортировки)
	Less func(a, b *models.Document) bool
	// Name имя локальной базы; метаданные живут в meta_<Name>
	Name string
	// RemoteURL адрес сервера репликации, обязателен при Remote
	RemoteURL string
	// SingleID включает single-режим: зеркало хранит один документ с этим id
	SingleID string
	// ProbeTimeout ограничивает проверку связи с сервером
	ProbeTimeout time.Duration
	// Mirror держать ли документы в памяти
	Mirror bool
	// Remote синхронизироваться ли с сервером
	Remote bool
}

// DefaultConfig returns a collection-mode config with mirror and remote sync enabled
func DefaultConfig(name string) Config {
	return Config{
		Name:         name,
		Mirror:       true,
		Remote:       true,
		ProbeTimeout: DefaultProbeTimeout,
	}
}

// IsSingle reports whether the store mirrors one document instead of a collection
func (c Config) IsSingle() bool {
	return c.SingleID != ""
}

// MetaName returns the name of the metadata database
func (c Config) MetaName() string {
	return "meta_" + c.Name
}

// ByCreatedAtDesc orders documents newest first
func ByCreatedAtDesc(a, b *models.Document) bool {
	return a.CreatedAt.After(b.CreatedAt)
}
