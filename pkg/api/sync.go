package api

import "github.com/iudanet/docsync/internal/models"

// ChangesResponse представляет страницу ленты изменений базы на сервере
type ChangesResponse struct {
	Results []models.Document `json:"results"`  // Документы в порядке seq, включая tombstones
	LastSeq int64             `json:"last_seq"` // seq последнего документа страницы (или since, если пусто)
	Pending int64             `json:"pending"`  // Сколько изменений осталось после страницы
}

// BulkDocsRequest представляет пачку документов, отправляемых клиентом
type BulkDocsRequest struct {
	Docs []models.Document `json:"docs"`
}

// BulkDocsResponse представляет результат записи пачки
type BulkDocsResponse struct {
	Written   int `json:"written"`   // Количество записанных документов
	Conflicts int `json:"conflicts"` // Документы, проигравшие серверной ревизии
}

// DatabaseInfo описывает одну базу на сервере
type DatabaseInfo struct {
	Name      string `json:"name"`
	Documents int64  `json:"documents"`
	LastSeq   int64  `json:"last_seq"`
}

// DatabasesResponse представляет список баз, доступных пользователю
type DatabasesResponse struct {
	Databases []DatabaseInfo `json:"databases"`
}
