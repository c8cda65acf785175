package dto

import "github.com/planilla-hr/planilla-api/internal/models"

// ImportQueuedResponse lists the files accepted for background validation.
type ImportQueuedResponse struct {
	Queued []string `json:"queued"`
}

// ImportStatusResponse is the polling payload for the import pipeline.
// FileErrors carries whole-file failures (bad format) that produced no
// validation rows; they clear on successful re-import or removal.
type ImportStatusResponse struct {
	Validating       bool                     `json:"validating"`
	Files            []string                 `json:"archivos"`
	Reports          []string                 `json:"reportes"`
	ValidationErrors []models.ValidationError `json:"errores_validacion"`
	FileErrors       []models.FileError       `json:"errores_archivo"`
}

// RemoveFileResponse reports how many records a file removal cascaded to.
type RemoveFileResponse struct {
	File           string `json:"archivo"`
	RecordsRemoved int    `json:"registros_eliminados"`
}
