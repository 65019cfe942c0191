package handler

import (
	"bytes"
	"errors"
	"net/http"

	importerdomain "highspirit-app-go/internal/domain/importer"
	"highspirit-app-go/internal/spreadsheet"
)

func (h *Handlers) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	h.importWorkbook(w, r, importerdomain.KindCustomers)
}

func (h *Handlers) ImportBoxing(w http.ResponseWriter, r *http.Request) {
	h.importWorkbook(w, r, importerdomain.KindBoxing)
}

func (h *Handlers) CustomerImportTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteCustomerTemplate(&buf); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeWorkbook(w, "customers-template.xlsx", buf.Bytes())
}

func (h *Handlers) BoxingImportTemplate(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteBoxingTemplate(&buf); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeWorkbook(w, "boxing-template.xlsx", buf.Bytes())
}

func (h *Handlers) importWorkbook(w http.ResponseWriter, r *http.Request, kind importerdomain.Kind) {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large", "file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "expected multipart form with a file field")
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "file is required")
		return
	}
	defer file.Close()

	sheets, err := spreadsheet.ReadWorkbook(file)
	if err != nil {
		h.log.BusinessError("import: unreadable workbook", err, "kind", string(kind))
		writeError(w, http.StatusBadRequest, "invalid_workbook", "file is not a readable xlsx workbook")
		return
	}

	result, err := h.Imports.Import(r.Context(), kind, sheets)
	if result != nil && result.Imported > 0 {
		h.invalidateDashboard(r)
	}
	if err != nil {
		if result != nil && result.Interrupted {
			// Rows stored before the deadline stay committed; report them.
			h.log.Warn("import: interrupted", "kind", string(kind), "imported", result.Imported, "rows", result.Rows)
			writeJSON(w, http.StatusOK, result)
			return
		}
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
