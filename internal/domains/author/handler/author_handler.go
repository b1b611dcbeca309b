package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"catalog-backend/internal/domains/author/model"
	"catalog-backend/internal/domains/author/service"
	"catalog-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/locales"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const maxImportFileSize = 5 << 20 // 5MB

type AuthorHandler struct {
	service       service.ServiceInterface
	defaultLocale string
}

// NewAuthorHandler renders dates in defaultLocale unless a request asks
// for another one with ?locale= or Accept-Language.
func NewAuthorHandler(svc service.ServiceInterface, defaultLocale string) *AuthorHandler {
	if !model.SupportedLocale(defaultLocale) {
		defaultLocale = model.DefaultLocale
	}
	return &AuthorHandler{
		service:       svc,
		defaultLocale: defaultLocale,
	}
}

// ════════════════════════════════════════════════════════════════
// CREATE: POST /api/v1/authors
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Create(c *gin.Context) {
	var req model.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	a, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Create author successfully", a.ToResponse(h.translator(c)))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/v1/authors/:id and GET /catalog/author/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	a, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get author successfully", a.ToResponse(h.translator(c)))
}

// ════════════════════════════════════════════════════════════════
// READ: GET /api/v1/authors?limit=20&offset=0&sort_by=family_name&order=asc&search=
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) GetAll(c *gin.Context) {
	filter, err := h.bindFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	authors, total, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// same clamps the service applied, for the pagination block
	normalized, _ := model.NormalizeFilter(filter)
	res := &model.AuthorListResponse{
		Data:       model.ToResponses(authors, h.translator(c)),
		Pagination: model.NewPaginationMeta(normalized, total),
	}

	response.Success(c, http.StatusOK, "Success", res)
}

// ════════════════════════════════════════════════════════════════
// UPDATE: PUT /api/v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	var req model.UpdateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	a, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Update author successfully", a.ToResponse(h.translator(c)))
}

// ════════════════════════════════════════════════════════════════
// DELETE: DELETE /api/v1/authors/:id
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Delete author successfully", nil)
}

// ════════════════════════════════════════════════════════════════
// BULK: DELETE /api/v1/authors/bulk
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) BulkDelete(c *gin.Context) {
	var req model.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if len(req.IDs) == 0 {
		response.Error(c, http.StatusBadRequest, "Bad Request", "IDs cannot be empty")
		return
	}

	successCount, bulkErrors, err := h.service.BulkDelete(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	res := model.BulkDeleteResponse{
		SuccessCount: successCount,
		FailedCount:  len(bulkErrors),
		Errors:       bulkErrors,
	}

	response.Success(c, http.StatusOK, "Bulk delete completed", res)
}

// ════════════════════════════════════════════════════════════════
// IMPORT: POST /api/v1/authors/import (multipart, field "file")
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Import(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Bad Request", "file is required")
		return
	}
	if file.Size > maxImportFileSize {
		response.Error(c, http.StatusRequestEntityTooLarge, "Payload Too Large",
			fmt.Sprintf("file exceeds %d bytes", maxImportFileSize))
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".csv") {
		response.Error(c, http.StatusBadRequest, "Bad Request", "only .csv files are accepted")
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Bad Request", "failed to open file")
		return
	}
	defer src.Close()

	log.Info().
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Msg("Author import requested")

	result, err := h.service.Import(c.Request.Context(), src)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if !result.Success {
		response.Error(c, http.StatusUnprocessableEntity, "Import failed", result)
		return
	}

	result.CreatedAuthors = model.ToResponses(result.Created, h.translator(c))
	response.Success(c, http.StatusCreated, "Import authors successfully", result)
}

// ════════════════════════════════════════════════════════════════
// EXPORT: GET /api/v1/authors/export (same query as the list)
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) Export(c *gin.Context) {
	filter, err := h.bindFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	f, err := h.service.Export(c.Request.Context(), filter, h.translator(c))
	if err != nil {
		h.handleError(c, err)
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("authors_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, fileName))

	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to write export workbook")
		_ = c.Error(err)
	}
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

func (h *AuthorHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.handleError(c, fmt.Errorf("%w: %q", model.ErrInvalidID, c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

// bindFilter reads list query parameters. Malformed numbers fall back to
// the defaults; the service applies the clamps.
func (h *AuthorHandler) bindFilter(c *gin.Context) (model.AuthorFilter, error) {
	filter := model.AuthorFilter{
		SortBy: c.Query("sort_by"),
		Order:  c.Query("order"),
		Search: c.Query("search"),
	}
	if l, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = l
	}
	if o, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = o
	}

	// fail fast on a bad sort column
	if _, err := model.NormalizeFilter(filter); err != nil {
		return filter, err
	}
	return filter, nil
}

// translator picks ?locale=, then the first supported Accept-Language
// tag, then the handler default.
func (h *AuthorHandler) translator(c *gin.Context) locales.Translator {
	if loc := c.Query("locale"); model.SupportedLocale(loc) {
		return model.Translator(loc)
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if model.SupportedLocale(tag) {
			return model.Translator(tag)
		}
		if base, _, found := strings.Cut(tag, "-"); found && model.SupportedLocale(base) {
			return model.Translator(base)
		}
	}
	return model.Translator(h.defaultLocale)
}

func (h *AuthorHandler) handleError(c *gin.Context, err error) {
	status := model.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("author request failed")
	}

	var verr *model.ValidationError
	message := http.StatusText(status)
	if errors.As(err, &verr) {
		message = "Validation failed"
	}
	response.Error(c, status, message, model.ToErrorResponse(err))
}
