package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sahajlabs/exam-admin-gateway/internal/dto"
	"github.com/sahajlabs/exam-admin-gateway/internal/models"
	appErrors "github.com/sahajlabs/exam-admin-gateway/pkg/errors"
)

func listParams(c *gin.Context) models.ListParams {
	var params models.ListParams
	params.Search = strings.TrimSpace(c.Query("search"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		params.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		params.PageSize = size
	}
	params.SortBy = c.Query("sort")
	params.SortOrder = c.Query("order")
	return params
}

// selections reads the hierarchy filter ids off the query string. Absent or
// malformed values mean "all" at that level; contradictory combinations are
// sanitized by the service.
func selections(c *gin.Context) dto.Selections {
	return dto.Selections{
		ClassID:   queryID(c, "class_id"),
		StreamID:  queryID(c, "stream_id"),
		SubjectID: queryID(c, "subject_id"),
		ChapterID: queryID(c, "chapter_id"),
	}
}

func queryID(c *gin.Context, name string) int64 {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}
