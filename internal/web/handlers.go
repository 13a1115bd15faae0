package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"todo/internal/domain"
	"todo/internal/errors"
	"todo/internal/export"
	"todo/internal/logging"
	"todo/internal/query"
	"todo/internal/validation"
)

const maxBodySize = 1 << 20 // 1MB

var idValidator = validation.NewTaskValidator()

type listResponse struct {
	Tasks []query.View `json:"tasks"`
	Shown int          `json:"shown"`
	Total int          `json:"total"`
}

type taskResponse struct {
	Task query.View `json:"task"`
}

type errorResponse struct {
	Error  string                  `json:"error"`
	Code   string                  `json:"code"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func (s *Server) params(c *gin.Context) (query.Params, error) {
	return query.ParseParams(c.Query("status"), c.Query("due"), c.Query("sort"), c.Query("q"))
}

func (s *Server) handleList(c *gin.Context) {
	p, err := s.params(c)
	if err != nil {
		writeError(c, err)
		return
	}

	now := s.now()
	tasks, counts := s.projector.Project(p, now)
	c.JSON(http.StatusOK, listResponse{
		Tasks: query.Views(tasks, now),
		Shown: counts.Shown,
		Total: counts.Total,
	})
}

func (s *Server) handleGet(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := s.store.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	s.writeTask(c, http.StatusOK, task)
}

func (s *Server) handleCreate(c *gin.Context) {
	var in domain.TaskInput
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	if err := c.ShouldBind(&in); err != nil {
		writeError(c, errors.NewInvalidInputError("body", nil, err.Error()))
		return
	}

	tasks, err := s.store.Add(c.Request.Context(), in)
	if err != nil {
		writeError(c, err)
		return
	}
	created := tasks[len(tasks)-1]
	c.Header("Location", fmt.Sprintf("/api/tasks/%d", created.ID))
	s.writeTask(c, http.StatusCreated, created)
}

func (s *Server) handleUpdate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var patch domain.TaskPatch
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeError(c, errors.NewInvalidInputError("body", nil, err.Error()))
		return
	}

	tasks, err := s.store.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	s.writeTask(c, http.StatusOK, tasks[tasks.IndexOf(id)])
}

func (s *Server) handleToggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tasks, err := s.store.ToggleCompleted(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	s.writeTask(c, http.StatusOK, tasks[tasks.IndexOf(id)])
}

func (s *Server) handleDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := s.store.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var exportContentTypes = map[export.Format]string{
	export.FormatCSV:  "text/csv; charset=utf-8",
	export.FormatJSON: "application/json; charset=utf-8",
	export.FormatPDF:  "application/pdf",
}

func (s *Server) handleExport(c *gin.Context) {
	format, err := export.ParseFormat(c.DefaultQuery("format", "csv"))
	if err != nil {
		writeError(c, err)
		return
	}
	p, err := s.params(c)
	if err != nil {
		writeError(c, err)
		return
	}

	report := export.NewReport(s.store.Snapshot(), p, s.now())
	report.FontPath = s.pdfFont
	var buf bytes.Buffer
	if err := export.Write(&buf, format, report); err != nil {
		writeError(c, errors.NewStorageError("render "+string(format)+" export", err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="tasks.%s"`, format))
	c.Data(http.StatusOK, exportContentTypes[format], buf.Bytes())
}

func (s *Server) writeTask(c *gin.Context, status int, t domain.Task) {
	c.JSON(status, taskResponse{Task: query.View{Task: t, Overdue: t.IsOverdue(s.now())}})
}

func parseID(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		err = idValidator.ValidateTaskID(id)
	}
	if err != nil {
		writeError(c, errors.NewInvalidInputError("id", raw, "must be a non-negative integer"))
		return 0, false
	}
	return id, true
}

// writeError maps an error to a status code and a JSON body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	resp := errorResponse{Error: errors.GetUserMessage(err), Code: errors.GetErrorCode(err)}

	if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Type {
		case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
			status = http.StatusBadRequest
		case errors.ErrorTypeNotFound:
			status = http.StatusNotFound
		case errors.ErrorTypeTimeout:
			status = http.StatusGatewayTimeout
		}
		if ve, ok := appErr.Cause.(*validation.ValidationError); ok {
			resp.Fields = ve.Errors
			resp.Error = ve.GetUserFriendlyMessage()
		} else if field, ok := appErr.GetContext("field"); ok && appErr.IsType(errors.ErrorTypeInvalidInput) {
			resp.Fields = []validation.FieldError{{
				Field:   fmt.Sprint(field),
				Type:    validation.ErrorTypeInvalidValue,
				Message: appErr.Message,
			}}
		}
	}
	if errors.ShouldLogError(err) {
		logging.Warnf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, resp)
}
