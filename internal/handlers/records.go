package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"barangay-health-server/internal/models"
	"barangay-health-server/internal/pipeline"
	"barangay-health-server/internal/schema"
	"barangay-health-server/internal/utils"
)

const maxMultipartMemory = 8 << 20

var errNotObject = errors.New("request body must be a JSON object")

// RecordHandler serves the CRUD routes of one record kind.
type RecordHandler[T models.Record] struct {
	Pipeline *pipeline.Pipeline[T]
	Timeout  time.Duration
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler[T models.Record](p *pipeline.Pipeline[T], timeout time.Duration) *RecordHandler[T] {
	return &RecordHandler[T]{Pipeline: p, Timeout: timeout}
}

// Create handles registering a new record.
func (h *RecordHandler[T]) Create(c *gin.Context) {
	f, err := readFields(c)
	if err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, h.Pipeline.Create(ctx, f), http.StatusCreated)
}

// List handles fetching every record of the kind.
func (h *RecordHandler[T]) List(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, h.Pipeline.List(ctx), http.StatusOK)
}

// Get handles fetching a single record by ID.
func (h *RecordHandler[T]) Get(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, h.Pipeline.Get(ctx, c.Param("id")), http.StatusOK)
}

// Update handles replacing a record by ID.
func (h *RecordHandler[T]) Update(c *gin.Context) {
	f, err := readFields(c)
	if err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, h.Pipeline.Update(ctx, c.Param("id"), f), http.StatusOK)
}

// Delete handles removing a record by ID.
func (h *RecordHandler[T]) Delete(c *gin.Context) {
	ctx, cancel := withTimeout(c, h.Timeout)
	defer cancel()
	respond(c, h.Pipeline.Delete(ctx, c.Param("id")), http.StatusOK)
}

// Register mounts the record routes on g.
func (h *RecordHandler[T]) Register(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// respond writes res with okStatus on success, otherwise with the status
// matching its failure reason.
func respond[P any](c *gin.Context, res pipeline.Result[P], okStatus int) {
	if res.OK {
		c.JSON(okStatus, res)
		return
	}
	c.JSON(utils.StatusFor(string(res.Reason)), res)
}

func withTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), d)
}

// readFields turns a JSON, urlencoded or multipart body into the untyped
// field map every record kind decodes from.
func readFields(c *gin.Context) (schema.Fields, error) {
	switch c.ContentType() {
	case binding.MIMEJSON:
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		var raw any
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return schema.Fields{}, nil
			}
			return nil, err
		}
		body, ok := raw.(map[string]any)
		if !ok {
			return nil, errNotObject
		}
		return schema.FromJSON(body), nil
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
			return nil, err
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return nil, err
		}
	}
	return schema.FromValues(c.Request.PostForm), nil
}
