package api

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/effblob/internal/logger"
	"github.com/samcharles93/effblob/internal/version"
	"github.com/samcharles93/effblob/pkg/eff"
)

// DefaultMaxBlobSize caps request bodies.
const DefaultMaxBlobSize = 64 << 20

type Server struct {
	store   *BlobStore
	log     logger.Logger
	clock   func() time.Time
	maxBody int64
}

func NewServer(store *BlobStore, log logger.Logger) *Server {
	if store == nil {
		store = NewBlobStore()
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		store:   store,
		log:     log,
		clock:   time.Now,
		maxBody: DefaultMaxBlobSize,
	}
}

// SetMaxBlobSize overrides DefaultMaxBlobSize. Non-positive values are ignored.
func (s *Server) SetMaxBlobSize(n int64) {
	if n > 0 {
		s.maxBody = n
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/version", s.handleVersion)

	e.POST("/v1/blobs", s.handleCreateBlob)
	e.GET("/v1/blobs", s.handleListBlobs)
	e.GET("/v1/blobs/:id", s.handleGetBlob)
	e.DELETE("/v1/blobs/:id", s.handleDeleteBlob)
	e.GET("/v1/blobs/:id/binary", s.handleBlobBinary)

	e.POST("/v1/convert", s.handleConvert)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"status": "ok", "blobs": s.store.Len()})
}

func (s *Server) handleVersion(c *echo.Context) error {
	return c.JSON(http.StatusOK, version.Resolve())
}

func (s *Server) handleCreateBlob(c *echo.Context) error {
	body, err := s.readBody(c)
	if err != nil {
		return writeCodecError(c, err)
	}
	order, err := orderParam(c, "order", body)
	if err != nil {
		return writeCodecError(c, err)
	}
	container, err := eff.Unmarshal(body, order)
	if err != nil {
		s.log.Warn("rejected blob", "bytes", len(body), "order", order.String(), "err", err)
		return writeCodecError(c, err)
	}
	rec := s.store.Create(container, order, len(body), s.clock())
	s.log.Info("stored blob", "id", rec.ID, "bytes", len(body), "order", order.String())
	return c.JSON(http.StatusCreated, rec.response())
}

func (s *Server) handleListBlobs(c *echo.Context) error {
	recs := s.store.List()
	out := BlobListResponse{Object: "list", Data: make([]BlobResponse, 0, len(recs))}
	for _, rec := range recs {
		out.Data = append(out.Data, rec.response())
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetBlob(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "blob not found")
	}
	return c.JSON(http.StatusOK, rec.response())
}

func (s *Server) handleDeleteBlob(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "blob not found")
	}
	return c.JSON(http.StatusOK, DeleteBlobResponse{ID: id, Object: "blob", Deleted: true})
}

// handleBlobBinary re-encodes a stored blob, in its original byte order
// unless ?order= asks for another.
func (s *Server) handleBlobBinary(c *echo.Context) error {
	rec, ok := s.store.Get(c.Param("id"))
	if !ok {
		return writeNotFound(c, "blob not found")
	}
	order := rec.Order
	if q := c.QueryParam("order"); q != "" {
		o, err := eff.ParseByteOrder(q)
		if err != nil {
			return writeBadRequest(c, err.Error())
		}
		order = o
	}
	out, err := rec.Container.Marshal(order)
	if err != nil {
		return writeCodecError(c, err)
	}
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, out)
}

// handleConvert decodes the body with ?from= (or detection) and returns it
// encoded with ?to=. Nothing is stored.
func (s *Server) handleConvert(c *echo.Context) error {
	body, err := s.readBody(c)
	if err != nil {
		return writeCodecError(c, err)
	}
	from, err := orderParam(c, "from", body)
	if err != nil {
		return writeCodecError(c, err)
	}
	to, err := eff.ParseByteOrder(c.QueryParam("to"))
	if err != nil {
		return writeBadRequest(c, fmt.Sprintf("to: %v", err))
	}
	container, err := eff.Unmarshal(body, from)
	if err != nil {
		return writeCodecError(c, err)
	}
	out, err := container.Marshal(to)
	if err != nil {
		return writeCodecError(c, err)
	}
	s.log.Debug("converted blob", "bytes", len(body), "from", from.String(), "to", to.String())
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, out)
}

func (s *Server) readBody(c *echo.Context) ([]byte, error) {
	r := c.Request().Body
	if r == nil {
		return nil, newInvalidRequest("empty body")
	}
	var buf bytes.Buffer
	n, err := buf.ReadFrom(io.LimitReader(r, s.maxBody+1))
	if err != nil {
		return nil, newInvalidRequest(fmt.Sprintf("read body: %v", err))
	}
	if n > s.maxBody {
		return nil, newInvalidRequest(fmt.Sprintf("body exceeds %d bytes", s.maxBody))
	}
	if n == 0 {
		return nil, newInvalidRequest("empty body")
	}
	return buf.Bytes(), nil
}

// orderParam reads a byte order query parameter. Missing or "auto" detects
// the order from the blob header.
func orderParam(c *echo.Context, name string, body []byte) (eff.ByteOrder, error) {
	q := c.QueryParam(name)
	if q == "" || q == "auto" {
		o, err := eff.DetectByteOrder(body)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return o, nil
	}
	o, err := eff.ParseByteOrder(q)
	if err != nil {
		return 0, newInvalidRequest(fmt.Sprintf("%s: %v", name, err))
	}
	return o, nil
}
