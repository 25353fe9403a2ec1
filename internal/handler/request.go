package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-adoption/internal/application"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/photo"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/domain/principal"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/middleware"
	"github.com/Kilat-Pet-Delivery/service-adoption/internal/platform/response"
)

// photoField is the multipart field carrying image files.
const photoField = "photos"

// maxMultipartMemory bounds the in-memory part of a parsed multipart form.
const maxMultipartMemory = photo.MaxFilesPerRequest*photo.MaxFileSize + 1<<20

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), gin.MIMEMultipartPOSTForm)
}

// bindPetRequest binds a JSON or multipart body into req and returns any uploaded photos.
func bindPetRequest(c *gin.Context, req any) ([]*photo.Upload, bool) {
	if !isMultipart(c) {
		if err := c.ShouldBindJSON(req); err != nil {
			response.BadRequest(c, err.Error())
			return nil, false
		}
		return nil, true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxMultipartMemory)
	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(c, "invalid multipart form")
		return nil, false
	}
	if err := c.ShouldBind(req); err != nil {
		response.BadRequest(c, err.Error())
		return nil, false
	}

	uploads, err := readUploads(c)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return uploads, true
}

func readUploads(c *gin.Context) ([]*photo.Upload, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}
	files := c.Request.MultipartForm.File[photoField]
	if err := photo.ValidateBatch(len(files)); err != nil {
		return nil, err
	}

	uploads := make([]*photo.Upload, 0, len(files))
	for _, fh := range files {
		if fh.Size > photo.MaxFileSize {
			return nil, domain.NewValidationError(fmt.Sprintf("photo %s exceeds the %d byte limit", fh.Filename, photo.MaxFileSize))
		}
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open upload: %w", err)
		}
		data, err := io.ReadAll(io.LimitReader(f, photo.MaxFileSize+1))
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read upload: %w", err)
		}

		u, err := photo.NewUpload(fh.Filename, fh.Header.Get("Content-Type"), data)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// parseListQuery reads page, limit and the optional filters. An isAvailable
// value that is not a boolean is ignored.
func parseListQuery(c *gin.Context) application.ListPetsQuery {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(domain.DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(domain.DefaultLimit)))

	q := application.ListPetsQuery{
		Page:    page,
		Limit:   limit,
		Species: c.Query("species"),
		Size:    c.Query("size"),
		Gender:  c.Query("gender"),
	}
	if raw, ok := c.GetQuery("isAvailable"); ok {
		if v, err := strconv.ParseBool(raw); err == nil {
			q.IsAvailable = &v
		}
	}
	return q
}

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		response.BadRequest(c, "invalid pet ID")
		return uuid.Nil, false
	}
	return id, true
}

func mustPrincipal(c *gin.Context) (principal.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "unauthorized")
	}
	return p, ok
}
