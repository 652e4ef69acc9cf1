package echoapi

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pujaripavansai28/LMS/core"
	"github.com/pujaripavansai28/LMS/core/assignment"
)

var orderingParam = "ordering"

// Ordering binds `?ordering=name,-created_at` (a leading "-" sorts descending).
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}
	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

// paramID parses the path parameter `name`; a malformed id cannot match any resource.
func paramID(ctx echo.Context, name, resource string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewNotFoundError(resource)
	}
	return id, nil
}

// formUpload returns the file sent in the multipart field `field`, nil when there is none.
// The returned close func must be called once the upload has been consumed.
func formUpload(ctx echo.Context, field string) (*assignment.Upload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, noop, nil
	}
	fh, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, core.NewFieldError(field, "could not read the uploaded file")
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*assignment.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, errors.Wrap(err, "opening uploaded file")
	}
	return &assignment.Upload{Filename: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
