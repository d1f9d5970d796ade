package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Mapping ties a sentinel error to the status and message sent for it
type Mapping struct {
	Err     error
	Status  int
	Message string
}

// Mapper resolves errors to responses through an ordered table. The first
// mapping whose Err matches with errors.Is wins.
type Mapper struct {
	mappings []Mapping
}

func NewMapper(mappings ...Mapping) *Mapper {
	return &Mapper{mappings: mappings}
}

// Lookup returns the mapping for err. Unknown errors map to 500.
func (m *Mapper) Lookup(err error) Mapping {
	for _, mp := range m.mappings {
		if errors.Is(err, mp.Err) {
			return mp
		}
	}
	return Mapping{Err: err, Status: http.StatusInternalServerError}
}

// Abort writes the response for err. Internal errors are logged and their
// text is not sent to the caller.
func (m *Mapper) Abort(c *gin.Context, err error) {
	mp := m.Lookup(err)
	if mp.Status >= http.StatusInternalServerError {
		slog.Error("Request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		Error(c, mp.Status, mp.Message, "")
		return
	}
	Error(c, mp.Status, mp.Message, err.Error())
}
