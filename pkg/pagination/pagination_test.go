package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, url string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "/patients")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected defaults %d/0, got %d/%d", DefaultLimit, p.Limit, p.Offset)
	}
}

func TestFromContext_ClampsLimit(t *testing.T) {
	p := paramsFor(t, "/patients?limit=5000&offset=40")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}
	if p.Offset != 40 {
		t.Errorf("expected offset 40, got %d", p.Offset)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	r := NewResponse(nil, 50, 20, 0)
	if !r.HasMore {
		t.Error("expected has_more for first page of 50")
	}
	r = NewResponse(nil, 50, 20, 40)
	if r.HasMore {
		t.Error("expected no more after last page")
	}
}
