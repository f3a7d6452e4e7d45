package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type validationProbe struct {
	Slug  string          `json:"slug" binding:"omitempty,slug"`
	Month string          `json:"month" binding:"required,yearmonth"`
	Fee   decimal.Decimal `json:"fee" binding:"decimal_nonneg"`
}

func bindProbe(t *testing.T, body string) (validationProbe, *httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		t.Fatalf("register validators: %v", err)
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/probe", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var probe validationProbe
	ok := bindJSON(c, &probe, "invalid probe")
	return probe, w, ok
}

func TestCustomValidators(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		ok     bool
		fields []string
	}{
		{name: "valid", body: `{"slug":"money-market","month":"2025-01","fee":"1.5"}`, ok: true},
		{name: "numeric decimal", body: `{"month":"2025-12","fee":0.25}`, ok: true},
		{name: "bad slug", body: `{"slug":"Money Market","month":"2025-01"}`, fields: []string{`"slug":"slug"`}},
		{name: "bad month", body: `{"month":"2025-13"}`, fields: []string{`"month":"yearmonth"`}},
		{name: "missing month", body: `{}`, fields: []string{`"month":"required"`}},
		{name: "negative fee", body: `{"month":"2025-01","fee":"-0.01"}`, fields: []string{`"fee":"decimal_nonneg"`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, w, ok := bindProbe(t, tc.body)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v (body %s)", tc.ok, ok, w.Body.String())
			}
			if tc.ok {
				return
			}
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			for _, field := range tc.fields {
				if !strings.Contains(w.Body.String(), field) {
					t.Fatalf("expected %s in %s", field, w.Body.String())
				}
			}
		})
	}
}

func TestBindJSONRejectsMalformedBody(t *testing.T) {
	_, w, ok := bindProbe(t, `{"month":`)
	if ok {
		t.Fatal("expected malformed json to fail")
	}
	if w.Code != http.StatusBadRequest || strings.Contains(w.Body.String(), "fields") {
		t.Fatalf("unexpected response %d %s", w.Code, w.Body.String())
	}
}

func TestParseMonthAndDateUseUTC(t *testing.T) {
	month, err := parseMonth(" 2024-06 ")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	if month.Location().String() != "UTC" || month.Day() != 1 || month.Month() != 6 {
		t.Fatalf("unexpected month %v", month)
	}

	date, err := parseOptionalDate("")
	if err != nil || date != nil {
		t.Fatalf("expected blank date to be nil, got %v %v", date, err)
	}
	if _, err := parseOptionalDate("2024/06/01"); err == nil {
		t.Fatal("expected invalid date to fail")
	}
}

func TestQueryHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=2&perPage=abc&unread=true&fundId=3,4&fundId=x&fundId=7", nil)
	c.Params = gin.Params{{Key: "id", Value: "0"}}

	page, perPage := parsePaging(c)
	if page != 2 || perPage != 0 {
		t.Fatalf("unexpected paging %d/%d", page, perPage)
	}
	if !parseBoolQuery(c, "unread") || parseBoolQuery(c, "missing") {
		t.Fatal("unexpected bool query parsing")
	}
	ids := parseUintQuerySlice(c.QueryArray("fundId"))
	if len(ids) != 3 || ids[0] != 3 || ids[1] != 4 || ids[2] != 7 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if _, err := parseUintParam(c, "id"); err == nil {
		t.Fatal("expected zero id to be rejected")
	}
}
