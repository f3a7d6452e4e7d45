package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/fundhouse/internal/config"
	"github.com/fundhouse/internal/db"
	"github.com/fundhouse/internal/handler"
	"github.com/fundhouse/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testBaseURL  = "http://example.test"
	testUser     = "admin"
	testPassword = "e2e-secret"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	resp.Request = req
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

type testEnv struct {
	engine    *gin.Engine
	public    httpClient
	admin     httpClient
	uploadDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "-", " ", "-").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s-%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := db.EnsureUser(gdb, testUser, testPassword); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	uploadDir := t.TempDir()
	cfg := config.AppConfig{
		SessionSecret:  "test-session-secret",
		SessionName:    "fundhouse_session",
		SessionMaxAge:  3600,
		GinMode:        gin.TestMode,
		UploadDir:      uploadDir,
		UploadURLPath:  "/static/uploads",
		MaxUploadBytes: 1 << 20,
	}
	store := storage.NewFileStore(cfg.UploadDir, cfg.UploadURLPath, cfg.MaxUploadBytes)
	engine, err := SetupRouter(cfg, handler.NewAPI(gdb, store, nil), nil)
	if err != nil {
		t.Fatalf("failed to set up router: %v", err)
	}

	return &testEnv{
		engine:    engine,
		public:    newLocalClient(engine, false),
		admin:     newLocalClient(engine, true),
		uploadDir: uploadDir,
	}
}

func (e *testEnv) login(t *testing.T) {
	t.Helper()
	resp := e.requestJSON(t, e.admin, http.MethodPost, "/admin/api/login", map[string]interface{}{
		"username": testUser,
		"password": testPassword,
	})
	expectStatus(t, resp, http.StatusOK)
}

func (e *testEnv) request(t *testing.T, client httpClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, testBaseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (e *testEnv) requestJSON(t *testing.T, client httpClient, method, path string, payload interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return e.request(t, client, method, path, bytes.NewReader(data), map[string]string{"Content-Type": "application/json"})
}

func (e *testEnv) get(t *testing.T, client httpClient, path string) *http.Response {
	t.Helper()
	return e.request(t, client, http.MethodGet, path, nil, nil)
}

func (e *testEnv) upload(t *testing.T, method, path, field, filename string, content []byte, fields map[string]string) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed to write field %s: %v", key, err)
		}
	}
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return e.request(t, e.admin, method, path, body, map[string]string{"Content-Type": writer.FormDataContentType()})
}

func expectStatus(t *testing.T, resp *http.Response, want int) string {
	t.Helper()
	body := readBody(t, resp)
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected status %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, body)
	}
	return body
}

func decodeInto(t *testing.T, body string, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")
}

func idStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

type idPayload struct {
	ID   uint   `json:"id"`
	Slug string `json:"slug"`
}

func (e *testEnv) createFund(t *testing.T, name, code, category string) idPayload {
	t.Helper()
	resp := e.requestJSON(t, e.admin, http.MethodPost, "/admin/api/funds", map[string]interface{}{
		"name":          name,
		"code":          code,
		"category":      category,
		"managementFee": "1.25",
	})
	body := expectStatus(t, resp, http.StatusCreated)
	var payload struct {
		Fund idPayload `json:"fund"`
	}
	decodeInto(t, body, &payload)
	return payload.Fund
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	body := expectStatus(t, env.get(t, env.public, "/healthz"), http.StatusOK)
	if !strings.Contains(body, `"status":"ok"`) {
		t.Fatalf("healthz: unexpected body %q", body)
	}

	body = expectStatus(t, env.get(t, env.public, "/metrics"), http.StatusOK)
	if !strings.Contains(body, "fundhouse_http_requests_total") {
		t.Fatalf("metrics: expected request counter, got %q", body)
	}
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	env := newTestEnv(t)

	expectStatus(t, env.get(t, env.admin, "/admin/api/me"), http.StatusUnauthorized)
	expectStatus(t, env.get(t, env.admin, "/admin/api/dashboard"), http.StatusUnauthorized)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/funds", map[string]string{"name": "X"}), http.StatusUnauthorized)
	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/news/1", nil, nil), http.StatusUnauthorized)

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/login", map[string]string{
		"username": testUser,
		"password": "wrong",
	}), http.StatusUnauthorized)

	env.login(t)
	body := expectStatus(t, env.get(t, env.admin, "/admin/api/me"), http.StatusOK)
	if !strings.Contains(body, `"username":"admin"`) {
		t.Fatalf("me: unexpected body %q", body)
	}
	expectStatus(t, env.get(t, env.admin, "/admin/api/dashboard"), http.StatusOK)

	expectStatus(t, env.request(t, env.admin, http.MethodPost, "/admin/api/logout", nil, nil), http.StatusOK)
	expectStatus(t, env.get(t, env.admin, "/admin/api/dashboard"), http.StatusUnauthorized)
}

func TestFundAndPriceFlow(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	money := env.createFund(t, "Money Market Fund", "MMF", "money_market")
	equity := env.createFund(t, "Growth Equity Fund", "GEF", "equity")
	if money.Slug != "money-market-fund" {
		t.Fatalf("unexpected slug %q", money.Slug)
	}

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/funds", map[string]interface{}{
		"name": "Money Market Fund", "code": "MMF2", "category": "money_market",
	}), http.StatusConflict)

	body := expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/funds", map[string]interface{}{
		"name": "Broken", "code": "BRK", "category": "equity", "managementFee": "-1",
	}), http.StatusBadRequest)
	if !strings.Contains(body, `"managementFee":"decimal_nonneg"`) {
		t.Fatalf("expected field error for managementFee, got %s", body)
	}
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/funds", map[string]interface{}{
		"name": "Unknown", "code": "UNK", "category": "crypto",
	}), http.StatusBadRequest)

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/fund-prices", map[string]interface{}{
		"fundId": money.ID, "priceDate": "2025-03-03", "nav": "10.1000", "buyPrice": "10.2", "sellPrice": "10.0",
	}), http.StatusCreated)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/fund-prices", map[string]interface{}{
		"fundId": money.ID, "priceDate": "2025-03-03", "nav": "10.2",
	}), http.StatusConflict)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/fund-prices", map[string]interface{}{
		"fundId": 9999, "priceDate": "2025-03-03", "nav": "10.2",
	}), http.StatusBadRequest)

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/fund-prices/batch", map[string]interface{}{
		"priceDate": "2025-03-04",
		"prices": []map[string]interface{}{
			{"fundId": money.ID, "nav": "10.15", "buyPrice": "10.25", "sellPrice": "10.05"},
			{"fundId": 9999, "nav": "20"},
		},
	}), http.StatusBadRequest)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/fund-prices/batch", map[string]interface{}{
		"priceDate": "2025-03-04",
		"prices": []map[string]interface{}{
			{"fundId": money.ID, "nav": "10.15", "buyPrice": "10.25", "sellPrice": "10.05"},
			{"fundId": equity.ID, "nav": "20.5", "buyPrice": "21", "sellPrice": "20"},
		},
	}), http.StatusCreated)

	body = expectStatus(t, env.get(t, env.public, "/api/fund-prices/latest"), http.StatusOK)
	var latest struct {
		Prices []struct {
			FundID    uint      `json:"fundId"`
			PriceDate time.Time `json:"priceDate"`
		} `json:"prices"`
	}
	decodeInto(t, body, &latest)
	if len(latest.Prices) != 2 {
		t.Fatalf("expected one latest price per fund, got %+v", latest.Prices)
	}
	for _, price := range latest.Prices {
		if price.PriceDate.Format("2006-01-02") != "2025-03-04" {
			t.Fatalf("expected newest date for fund %d, got %v", price.FundID, price.PriceDate)
		}
	}

	body = expectStatus(t, env.get(t, env.public, "/api/funds/money-market-fund/prices?perPage=1"), http.StatusOK)
	var history struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"totalPages"`
		Items      []struct {
			PriceDate time.Time `json:"priceDate"`
		} `json:"items"`
	}
	decodeInto(t, body, &history)
	if history.Total != 2 || history.TotalPages != 2 || len(history.Items) != 1 {
		t.Fatalf("unexpected price history page %+v", history)
	}

	body = expectStatus(t, env.get(t, env.public, "/api/funds"), http.StatusOK)
	if !strings.Contains(body, `"latestPrice"`) || !strings.Contains(body, `"slug":"growth-equity-fund"`) {
		t.Fatalf("expected public funds with latest price, got %s", body)
	}
	expectStatus(t, env.get(t, env.public, "/api/funds/no-such-fund"), http.StatusNotFound)

	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/funds/"+idStr(money.ID), nil, nil), http.StatusConflict)
	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/fund-prices/99999", nil, nil), http.StatusNotFound)
}

func TestReportUploadFlow(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	fund := env.createFund(t, "Income Fund", "INC", "income")

	expectStatus(t, env.upload(t, http.MethodPost, "/admin/api/reports", "file", "notes.pdf", []byte("just text"), map[string]string{
		"title": "Fake",
	}), http.StatusUnsupportedMediaType)

	body := expectStatus(t, env.upload(t, http.MethodPost, "/admin/api/reports", "file", "annual.pdf", pdfBytes(), map[string]string{
		"fundId":     idStr(fund.ID),
		"title":      "Annual Report 2024",
		"reportType": "annual",
		"year":       "2024",
	}), http.StatusCreated)
	var created struct {
		Report struct {
			ID      uint   `json:"id"`
			FileURL string `json:"fileUrl"`
		} `json:"report"`
	}
	decodeInto(t, body, &created)
	if !strings.HasPrefix(created.Report.FileURL, "/static/uploads/reports/") {
		t.Fatalf("unexpected file url %q", created.Report.FileURL)
	}

	served := expectStatus(t, env.get(t, env.public, created.Report.FileURL), http.StatusOK)
	if !strings.HasPrefix(served, "%PDF") {
		t.Fatalf("expected stored pdf to be served")
	}

	body = expectStatus(t, env.get(t, env.public, "/api/fund-reports?fundId="+idStr(fund.ID)), http.StatusOK)
	if !strings.Contains(body, `"total":1`) {
		t.Fatalf("expected one report, got %s", body)
	}

	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/reports/"+idStr(created.Report.ID), nil, nil), http.StatusOK)
	expectStatus(t, env.get(t, env.public, created.Report.FileURL), http.StatusNotFound)
	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/reports/"+idStr(created.Report.ID), nil, nil), http.StatusNotFound)
}

func TestReportDeleteSucceedsWhenFileCleanupFails(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	body := expectStatus(t, env.upload(t, http.MethodPost, "/admin/api/reports", "file", "annual.pdf", pdfBytes(), map[string]string{
		"title": "Company Annual Report",
	}), http.StatusCreated)
	var created struct {
		Report struct {
			ID      uint   `json:"id"`
			FileURL string `json:"fileUrl"`
		} `json:"report"`
	}
	decodeInto(t, body, &created)

	// a non-empty directory in place of the file makes removal fail
	stored := filepath.Join(env.uploadDir, filepath.FromSlash(strings.TrimPrefix(created.Report.FileURL, "/static/uploads/")))
	if err := os.Remove(stored); err != nil {
		t.Fatalf("failed to remove stored file: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(stored, "keep"), 0o755); err != nil {
		t.Fatalf("failed to create blocking dir: %v", err)
	}

	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/reports/"+idStr(created.Report.ID), nil, nil), http.StatusOK)
	expectStatus(t, env.get(t, env.admin, "/admin/api/reports/"+idStr(created.Report.ID)), http.StatusNotFound)
}

func TestSnapshotEndpoints(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)
	money := env.createFund(t, "Money Market Fund", "MMF", "money_market")
	equity := env.createFund(t, "Equity Fund", "EQF", "equity")

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/snapshots/money-market", map[string]interface{}{
		"fundId": money.ID, "month": "2025-01", "annualizedYield": "9.1", "fundSize": "1000000",
		"cashAndDeposits": "40", "governmentSecurities": "60",
	}), http.StatusCreated)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/snapshots/money-market", map[string]interface{}{
		"fundId": money.ID, "month": "2025-01", "annualizedYield": "9.2",
	}), http.StatusConflict)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/snapshots/money-market", map[string]interface{}{
		"fundId": equity.ID, "month": "2025-02", "annualizedYield": "9.2",
	}), http.StatusBadRequest)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/snapshots/money-market", map[string]interface{}{
		"fundId": money.ID, "month": "January 2025",
	}), http.StatusBadRequest)

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/snapshots/equity", map[string]interface{}{
		"fundId": equity.ID, "month": "2024-12", "navPerUnit": "15.2", "fundSize": "300000",
		"topHoldings":      []map[string]string{{"name": "Bank A", "weight": "10"}},
		"sectorAllocation": []map[string]string{{"sector": "Banking", "weight": "35"}},
	}), http.StatusCreated)

	body := expectStatus(t, env.get(t, env.public, "/api/snapshots/equity?year=2024"), http.StatusOK)
	if !strings.Contains(body, `"total":1`) || !strings.Contains(body, `"name":"Bank A"`) {
		t.Fatalf("unexpected equity snapshots %s", body)
	}
	body = expectStatus(t, env.get(t, env.public, "/api/snapshots/money-market?year=2024"), http.StatusOK)
	if !strings.Contains(body, `"total":0`) {
		t.Fatalf("expected no 2024 money market snapshots, got %s", body)
	}
}

func TestTeamBranchAndContactFlow(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/team", map[string]interface{}{
		"name": "Jane Perera", "position": "Chief Executive Officer", "group": "management",
	}), http.StatusCreated)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/team", map[string]interface{}{
		"name": "Hidden", "position": "Director", "group": "board", "isActive": false,
	}), http.StatusCreated)
	body := expectStatus(t, env.get(t, env.public, "/api/team"), http.StatusOK)
	if !strings.Contains(body, "Jane Perera") || strings.Contains(body, "Hidden") {
		t.Fatalf("unexpected public team %s", body)
	}

	body = expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/branches", map[string]interface{}{
		"name": "Head Office", "city": "Colombo", "email": "head@example.com",
	}), http.StatusCreated)
	var branch struct {
		Branch idPayload `json:"branch"`
	}
	decodeInto(t, body, &branch)
	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/branches", map[string]interface{}{
		"name": "Head Office",
	}), http.StatusConflict)

	expectStatus(t, env.requestJSON(t, env.public, http.MethodPost, "/api/contact-messages", map[string]interface{}{
		"name": "Visitor", "email": "visitor@example.com", "message": "Please call me", "branchId": 4242,
	}), http.StatusBadRequest)
	body = expectStatus(t, env.requestJSON(t, env.public, http.MethodPost, "/api/contact-messages", map[string]interface{}{
		"name": "Visitor", "email": "visitor@example.com", "message": "<b>Please</b> call me", "branchId": branch.Branch.ID,
	}), http.StatusCreated)
	var submitted struct {
		ID uint `json:"id"`
	}
	decodeInto(t, body, &submitted)

	body = expectStatus(t, env.get(t, env.admin, "/admin/api/contact-messages?unread=true"), http.StatusOK)
	if !strings.Contains(body, `"total":1`) || !strings.Contains(body, `"message":"Please call me"`) {
		t.Fatalf("unexpected inbox %s", body)
	}
	expectStatus(t, env.request(t, env.admin, http.MethodPut, "/admin/api/contact-messages/"+idStr(submitted.ID)+"/read", nil, nil), http.StatusOK)
	body = expectStatus(t, env.get(t, env.admin, "/admin/api/contact-messages?unread=true"), http.StatusOK)
	if !strings.Contains(body, `"total":0`) {
		t.Fatalf("expected empty unread inbox, got %s", body)
	}

	expectStatus(t, env.requestJSON(t, env.admin, http.MethodPut, "/admin/api/contact-settings", map[string]string{
		"phone": "+94 11 234 5678", "email": "info@example.com",
	}), http.StatusOK)
	body = expectStatus(t, env.get(t, env.public, "/api/contact-settings"), http.StatusOK)
	if !strings.Contains(body, `"phone":"+94 11 234 5678"`) {
		t.Fatalf("unexpected contact settings %s", body)
	}
}

func TestNewsFlow(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	body := expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/news", map[string]interface{}{
		"title": "Fund Launch", "content": "We launched a **new** fund.", "status": "published",
	}), http.StatusCreated)
	var created struct {
		Post idPayload `json:"post"`
	}
	decodeInto(t, body, &created)
	if created.Post.Slug != "fund-launch" {
		t.Fatalf("unexpected slug %q", created.Post.Slug)
	}

	body = expectStatus(t, env.upload(t, http.MethodPost, "/admin/api/news/"+idStr(created.Post.ID)+"/images", "image", "photo.png", pngBytes(t, 8, 4), map[string]string{
		"caption": "Launch day",
	}), http.StatusCreated)
	var uploaded struct {
		Image struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"image"`
	}
	decodeInto(t, body, &uploaded)
	if uploaded.Image.Width != 8 || uploaded.Image.Height != 4 {
		t.Fatalf("unexpected image dimensions %+v", uploaded.Image)
	}

	body = expectStatus(t, env.get(t, env.public, "/api/news"), http.StatusOK)
	if !strings.Contains(body, `"total":1`) {
		t.Fatalf("expected one published post, got %s", body)
	}
	body = expectStatus(t, env.get(t, env.public, "/api/news/fund-launch"), http.StatusOK)
	var detail struct {
		Post struct {
			ContentHTML string `json:"contentHtml"`
		} `json:"post"`
	}
	decodeInto(t, body, &detail)
	if !strings.Contains(detail.Post.ContentHTML, "<strong>new</strong>") {
		t.Fatalf("expected rendered html, got %q", detail.Post.ContentHTML)
	}

	expectStatus(t, env.request(t, env.admin, http.MethodDelete, "/admin/api/news/"+idStr(created.Post.ID), nil, nil), http.StatusOK)
	expectStatus(t, env.get(t, env.public, "/api/news/fund-launch"), http.StatusNotFound)
	expectStatus(t, env.get(t, env.public, uploaded.Image.URL), http.StatusNotFound)

	body = expectStatus(t, env.requestJSON(t, env.admin, http.MethodPost, "/admin/api/news", map[string]interface{}{
		"title": "Fund Launch", "content": "Second time.",
	}), http.StatusCreated)
	if !strings.Contains(body, `"slug":"fund-launch-2"`) {
		t.Fatalf("expected de-duplicated slug, got %s", body)
	}
}

func TestGenericImageUpload(t *testing.T) {
	env := newTestEnv(t)
	env.login(t)

	body := expectStatus(t, env.upload(t, http.MethodPost, "/admin/api/uploads/image", "image", "team.png", pngBytes(t, 3, 5), nil), http.StatusCreated)
	var payload struct {
		URL    string `json:"url"`
		Width  int    `json:"width"`
		Height int    `json:"height"`
	}
	decodeInto(t, body, &payload)
	if !strings.HasPrefix(payload.URL, "/static/uploads/images/") || payload.Width != 3 || payload.Height != 5 {
		t.Fatalf("unexpected upload payload %+v", payload)
	}
	expectStatus(t, env.get(t, env.public, payload.URL), http.StatusOK)

	expectStatus(t, env.upload(t, http.MethodPost, "/admin/api/uploads/image", "image", "fake.png", []byte("not an image"), nil), http.StatusUnsupportedMediaType)
}
