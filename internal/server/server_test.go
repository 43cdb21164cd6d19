package server_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/mercato-app/mercato/internal/auth"
	"github.com/mercato-app/mercato/internal/config"
	"github.com/mercato-app/mercato/internal/media"
	"github.com/mercato-app/mercato/internal/products"
	"github.com/mercato-app/mercato/internal/server"
)

type testLogger struct{}

func (testLogger) Debug(msg string, args ...any) {}
func (testLogger) Info(msg string, args ...any)  {}
func (testLogger) Warn(msg string, args ...any)  {}
func (testLogger) Error(msg string, args ...any) {}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	err = db.ResetModel(context.Background(), (*auth.User)(nil), (*products.Product)(nil))
	require.NoError(t, err)

	cfg := config.LoadDefaults()
	cfg.UploadDir = t.TempDir()

	repo := auth.NewRepositoryManager(db)
	auther := auth.NewAuthenticator(repo, cfg)

	images, err := media.NewDiskStore(cfg.UploadDir)
	require.NoError(t, err)

	catalog := products.NewService(db, images)

	srv := server.New(cfg, auther, catalog, testLogger{})
	return srv.App()
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]any {
	t.Helper()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func signup(t *testing.T, app *fiber.App, name, email, password string) {
	t.Helper()

	res := doJSON(t, app, http.MethodPost, "/auth/signup", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, res.StatusCode)
}

func login(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	res := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	return token
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody(t *testing.T) *multipartBody {
	m := &multipartBody{}
	m.writer = multipart.NewWriter(&m.buf)
	return m
}

func (m *multipartBody) field(t *testing.T, name, value string) *multipartBody {
	t.Helper()
	require.NoError(t, m.writer.WriteField(name, value))
	return m
}

func (m *multipartBody) file(t *testing.T, field, name, content string) *multipartBody {
	t.Helper()
	w, err := m.writer.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	return m
}

func (m *multipartBody) request(t *testing.T, method, target, token string) *http.Request {
	t.Helper()
	require.NoError(t, m.writer.Close())

	req := httptest.NewRequest(method, target, &m.buf)
	req.Header.Set(fiber.HeaderContentType, m.writer.FormDataContentType())
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return req
}
