package seed_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	seedhttp "github.com/MrJamesThe3rd/salesboard/internal/http/seed"
	"github.com/MrJamesThe3rd/salesboard/internal/seed"
	"github.com/MrJamesThe3rd/salesboard/internal/transaction"
)

const document = `[{"title":"Ring","description":"gold","price":120.5,"category":"jewelery","sold":true,"dateOfSale":"2022-03-27T20:29:54+05:30"}]`

func newRouter(t *testing.T, upstream string) (http.Handler, *transaction.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := transaction.NewMockRepository(ctrl)

	loader := seed.NewLoader(upstream, time.Second, transaction.NewService(repo))

	router := chi.NewRouter()
	router.Route("/api/seed", seedhttp.NewHandler(loader).Routes)

	return router, repo
}

func multipartBody(t *testing.T, field, name, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)

	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHandler_Upload(t *testing.T) {
	type testCase struct {
		name      string
		field     string
		content   string
		setupMock func(m *transaction.MockRepository)
		wantCode  int
		wantBody  string
	}

	tests := []testCase{
		{
			name:    "Success",
			field:   "file",
			content: document,
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().ReplaceTransactions(gomock.Any(), gomock.Len(1)).Return(nil)
			},
			wantCode: http.StatusCreated,
			wantBody: `{"imported":1}`,
		},
		{
			name:      "MissingFile",
			field:     "other",
			content:   document,
			setupMock: func(_ *transaction.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "InvalidDocument",
			field:     "file",
			content:   `[{"title":"Ring"}]`,
			setupMock: func(_ *transaction.MockRepository) {},
			wantCode:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, repo := newRouter(t, "")
			tt.setupMock(repo)

			body, contentType := multipartBody(t, tt.field, "seed.json", tt.content)

			req := httptest.NewRequest(http.MethodPost, "/api/seed/upload", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_Reload(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(document))
	}))
	t.Cleanup(upstream.Close)

	router, repo := newRouter(t, upstream.URL)
	repo.EXPECT().ReplaceTransactions(gomock.Any(), gomock.Len(1)).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seed", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"imported":1}`, rec.Body.String())
}

func TestHandler_Reload_UpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(upstream.Close)

	router, _ := newRouter(t, upstream.URL)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/seed", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
