package api

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/gesture"
)

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

const smilingBody = `{"box":{"x":0.2,"y":0.3,"width":0.4,"height":0.5},"points":[
	{"x":0.0,"y":0.4},{"x":0.25,"y":0.45},{"x":0.5,"y":0.5},{"x":0.75,"y":0.45},
	{"x":1.0,"y":0.4},{"x":0.75,"y":0.65},{"x":0.5,"y":0.7},{"x":0.25,"y":0.65}]}`

func TestExpressionHandler(t *testing.T) {
	h := NewExpressionHandler()

	t.Run("smiling", func(t *testing.T) {
		rec := post(t, h, "/api/classify/expression", smilingBody)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp app.ExpressionResult
		decodeBody(t, rec, &resp)
		assert.Equal(t, "smiling", resp.Label)
		assert.Equal(t, "😄 Smiling", resp.Symbol)
		require.NotNil(t, resp.Center)
		require.NotNil(t, resp.Left)
		assert.Greater(t, resp.Left.Y, resp.Center.Y)
		assert.Len(t, resp.Outline, 8)
	})

	t.Run("too few points", func(t *testing.T) {
		rec := post(t, h, "/api/classify/expression", `{"points":[{"x":0,"y":0},{"x":1,"y":1}]}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]interface{}
		decodeBody(t, rec, &resp)
		assert.Equal(t, "undetermined", resp["label"])
		assert.NotContains(t, resp, "center")
		assert.Len(t, resp["outline"], 2)
	})

	t.Run("negative box size", func(t *testing.T) {
		rec := post(t, h, "/api/classify/expression", `{"box":{"x":0,"y":0,"width":-1,"height":1},"points":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		rec := post(t, h, "/api/classify/expression", `{"points":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("only POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/classify/expression", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestGestureHandler(t *testing.T) {
	h := NewGestureHandler(gesture.NewDefaultClassifier(gesture.DefaultThresholds()))

	tests := []struct {
		name    string
		body    string
		want    string
		matches []string
	}{
		{
			name: "ok sign",
			body: `{"joints":{"thumb_tip":{"x":0.5,"y":0.5,"confidence":0.9},"index_tip":{"x":0.52,"y":0.52,"confidence":0.9}}}`,
			want: "ok_sign", matches: []string{"ok_sign"},
		},
		{
			name: "ok sign needs confidence above 0.8",
			body: `{"joints":{"thumb_tip":{"x":0.5,"y":0.5,"confidence":0.8},"index_tip":{"x":0.52,"y":0.52,"confidence":0.9}}}`,
			want: "none", matches: []string{},
		},
		{
			name: "peace sign",
			body: `{"joints":{"index_tip":{"x":0.4,"y":0.95,"confidence":1},"middle_tip":{"x":0.5,"y":0.9,"confidence":1},` +
				`"ring_tip":{"x":0.55,"y":0.3,"confidence":1},"pinky_tip":{"x":0.6,"y":0.2,"confidence":1}}}`,
			want: "peace_sign", matches: []string{"peace_sign"},
		},
		{
			name: "peace sign in image space",
			body: `{"space":"image","joints":{"index_tip":{"x":0.4,"y":0.05,"confidence":1},"middle_tip":{"x":0.5,"y":0.1,"confidence":1},` +
				`"ring_tip":{"x":0.55,"y":0.7,"confidence":1},"pinky_tip":{"x":0.6,"y":0.8,"confidence":1}}}`,
			want: "peace_sign", matches: []string{"peace_sign"},
		},
		{
			name: "peace sign without confidences",
			body: `{"joints":{"index_tip":{"x":0.4,"y":0.95},"middle_tip":{"x":0.5,"y":0.9},` +
				`"ring_tip":{"x":0.55,"y":0.3},"pinky_tip":{"x":0.6,"y":0.2}}}`,
			want: "peace_sign", matches: []string{"peace_sign"},
		},
		{
			name: "ok sign without confidences",
			body: `{"joints":{"thumb_tip":{"x":0.5,"y":0.5},"index_tip":{"x":0.52,"y":0.52}}}`,
			want: "ok_sign", matches: []string{"ok_sign"},
		},
		{
			name: "explicit zero confidence is absent",
			body: `{"joints":{"index_tip":{"x":0.4,"y":0.95,"confidence":0},"middle_tip":{"x":0.5,"y":0.9},` +
				`"ring_tip":{"x":0.55,"y":0.3},"pinky_tip":{"x":0.6,"y":0.2}}}`,
			want: "none", matches: []string{},
		},
		{
			name: "no joints",
			body: `{"joints":{}}`,
			want: "none", matches: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/api/classify/gesture", tt.body)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var resp app.GestureResult
			decodeBody(t, rec, &resp)
			assert.Equal(t, tt.want, resp.Label)
			assert.Equal(t, tt.matches, resp.Matches)
		})
	}

	t.Run("unknown joint", func(t *testing.T) {
		rec := post(t, h, "/api/classify/gesture", `{"joints":{"elbow":{"x":0,"y":0,"confidence":1}}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("confidence out of range", func(t *testing.T) {
		rec := post(t, h, "/api/classify/gesture", `{"joints":{"wrist":{"x":0,"y":0,"confidence":2}}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("negative confidence", func(t *testing.T) {
		rec := post(t, h, "/api/classify/gesture", `{"joints":{"wrist":{"x":0,"y":0,"confidence":-0.1}}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown space", func(t *testing.T) {
		rec := post(t, h, "/api/classify/gesture", `{"space":"polar","joints":{}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
