package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestParse(t *testing.T) {
	h := &ParseHandler{}
	rec := post(t, h.Parse, `{"id":"1","lines":["Dupont Marie","Rue du Lac 12","1003 Lausanne"],"iban":"CH93"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Lausanne", got["city"])
	assert.Equal(t, "CH93", got["iban"])
	assert.Equal(t, map[string]interface{}{"kind": "street", "street": "Rue du Lac", "house_number": "12"}, got["address"])
}

func TestParseRejectsBadInput(t *testing.T) {
	h := &ParseHandler{}
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing id", `{"lines":["a"]}`},
		{"too many lines", `{"id":"1","lines":["1","2","3","4","5","6","7"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusBadRequest, post(t, h.Parse, tt.body).Code)
		})
	}
}

func TestParseBatch(t *testing.T) {
	h := &ParseHandler{}
	rec := post(t, h.ParseBatch, `[{"id":"1","lines":["Muster AG","Postfach 45"]},{"id":"","lines":[]}]`)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []struct {
		Address map[string]interface{} `json:"address"`
		Error   string                 `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].Address["id"])
	assert.Empty(t, items[0].Error)
	assert.Nil(t, items[1].Address)
	assert.Contains(t, items[1].Error, "missing identifier")
}

func TestParseBatchLimits(t *testing.T) {
	item := `{"id":"1","lines":["Muster AG","Postfach 45","8001 Zürich"]}`

	tests := []struct {
		name    string
		handler *ParseHandler
		body    string
		want    int
	}{
		{"body over byte limit", &ParseHandler{MaxBodyBytes: 64}, "[" + item + "," + item + "]", http.StatusRequestEntityTooLarge},
		{"too many records", &ParseHandler{}, "[" + strings.Repeat(`{"id":"x"},`, maxBatch) + `{"id":"x"}]`, http.StatusRequestEntityTooLarge},
		{"within limits", &ParseHandler{MaxBodyBytes: 1024}, "[" + item + "]", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, post(t, tt.handler.ParseBatch, tt.body).Code)
		})
	}
}

func TestParseBodyLimit(t *testing.T) {
	h := &ParseHandler{MaxBodyBytes: 16}
	rec := post(t, h.Parse, `{"id":"1","lines":["Dupont Marie","Rue du Lac 12"]}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRulesAndHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	Rules(rec, httptest.NewRequest(http.MethodGet, "/api/rules", nil))

	var rules RulesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rules))
	assert.Equal(t, "po-box", rules.LocationRules[0])
	assert.Contains(t, rules.Titles, "MME")
	assert.Equal(t, "CH", rules.DefaultCountry)

	rec = httptest.NewRecorder()
	Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
