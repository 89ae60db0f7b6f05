package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/addrfmt/internal/address"
)

const (
	// maxBatch caps the number of records per batch request
	maxBatch = 1000
	// defaultMaxBody caps request bodies; a full batch of six-line records fits
	defaultMaxBody = 4 << 20
)

// ParseHandler exposes the address parser over HTTP
type ParseHandler struct {
	Debug bool
	// MaxBodyBytes overrides defaultMaxBody when positive
	MaxBodyBytes int64
}

func (h *ParseHandler) maxBody() int64 {
	if h.MaxBodyBytes > 0 {
		return h.MaxBodyBytes
	}
	return defaultMaxBody
}

// decodeBody decodes a size-limited JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func (h *ParseHandler) decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxBody())
	err := json.NewDecoder(body).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, "Invalid JSON body", http.StatusBadRequest)
	return false
}

// ParseRequest is one unstructured address
type ParseRequest struct {
	ID           string   `json:"id"`
	Lines        []string `json:"lines"`
	IBAN         *string  `json:"iban,omitempty"`
	AccountOwner *string  `json:"account_owner,omitempty"`
}

// BatchItem is one entry of a batch response
type BatchItem struct {
	Address *address.StructuredAddress `json:"address,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// Unstructured validates the request into a parser input
func (req ParseRequest) Unstructured() (address.UnstructuredAddress, error) {
	var opts []address.Option
	if req.IBAN != nil {
		opts = append(opts, address.WithIBAN(*req.IBAN))
	}
	if req.AccountOwner != nil {
		opts = append(opts, address.WithAccountOwner(*req.AccountOwner))
	}
	return address.NewUnstructuredAddress(req.ID, req.Lines, opts...)
}

// Parse handles POST /api/parse
func (h *ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req ParseRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	raw, err := req.Unstructured()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, address.ParseDebug(h.Debug, raw))
}

// ParseBatch handles POST /api/parse/batch. Invalid items are reported
// in place; the rest are still parsed.
func (h *ParseHandler) ParseBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []ParseRequest
	if !h.decodeBody(w, r, &reqs) {
		return
	}
	if len(reqs) > maxBatch {
		http.Error(w, "Too many records", http.StatusRequestEntityTooLarge)
		return
	}

	items := make([]BatchItem, len(reqs))
	for i, req := range reqs {
		raw, err := req.Unstructured()
		if err != nil {
			items[i].Error = err.Error()
			continue
		}
		parsed := address.ParseDebug(h.Debug, raw)
		items[i].Address = &parsed
	}
	writeJSON(w, items)
}

// RulesResponse lists the classifier configuration
type RulesResponse struct {
	LocationRules  []string `json:"location_rules"`
	Titles         []string `json:"titles"`
	DefaultCountry string   `json:"default_country"`
}

// Rules handles GET /api/rules
func Rules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, RulesResponse{
		LocationRules:  address.RuleNames(),
		Titles:         address.TitleWords,
		DefaultCountry: address.DefaultCountry,
	})
}

// Health handles GET /api/health
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Encoding error", http.StatusInternalServerError)
	}
}
