package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xHacka/login-log-generator/internal/config"
	"github.com/xHacka/login-log-generator/internal/export"
	"github.com/xHacka/login-log-generator/internal/generator"
	"github.com/xHacka/login-log-generator/internal/models"
)

const maxBodyBytes = 1 << 20

var errBadOutput = errors.New("invalid output option")

type GenerateHandler struct {
	Generator *generator.Generator
	Config    *config.Live
	// JSONOnly rejects form bodies; set on routes without CSRF protection.
	JSONOnly bool
}

// generateRequest is the wire form of a generation call. Usernames may come
// pre-split, as free text, or both.
type generateRequest struct {
	Usernames     []string `json:"usernames"`
	UsernamesText string   `json:"usernames_text"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Quantity      *int     `json:"quantity"`
	Bias          *float64 `json:"bias"`
	Format        string   `json:"format"`
	Compress      string   `json:"compress"`
}

type output struct {
	format      string
	compression export.Compression
}

func (h *GenerateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.JSONOnly && !isJSON(r) {
		http.Error(w, "Unsupported media type: expected application/json", http.StatusUnsupportedMediaType)
		return
	}
	runID := uuid.New().String()
	log := zerolog.Ctx(r.Context()).With().Str("run_id", runID).Logger()
	cfg := h.Config.Get()

	body, err := decodeRequest(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	req, err := h.toGenerationRequest(body, cfg.Generator)
	if err != nil {
		log.Warn().Err(err).Msg("rejected generation request")
		writeError(w, http.StatusBadRequest, err)
		return
	}
	out, err := parseOutput(body, cfg.Export)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	table, err := h.Generator.Generate(req)
	if err != nil {
		if generator.IsValidation(err) {
			log.Warn().Err(err).Msg("rejected generation request")
			writeError(w, http.StatusBadRequest, err)
			return
		}
		log.Error().Err(err).Msg("generation failed")
		http.Error(w, "Failed to generate: "+err.Error(), http.StatusInternalServerError)
		return
	}

	contentType, filename := export.ContentType, export.Filename
	if out.format == "json" {
		contentType, filename = export.JSONContentType, "output.json"
	}
	w.Header().Set("X-Run-ID", runID)
	w.Header().Set("Content-Type", out.compression.ContentType(contentType))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": out.compression.Filename(filename),
	}))

	cw, err := out.compression.Wrap(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if out.format == "json" {
		err = export.WriteJSON(cw, table)
	} else {
		err = export.WriteCSV(cw, table)
	}
	if cerr := cw.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error().Err(err).Msg("write response")
		return
	}
	log.Info().
		Int("records", len(table)).
		Str("interval", req.Interval.String()).
		Float64("bias", req.SuccessBias).
		Str("format", out.format).
		Str("compression", string(out.compression)).
		Msg("generated log table")
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (generateRequest, error) {
	var body generateRequest
	if isJSON(r) {
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err := dec.Decode(&body); err != nil {
			return body, fmt.Errorf("invalid json body: %w", err)
		}
		return body, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return body, fmt.Errorf("invalid form: %w", err)
	}
	body.UsernamesText = r.FormValue("usernames")
	body.StartDate = r.FormValue("start_date")
	body.EndDate = r.FormValue("end_date")
	body.Format = r.FormValue("format")
	body.Compress = r.FormValue("compress")
	if s := strings.TrimSpace(r.FormValue("quantity")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return body, fmt.Errorf("%w: %q is not a number", generator.ErrInvalidQuantity, s)
		}
		body.Quantity = &n
	}
	if s := strings.TrimSpace(r.FormValue("bias")); s != "" {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return body, fmt.Errorf("%w: %q is not a number", generator.ErrInvalidBias, s)
		}
		body.Bias = &f
	}
	return body, nil
}

// toGenerationRequest reports errors in the order the generator checks
// them, so a bad interval never hides an earlier problem.
func (h *GenerateHandler) toGenerationRequest(body generateRequest, defaults config.GeneratorConfig) (models.GenerationRequest, error) {
	var req models.GenerationRequest
	req.Usernames = append(generator.NormalizeList(body.Usernames), generator.NormalizeUsernames(body.UsernamesText)...)
	if len(req.Usernames) == 0 {
		return req, generator.ErrEmptyUsernameList
	}
	if body.Quantity == nil {
		return req, fmt.Errorf("%w: quantity is required", generator.ErrInvalidQuantity)
	}
	req.Quantity = *body.Quantity
	req.SuccessBias = defaults.DefaultBias
	if body.Bias != nil {
		req.SuccessBias = *body.Bias
	}
	iv, ivErr := models.ParseDateInterval([]string{body.StartDate, body.EndDate})
	req.Interval = iv
	if err := h.Generator.Validate(req); err != nil {
		return req, err
	}
	return req, ivErr
}

func parseOutput(body generateRequest, defaults config.ExportConfig) (output, error) {
	var out output
	switch strings.ToLower(strings.TrimSpace(body.Format)) {
	case "", "csv":
		out.format = "csv"
	case "json":
		out.format = "json"
	default:
		return out, fmt.Errorf("%w: unknown format %q", errBadOutput, body.Format)
	}
	compress := body.Compress
	if compress == "" {
		compress = defaults.Compression
	}
	c, err := export.ParseCompression(compress)
	if err != nil {
		return out, fmt.Errorf("%w: %v", errBadOutput, err)
	}
	out.compression = c
	return out, nil
}

func isJSON(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/json"
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
