package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ironsheep/sobel-mcp/internal/cache"
	"github.com/ironsheep/sobel-mcp/internal/config"
	"github.com/ironsheep/sobel-mcp/internal/imaging"
	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

// cacheKeyPrefix namespaces edge results in a shared cache.
const cacheKeyPrefix = "sobel-mcp:edges"

const (
	defaultMinLineLength = 20
	defaultMaxLines      = 50
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	Combiner     *sobel.Combiner
	Cache        cache.Cache
	CacheTTL     time.Duration
	MaxBodyBytes int64
	Defaults     config.EdgeConfig
	Logger       *log.Logger
}

// Service is the HTTP edge service. It is safe for concurrent use.
type Service struct {
	combiner *sobel.Combiner
	cache    cache.Cache
	ttl      time.Duration
	maxBody  int64
	defaults config.EdgeConfig
	logger   *log.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	s := &Service{
		combiner: opts.Combiner,
		cache:    opts.Cache,
		ttl:      opts.CacheTTL,
		maxBody:  opts.MaxBodyBytes,
		defaults: opts.Defaults,
		logger:   opts.Logger,
	}
	if s.combiner == nil {
		s.combiner = sobel.NewCombiner()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.maxBody <= 0 {
		s.maxBody = config.Default().HTTP.MaxBodyBytes
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Handler returns the service's router.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(s.accessLog)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/operators", s.handleOperators)
		r.Post("/edges", s.handleEdges)
		r.Post("/lines", s.handleLines)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Service) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Service) handleOperators(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"operators": imaging.OperatorNames(),
		"palettes":  imaging.PaletteNames(),
		"default":   s.defaults.Kernel,
	})
}

// edgeParams is the parsed query of an edge request.
type edgeParams struct {
	operator string
	palette  string
	opts     imaging.PrepareOptions
}

// cacheKey identifies the result of applying p to an image with the given body hash.
func (p edgeParams) cacheKey(bodyHash string) string {
	var region []int
	if p.opts.Region != nil {
		region = []int{p.opts.Region.X1, p.opts.Region.Y1, p.opts.Region.X2, p.opts.Region.Y2}
	}
	return cache.Key(cacheKeyPrefix, bodyHash, p.operator, p.palette, p.opts.Scale, p.opts.BlurRadius, region)
}

// readBody reads the request body within the size limit. On failure it has
// already written the error response and returns ok == false.
func (s *Service) readBody(w http.ResponseWriter, r *http.Request) (body []byte, ok bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("failed to read body: %w", err))
		return nil, false
	}
	if len(body) == 0 {
		s.writeError(w, r, http.StatusBadRequest, errors.New("empty request body"))
		return nil, false
	}
	return body, true
}

func (s *Service) handleEdges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	params, err := s.parseParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	key := params.cacheKey(cache.Hash(body))
	if data, hit, err := s.cache.Get(ctx, key); err != nil {
		logger.Warn("cache get failed", "err", err)
	} else if hit {
		writePNG(w, data, "hit")
		return
	}

	png, status, err := s.render(body, params)
	if err != nil {
		s.writeError(w, r, status, err)
		return
	}

	if err := s.cache.Set(ctx, key, png, s.ttl); err != nil {
		logger.Warn("cache set failed", "err", err)
	}
	writePNG(w, png, "miss")
}

// linesResponse is the JSON body of POST /v1/lines.
type linesResponse struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Operator string `json:"operator"`
	*imaging.LinesResult
}

func (s *Service) handleLines(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	params, err := s.parseParams(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	lineOpts, err := s.parseLineOptions(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	op, err := imaging.NewOperator(params.operator, s.combiner)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	mag, err := imaging.Edges(img, op, params.opts)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sobel.ErrAllocation) {
			status = http.StatusInsufficientStorage
		}
		s.writeError(w, r, status, err)
		return
	}

	lines, err := imaging.DetectLines(mag, lineOpts)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, linesResponse{
		Width:       mag.Bounds().Dx(),
		Height:      mag.Bounds().Dy(),
		Operator:    op.Name(),
		LinesResult: lines,
	})
}

// parseLineOptions reads threshold, min_length and max_lines from the query.
func (s *Service) parseLineOptions(r *http.Request) (imaging.LineOptions, error) {
	q := r.URL.Query()
	opts := imaging.LineOptions{
		Threshold: s.defaults.Threshold,
		MinLength: defaultMinLineLength,
		MaxLines:  defaultMaxLines,
	}

	if v := q.Get("threshold"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return opts, fmt.Errorf("invalid threshold %q: %w", v, err)
		}
		opts.Threshold = uint8(n)
	}
	for name, dst := range map[string]*int{"min_length": &opts.MinLength, "max_lines": &opts.MaxLines} {
		if v := q.Get(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return opts, fmt.Errorf("invalid %s %q: %w", name, v, err)
			}
			*dst = n
		}
	}
	return opts, nil
}

// render decodes body and produces the encoded edge PNG. On failure it returns
// the HTTP status that describes the error.
func (s *Service) render(body []byte, p edgeParams) ([]byte, int, error) {
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	op, err := imaging.NewOperator(p.operator, s.combiner)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}
	palette, err := imaging.ParsePalette(p.palette)
	if err != nil {
		return nil, http.StatusBadRequest, err
	}

	mag, err := imaging.Edges(img, op, p.opts)
	if err != nil {
		if errors.Is(err, sobel.ErrAllocation) {
			return nil, http.StatusInsufficientStorage, err
		}
		return nil, http.StatusBadRequest, err
	}

	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, imaging.Render(mag, palette)); err != nil {
		return nil, http.StatusInternalServerError, err
	}
	return buf.Bytes(), http.StatusOK, nil
}

// parseParams reads the query string, filling omitted values from the defaults.
// Operator and palette names are validated here so bad requests fail before decoding.
func (s *Service) parseParams(r *http.Request) (edgeParams, error) {
	q := r.URL.Query()
	p := edgeParams{
		operator: s.defaults.Kernel,
		palette:  s.defaults.Palette,
		opts:     imaging.PrepareOptions{BlurRadius: s.defaults.Blur},
	}

	if q.Has("kernel") {
		p.operator = q.Get("kernel")
	}
	if _, err := imaging.NewOperator(p.operator, s.combiner); err != nil {
		return p, err
	}
	p.operator = strings.ToLower(strings.TrimSpace(p.operator))

	if q.Has("palette") {
		p.palette = q.Get("palette")
	}
	if _, err := imaging.ParsePalette(p.palette); err != nil {
		return p, err
	}

	if v := q.Get("blur"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid blur %q: %w", v, err)
		}
		p.opts.BlurRadius = f
	}
	if v := q.Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return p, fmt.Errorf("invalid scale %q: %w", v, err)
		}
		p.opts.Scale = f
	}
	if v := q.Get("region"); v != "" {
		region, err := parseRegion(v)
		if err != nil {
			return p, err
		}
		p.opts.Region = region
	}
	return p, nil
}

// parseRegion parses "x1,y1,x2,y2".
func parseRegion(v string) (*imaging.Region, error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid region %q: want x1,y1,x2,y2", v)
	}
	var coords [4]int
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid region %q: %w", v, err)
		}
		coords[i] = n
	}
	return &imaging.Region{X1: coords[0], Y1: coords[1], X2: coords[2], Y2: coords[3]}, nil
}

func writePNG(w http.ResponseWriter, data []byte, cacheStatus string) {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Service) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	log.FromContext(r.Context()).Warn("request failed", "status", status, "err", err)
	writeJSON(w, status, errorBody{
		Error:     err.Error(),
		RequestID: w.Header().Get(RequestIDHeader),
	})
}
