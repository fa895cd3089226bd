package steps

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shaiso/Cascade/internal/domain"
	"github.com/shaiso/Cascade/internal/engine"
)

const (
	// StepTypeHTTP — тип HTTP шага.
	StepTypeHTTP = "http"

	// Значения по умолчанию.
	defaultHTTPTimeout = 30 * time.Second
	maxResponseBody    = 10 * 1024 * 1024 // 10 MB
)

// Ключи конфигурации HTTP шага.
const (
	configMethod          = "method"
	configURL             = "url"
	configHeaders         = "headers"
	configBody            = "body"
	configTarget          = "target"
	configFollowRedirects = "follow_redirects"
	configValidateSSL     = "validate_ssl"
	configTimeoutSec      = "timeout_sec"
)

// HTTPStep — шаг HTTP запроса.
//
// Выполняет HTTP запрос к внешнему API. URL, заголовки и тело могут
// содержать шаблоны, которые рендерятся по данным входного результата.
//
// Конфигурация:
//
//	{
//	    "method": "POST",
//	    "url": "https://api.example.com/{{ .Context.resource }}",
//	    "headers": {
//	        "Authorization": "Bearer {{ .Context.token }}"
//	    },
//	    "body": {"data": "payload"},
//	    "target": "api_response",  // ключ контекста для результата
//	    "follow_redirects": true,
//	    "validate_ssl": true,
//	    "timeout_sec": 30
//	}
//
// Результат записывается в контекст под ключом target (по умолчанию
// "http_response") и становится полезной нагрузкой:
//
//	{
//	    "status_code": 200,
//	    "body": {...}  // parsed JSON or string
//	}
type HTTPStep struct{}

// NewHTTPStep создаёт новый HTTPStep.
func NewHTTPStep() *HTTPStep {
	return &HTTPStep{}
}

// Type возвращает тип шага.
func (s *HTTPStep) Type() string {
	return StepTypeHTTP
}

// httpConfig — распарсенная конфигурация HTTP шага.
type httpConfig struct {
	Method          string
	URL             string
	Headers         map[string]string
	Body            any
	Target          string
	FollowRedirects bool
	ValidateSSL     bool
	TimeoutSec      int
}

// Build создаёт действие из конфигурации.
func (s *HTTPStep) Build(config map[string]any) (domain.Action, error) {
	cfg, err := s.parseConfig(config)
	if err != nil {
		return nil, err
	}

	client := s.buildClient(cfg)

	return domain.ActionFunc(func(ctx context.Context, in *domain.Outcome) (*domain.Outcome, error) {
		req, err := s.buildRequest(ctx, cfg, in)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}

		resp, err := client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", ErrStepCancelled, ctx.Err())
			}
			return nil, fmt.Errorf("http request failed: %w", err)
		}
		defer resp.Body.Close()

		result, err := s.parseResponse(resp)
		if err != nil {
			return nil, err
		}

		return in.WithContext(cfg.Target, result).ContinueWith(result), nil
	}), nil
}

// parseConfig парсит конфигурацию HTTP шага.
func (s *HTTPStep) parseConfig(config map[string]any) (*httpConfig, error) {
	cfg := &httpConfig{
		Method:          GetConfigString(config, configMethod),
		URL:             GetConfigString(config, configURL),
		Headers:         GetConfigMapString(config, configHeaders),
		Body:            config[configBody],
		Target:          GetConfigString(config, configTarget),
		FollowRedirects: GetConfigBool(config, configFollowRedirects, true),
		ValidateSSL:     GetConfigBool(config, configValidateSSL, true),
		TimeoutSec:      GetConfigInt(config, configTimeoutSec),
	}

	// Валидация
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: %s: url is required", ErrInvalidConfig, StepTypeHTTP)
	}

	// Метод по умолчанию — GET
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	cfg.Method = strings.ToUpper(cfg.Method)

	if cfg.Target == "" {
		cfg.Target = "http_response"
	}

	if cfg.Headers == nil {
		cfg.Headers = make(map[string]string)
	}

	return cfg, nil
}

// buildClient создаёт HTTP клиент с нужными настройками.
func (s *HTTPStep) buildClient(cfg *httpConfig) *http.Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSec > 0 {
		timeout = time.Duration(cfg.TimeoutSec) * time.Second
	}

	// Настройки TLS
	tlsConfig := &tls.Config{
		InsecureSkipVerify: !cfg.ValidateSSL,
	}

	// Настройка редиректов
	var checkRedirect func(*http.Request, []*http.Request) error
	if !cfg.FollowRedirects {
		checkRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &http.Client{
		Timeout:       timeout,
		CheckRedirect: checkRedirect,
		Transport: &http.Transport{
			TLSClientConfig: tlsConfig,
		},
	}
}

// buildRequest создаёт HTTP запрос, рендеря шаблоны по входному результату.
func (s *HTTPStep) buildRequest(ctx context.Context, cfg *httpConfig, in *domain.Outcome) (*http.Request, error) {
	url, err := engine.RenderTemplate(cfg.URL, in)
	if err != nil {
		return nil, fmt.Errorf("render url: %w", err)
	}

	headers := make(map[string]string, len(cfg.Headers))
	for key, tmpl := range cfg.Headers {
		rendered, err := engine.RenderTemplate(tmpl, in)
		if err != nil {
			return nil, fmt.Errorf("render header %s: %w", key, err)
		}
		headers[key] = rendered
	}

	var bodyReader io.Reader
	if cfg.Body != nil {
		bodyBytes, err := s.serializeBody(cfg.Body, in)
		if err != nil {
			return nil, fmt.Errorf("serialize body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)

		// Устанавливаем Content-Type, если не задан
		if _, hasContentType := headers["Content-Type"]; !hasContentType {
			headers["Content-Type"] = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, cfg.Method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// serializeBody сериализует body в bytes.
// Строковое тело трактуется как шаблон, остальное — как JSON.
func (s *HTTPStep) serializeBody(body any, in *domain.Outcome) ([]byte, error) {
	if str, ok := body.(string); ok {
		rendered, err := engine.RenderTemplate(str, in)
		if err != nil {
			return nil, err
		}
		return []byte(rendered), nil
	}
	return json.Marshal(body)
}

// parseResponse читает и парсит HTTP ответ.
func (s *HTTPStep) parseResponse(resp *http.Response) (map[string]any, error) {
	limited := io.LimitReader(resp.Body, maxResponseBody)
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	result := map[string]any{
		"status_code": resp.StatusCode,
	}

	// Пробуем распарсить тело как JSON
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		result["body"] = parsed
	} else {
		result["body"] = string(raw)
	}

	return result, nil
}
