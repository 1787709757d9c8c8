package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-service/internal/application/inventory"
	"github.com/jhoicas/inventario-service/internal/domain"
	"github.com/jhoicas/inventario-service/internal/domain/entity"
	"github.com/jhoicas/inventario-service/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa ProductCatalog.
var _ inventory.ProductCatalog = (*Client)(nil)

const (
	apiKeyHeader = "X-API-KEY"
	productsPath = "/api/productos/"
	maxBodyBytes = 64 * 1024
)

// Config parámetros del cliente del microservicio de productos.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration // timeout por intento
	MaxAttempts int           // intentos totales ante fallas de conexión o 5xx
	RetryDelay  time.Duration // espera constante entre intentos
}

// Client adaptador HTTP hacia el microservicio de productos.
// 404 se traduce en producto ausente; timeouts, conexión rechazada y 5xx se reintentan
// y al agotarse devuelven domain.ErrUpstreamUnavailable.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente con un pool de conexiones acotado (50 total, 10 por host).
func NewClient(cfg Config, log *logger.Logger) *Client {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = 50
	transport.MaxIdleConnsPerHost = 10
	transport.MaxConnsPerHost = 10
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout, Transport: transport},
		log:        log,
	}
}

// ── Documento JSON:API del servicio de productos ──────────────────────────────

type productDocument struct {
	Data *struct {
		Type       string      `json:"type"`
		ID         json.Number `json:"id"`
		Attributes struct {
			Nombre      string          `json:"nombre"`
			Descripcion string          `json:"descripcion"`
			Precio      decimal.Decimal `json:"precio"`
		} `json:"attributes"`
	} `json:"data"`
}

// Fetch obtiene el producto por ID. (nil, nil) si el servicio responde 404.
func (c *Client) Fetch(ctx context.Context, productID int64) (*entity.ProductSummary, error) {
	var product *entity.ProductSummary
	attempt := 0
	op := func() error {
		attempt++
		p, err := c.fetchOnce(ctx, productID)
		if err != nil {
			return err
		}
		product = p
		return nil
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(c.cfg.RetryDelay)
	b = backoff.WithMaxRetries(b, uint64(c.cfg.MaxAttempts-1))
	b = backoff.WithContext(b, ctx)

	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		c.log.Warn().Err(err).
			Int64("producto_id", productID).
			Int("intento", attempt).
			Dur("espera", wait).
			Msg("reintentando consulta al servicio de productos")
	})
	if err != nil {
		c.log.Error().Err(err).Int64("producto_id", productID).Int("intentos", attempt).
			Msg("error de conexión con el servicio de productos")
		return nil, fmt.Errorf("consultar producto %d: %w: %w", productID, domain.ErrUpstreamUnavailable, err)
	}
	return product, nil
}

// fetchOnce realiza un intento. Los errores no reintentables se marcan con backoff.Permanent.
func (c *Client) fetchOnce(ctx context.Context, productID int64) (*entity.ProductSummary, error) {
	url := c.cfg.BaseURL + productsPath + strconv.FormatInt(productID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("crear HTTP request: %w", err))
	}
	req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, backoff.Permanent(fmt.Errorf("timeout o cancelación: %w", ctxErr))
		}
		return nil, fmt.Errorf("llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	rawBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("servicio de productos HTTP %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("servicio de productos HTTP %d: %s", resp.StatusCode, string(rawBody)))
	}

	var doc productDocument
	if err := json.Unmarshal(rawBody, &doc); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("deserializar producto: %w", err))
	}
	if doc.Data == nil {
		return nil, backoff.Permanent(errors.New("respuesta de productos sin data"))
	}

	id := productID
	if n, err := doc.Data.ID.Int64(); err == nil && n != 0 {
		id = n
	}
	return &entity.ProductSummary{
		ID:          id,
		Name:        doc.Data.Attributes.Nombre,
		Description: doc.Data.Attributes.Descripcion,
		Price:       doc.Data.Attributes.Precio,
	}, nil
}
