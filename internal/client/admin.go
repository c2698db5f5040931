package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rideadmin/pricing/internal/config"
	"rideadmin/pricing/internal/domain"
	"rideadmin/pricing/internal/listing"
	"rideadmin/pricing/internal/proxy"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	pathCategories       = "/categories"
	pathSubcategories    = "/subcategories"
	pathSubSubCategories = "/sub-subcategories"
	pathPriceCategories  = "/price-categories"
	pathVehicles         = "/vehicles"
	pathCars             = "/cars"
	pathRides            = "/rides"
)

// AdminClient is the admin API the dashboard core talks to
type AdminClient interface {
	ListCategories(ctx context.Context) ([]domain.Category, error)
	ListSubcategories(ctx context.Context) ([]domain.Subcategory, error)
	ListSubSubCategories(ctx context.Context) ([]domain.SubSubCategory, error)
	ListPriceCategories(ctx context.Context) ([]domain.PriceCategory, error)
	// ListVehicles returns every vehicle when categoryID is empty
	ListVehicles(ctx context.Context, categoryID string) ([]domain.Vehicle, error)
	ListCars(ctx context.Context) ([]domain.Car, error)

	ListRules(ctx context.Context, family domain.RuleFamily) ([]domain.PricingRule, error)
	CreateRule(ctx context.Context, family domain.RuleFamily, body any) (*domain.PricingRule, error)
	UpdateRule(ctx context.Context, family domain.RuleFamily, id string, body any) (*domain.PricingRule, error)
	SetRuleStatus(ctx context.Context, family domain.RuleFamily, id string, active bool) error
	DeleteRule(ctx context.Context, family domain.RuleFamily, id string) error

	ListRides(ctx context.Context, query listing.RideQuery) (*domain.RidePage, error)
}

type adminClient struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
	parser     *responseParser
	proxies    proxy.Supplier // Optional
}

// NewAdminClient builds the resty client for the admin API. proxies may be
// nil; otherwise requests go through the first proxy and a transport failure
// moves on to the next one.
func NewAdminClient(cfg config.APIConfig, proxies proxy.Supplier) AdminClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json")

	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}

	if proxies != nil {
		if proxyURL := proxies.Next(); proxyURL != "" {
			client.SetProxy(proxyURL)
			log.Infof("🔗 Using proxy: %s", proxyURL)
		}
	}

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &adminClient{
		rl:         rl,
		httpClient: client,
		parser:     newResponseParser(),
		proxies:    proxies,
	}
}

func (c *adminClient) ListCategories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.do(ctx, http.MethodGet, pathCategories, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return decodeList[domain.Category](body)
}

func (c *adminClient) ListSubcategories(ctx context.Context) ([]domain.Subcategory, error) {
	body, err := c.do(ctx, http.MethodGet, pathSubcategories, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}
	return decodeList[domain.Subcategory](body)
}

func (c *adminClient) ListSubSubCategories(ctx context.Context) ([]domain.SubSubCategory, error) {
	body, err := c.do(ctx, http.MethodGet, pathSubSubCategories, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-subcategories: %w", err)
	}
	return decodeList[domain.SubSubCategory](body)
}

func (c *adminClient) ListPriceCategories(ctx context.Context) ([]domain.PriceCategory, error) {
	body, err := c.do(ctx, http.MethodGet, pathPriceCategories, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list price categories: %w", err)
	}
	return decodeList[domain.PriceCategory](body)
}

func (c *adminClient) ListVehicles(ctx context.Context, categoryID string) ([]domain.Vehicle, error) {
	var params map[string]string
	if categoryID != "" {
		params = map[string]string{"category": categoryID}
	}
	body, err := c.do(ctx, http.MethodGet, pathVehicles, nil, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return decodeList[domain.Vehicle](body)
}

func (c *adminClient) ListCars(ctx context.Context) ([]domain.Car, error) {
	body, err := c.do(ctx, http.MethodGet, pathCars, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	return decodeList[domain.Car](body)
}

func (c *adminClient) ListRules(ctx context.Context, family domain.RuleFamily) ([]domain.PricingRule, error) {
	path, err := familyPath(family)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rules: %w", family, err)
	}
	return decodeList[domain.PricingRule](body)
}

func (c *adminClient) CreateRule(ctx context.Context, family domain.RuleFamily, payload any) (*domain.PricingRule, error) {
	path, err := familyPath(family)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPost, path, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s rule: %w", family, err)
	}
	return decodeObject[domain.PricingRule](body)
}

func (c *adminClient) UpdateRule(ctx context.Context, family domain.RuleFamily, id string, payload any) (*domain.PricingRule, error) {
	path, err := familyPath(family)
	if err != nil {
		return nil, err
	}
	body, err := c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(id), payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update %s rule %s: %w", family, id, err)
	}
	return decodeObject[domain.PricingRule](body)
}

func (c *adminClient) SetRuleStatus(ctx context.Context, family domain.RuleFamily, id string, active bool) error {
	path, err := familyPath(family)
	if err != nil {
		return err
	}
	_, err = c.do(ctx, http.MethodPatch, path+"/"+url.PathEscape(id)+"/status", map[string]bool{"status": active}, nil)
	if err != nil {
		return fmt.Errorf("failed to set status of %s rule %s: %w", family, id, err)
	}
	return nil
}

func (c *adminClient) DeleteRule(ctx context.Context, family domain.RuleFamily, id string) error {
	path, err := familyPath(family)
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, http.MethodDelete, path+"/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s rule %s: %w", family, id, err)
	}
	return nil
}

func (c *adminClient) ListRides(ctx context.Context, query listing.RideQuery) (*domain.RidePage, error) {
	body, err := c.do(ctx, http.MethodGet, pathRides, nil, query.Params())
	if err != nil {
		return nil, fmt.Errorf("failed to list rides: %w", err)
	}
	page, err := decodeRidePage(body)
	if err != nil {
		return nil, err
	}
	log.Debugf("Fetched %d rides (page %d of %d)", len(page.Rides), page.Page, page.TotalPages)
	return page, nil
}

func (c *adminClient) do(ctx context.Context, method, path string, payload any, params map[string]string) (string, error) {
	c.rl.Take()

	resp, err := c.send(ctx, method, path, payload, params)
	if err != nil && ctx.Err() == nil && c.proxies != nil && c.proxies.Len() > 1 {
		next := c.proxies.Next()
		log.Warnf("🔄 %s %s failed (%v), switching to proxy %s", method, path, err, next)
		c.httpClient.SetProxy(next)
		resp, err = c.send(ctx, method, path, payload, params)
	}

	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to call %s %s: %w", method, path, err)
	}

	if resp.IsError() {
		apiErr := &APIError{
			StatusCode: resp.StatusCode(),
			Message:    c.parser.ErrorMessage(resp.String(), resp.Header().Get("Content-Type")),
		}
		log.Debugf("%s %s failed: %v", method, path, apiErr)
		return "", apiErr
	}

	return resp.String(), nil
}

func (c *adminClient) send(ctx context.Context, method, path string, payload any, params map[string]string) (*resty.Response, error) {
	req := c.httpClient.R().SetContext(ctx)
	if payload != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(payload)
	}
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	switch method {
	case http.MethodGet:
		return req.Get(path)
	case http.MethodPost:
		return req.Post(path)
	case http.MethodPut:
		return req.Put(path)
	case http.MethodPatch:
		return req.Patch(path)
	case http.MethodDelete:
		return req.Delete(path)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}
}

func familyPath(family domain.RuleFamily) (string, error) {
	path := family.Path()
	if path == "" {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownFamily, family)
	}
	return path, nil
}
