package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// SupabaseClient 托管库 PostgREST 接口客户端（/rest/v1）
type SupabaseClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewSupabaseClient 创建客户端，anonKey 同时作为 apikey 与 Bearer token
func NewSupabaseClient(baseURL, anonKey string, logger *zap.Logger) *SupabaseClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")+"/rest/v1").
		SetTimeout(15*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("apikey", anonKey).
		SetAuthToken(anonKey)

	return &SupabaseClient{httpClient: client, logger: logger}
}

// NewSupabaseStore 三个实体共用同一客户端
func NewSupabaseStore(c *SupabaseClient) *Store {
	return &Store{
		Accounts: &SupabaseAccountsRepository{c: c},
		Houses:   &SupabaseHousesRepository{c: c},
		Guests:   &SupabaseGuestsRepository{c: c},
	}
}

func eq(v any) string { return fmt.Sprintf("eq.%v", v) }

func in(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

// selectRows GET /{table}?{query}
func (c *SupabaseClient) selectRows(ctx context.Context, table string, query url.Values, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		SetResult(out).
		Get("/" + table)
	return c.check("select", table, resp, err)
}

// insertRow POST /{table}，返回插入后的行
func (c *SupabaseClient) insertRow(ctx context.Context, table string, body any, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(body).
		SetResult(out).
		Post("/" + table)
	return c.check("insert", table, resp, err)
}

// updateRows PATCH /{table}?id=eq.{id}
func (c *SupabaseClient) updateRows(ctx context.Context, table string, id int64, body any, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", eq(id)).
		SetBody(body).
		SetResult(out).
		Patch("/" + table)
	return c.check("update", table, resp, err)
}

// deleteRows DELETE /{table}?id=eq.{id}，返回被删除的行
func (c *SupabaseClient) deleteRows(ctx context.Context, table string, id int64, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", eq(id)).
		SetResult(out).
		Delete("/" + table)
	return c.check("delete", table, resp, err)
}

func (c *SupabaseClient) check(op, table string, resp *resty.Response, err error) error {
	if err != nil {
		c.logger.Error("Supabase request failed",
			zap.String("op", op),
			zap.String("table", table),
			zap.Error(err),
		)
		return fmt.Errorf("failed to %s %s: %w", op, table, err)
	}
	if resp.StatusCode() == http.StatusConflict {
		return ErrDuplicate
	}
	if resp.IsError() {
		c.logger.Error("Supabase returned error",
			zap.String("op", op),
			zap.String("table", table),
			zap.Int("status_code", resp.StatusCode()),
			zap.String("body", resp.String()),
		)
		return fmt.Errorf("failed to %s %s: status %d: %s", op, table, resp.StatusCode(), resp.String())
	}
	return nil
}
