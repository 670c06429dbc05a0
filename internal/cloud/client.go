// Package cloud 远端设备收件箱客户端与同步
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/half-nothing/simple-fdr/internal/interfaces/config"
)

const maxChunkBytes = 32 << 20

var (
	ErrEmptyChunk    = errors.New("chunk has no content")
	ErrChunkNotFound = errors.New("chunk does not exist")
	ErrInboxStatus   = errors.New("unexpected inbox response status")
	// ErrResponseTooLarge 响应体超过上限, 不能截断后继续使用
	ErrResponseTooLarge = errors.New("inbox response exceeds size limit")
)

// PendingFlight 收件箱中等待导入的航班
type PendingFlight struct {
	FlightId string `json:"flightId"`
	Chunks   int    `json:"chunks"`
}

// InboxClient 远端收件箱接口
type InboxClient interface {
	// ListPending 列出设备尚未确认导入的航班
	ListPending(ctx context.Context, deviceId string) ([]PendingFlight, error)
	// DownloadChunk 下载单个分片, 内容为空时返回 ErrEmptyChunk
	DownloadChunk(ctx context.Context, deviceId, flightId, chunkName string) (string, error)
	// Acknowledge 确认航班已导入, 之后不会再出现在待导入列表中
	Acknowledge(ctx context.Context, deviceId, flightId string) error
}

type HttpInboxClient struct {
	baseUrl        string
	token          string
	requestTimeout time.Duration
	maxBodyBytes   int64
	client         *http.Client
}

func NewHttpInboxClient(cfg *config.CloudInboxConfig) *HttpInboxClient {
	return &HttpInboxClient{
		baseUrl:        cfg.BaseUrl,
		token:          cfg.SyncToken,
		requestTimeout: cfg.RequestDuration,
		maxBodyBytes:   maxChunkBytes,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

func (c *HttpInboxClient) do(ctx context.Context, method, target string, body any) ([]byte, int, error) {
	if c.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	if int64(len(data)) > c.maxBodyBytes {
		return nil, resp.StatusCode, fmt.Errorf("%w: more than %d bytes from %s", ErrResponseTooLarge, c.maxBodyBytes, target)
	}
	return data, resp.StatusCode, nil
}

func (c *HttpInboxClient) ListPending(ctx context.Context, deviceId string) ([]PendingFlight, error) {
	target := fmt.Sprintf("%s/pending-flights?%s", c.baseUrl, url.Values{"deviceId": {deviceId}}.Encode())
	data, status, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: list pending returned %d", ErrInboxStatus, status)
	}
	var payload struct {
		Pending []PendingFlight `json:"pending"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("invalid pending flights payload: %w", err)
	}
	return payload.Pending, nil
}

func (c *HttpInboxClient) DownloadChunk(ctx context.Context, deviceId, flightId, chunkName string) (string, error) {
	target := fmt.Sprintf("%s/flight/%s/%s/%s", c.baseUrl, url.PathEscape(deviceId), url.PathEscape(flightId), url.PathEscape(chunkName))
	data, status, err := c.do(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrChunkNotFound, chunkName)
	case status < 200 || status > 299:
		return "", fmt.Errorf("%w: chunk %s returned %d", ErrInboxStatus, chunkName, status)
	case len(data) == 0:
		return "", fmt.Errorf("%w: %s", ErrEmptyChunk, chunkName)
	}
	return string(data), nil
}

func (c *HttpInboxClient) Acknowledge(ctx context.Context, deviceId, flightId string) error {
	body := map[string]string{"deviceId": deviceId, "flightId": flightId}
	_, status, err := c.do(ctx, http.MethodPut, c.baseUrl+"/ack", body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("%w: ack returned %d", ErrInboxStatus, status)
	}
	return nil
}
