// Package geocode は住所から緯度経度への変換機能を提供する。
// Google Geocoding APIの呼び出しと複数住所のバッチ解決を含む。
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
)

const (
	// maxAddressesPerRequest は1リクエストあたりの最大住所数。
	maxAddressesPerRequest = 25
)

// Position は解決済みの座標を表す。
type Position struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Client はGeocoding APIのクライアント。
// 住所1件ずつをエンドポイントに問い合わせる。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	endpoint   string
	apiKey     string
}

// NewClient はClientの新しいインスタンスを生成する。
// endpointは環境変数で差し替え可能なため、呼び出し元が検証済みのURLを渡す。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint, apiKey string) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

// geocodeResponse はGeocoding APIのレスポンスのうち利用する部分。
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve は住所1件を座標に解決する。
// 解決できない場合（該当なし、プロバイダーエラー）はnilを返す。
func (c *Client) Resolve(ctx context.Context, address string) (*Position, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("エンドポイントURLのパースに失敗しました: %w", err)
	}

	q := reqURL.Query()
	q.Set("address", address)
	q.Set("key", c.apiKey)
	reqURL.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("geocoding request failed",
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("geocoding provider returned error status",
			slog.Int("http_status", resp.StatusCode),
		)
		return nil, fmt.Errorf("ジオコーディングAPIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var decoded geocodeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Warn("failed to parse geocoding response",
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	// 該当なしはエラーではなく「解決できなかった」として扱う
	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		c.logger.Info("address could not be resolved",
			slog.String("status", decoded.Status),
		)
		return nil, nil
	}

	location := decoded.Results[0].Geometry.Location
	return &Position{
		Lat:     location.Lat,
		Lng:     location.Lng,
		Address: address,
	}, nil
}
