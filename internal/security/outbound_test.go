package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestNewOutboundGuard はOutboundGuardの生成をテストする。
func TestNewOutboundGuard(t *testing.T) {
	guard := NewOutboundGuard()
	if guard == nil {
		t.Fatal("NewOutboundGuard() returned nil")
	}
}

// TestNewSafeClient はSSRF防止付きHTTPクライアントの生成をテストする。
func TestNewSafeClient(t *testing.T) {
	guard := NewOutboundGuard()
	client := guard.NewSafeClient(10 * time.Second)
	if client == nil {
		t.Fatal("NewSafeClient() returned nil")
	}
}

// TestNewSafeClientHasTransport はSafeClientにカスタムTransportが設定されていることをテストする。
// safeurlはnet.DialerのControlフックでIPアドレス検証を行うため、
// Transportが標準のhttp.DefaultTransportではないことを確認する。
func TestNewSafeClientHasTransport(t *testing.T) {
	guard := NewOutboundGuard()
	client := guard.NewSafeClient(5 * time.Second)

	if client.Transport == nil {
		t.Fatal("expected custom Transport to be set, got nil")
	}
	if client.Transport == http.DefaultTransport {
		t.Fatal("expected custom Transport, got http.DefaultTransport")
	}
}

// TestNewSafeClientBlocksLoopback はSafeClientがループバックへのリクエストをブロックすることをテストする。
// httptestサーバーは127.0.0.1で起動されるため、safeurlがブロックする。
func TestNewSafeClientBlocksLoopback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	guard := NewOutboundGuard()
	client := guard.NewSafeClient(5 * time.Second)

	_, err := client.Get(ts.URL)
	if err == nil {
		t.Fatal("expected error for loopback address request, got nil")
	}
}

// TestValidateEndpoint_PublicURL は公開HTTPSエンドポイントの検証が成功することをテストする。
func TestValidateEndpoint_PublicURL(t *testing.T) {
	guard := NewOutboundGuard()

	publicURLs := []string{
		"https://maps.googleapis.com/maps/api/geocode/json",
		"https://geocode.example.com/v1/search",
	}

	for _, u := range publicURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateEndpoint(u)
			if err != nil {
				t.Errorf("ValidateEndpoint(%q) returned error: %v", u, err)
			}
		})
	}
}

// TestValidateEndpoint_DisallowedScheme はHTTPS以外のスキームの拒否をテストする。
func TestValidateEndpoint_DisallowedScheme(t *testing.T) {
	guard := NewOutboundGuard()

	badURLs := []string{
		"http://maps.googleapis.com/maps/api/geocode/json",
		"ftp://example.com/geocode",
		"file:///etc/passwd",
	}

	for _, u := range badURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateEndpoint(u)
			if err == nil {
				t.Errorf("ValidateEndpoint(%q) should have returned error for disallowed scheme", u)
			}
		})
	}
}

// TestValidateEndpoint_PrivateIP はプライベートIPアドレスの拒否をテストする。
func TestValidateEndpoint_PrivateIP(t *testing.T) {
	guard := NewOutboundGuard()

	privateURLs := []string{
		"https://10.0.0.1/geocode",
		"https://172.16.0.1/geocode",
		"https://192.168.1.100/geocode",
	}

	for _, u := range privateURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateEndpoint(u)
			if err == nil {
				t.Errorf("ValidateEndpoint(%q) should have returned error for private IP", u)
			}
		})
	}
}

// TestValidateEndpoint_LoopbackAndMetadata はループバックとメタデータIPの拒否をテストする。
func TestValidateEndpoint_LoopbackAndMetadata(t *testing.T) {
	guard := NewOutboundGuard()

	blockedURLs := []string{
		"https://127.0.0.1/geocode",
		"https://localhost/geocode",
		"https://169.254.169.254/latest/meta-data/",
		"https://0.0.0.0/geocode",
		"https://[::1]/geocode",
	}

	for _, u := range blockedURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateEndpoint(u)
			if err == nil {
				t.Errorf("ValidateEndpoint(%q) should have returned error", u)
			}
		})
	}
}

// TestValidateEndpoint_InvalidURL は無効なURLの検証が失敗することをテストする。
func TestValidateEndpoint_InvalidURL(t *testing.T) {
	guard := NewOutboundGuard()

	invalidURLs := []string{
		"",
		"not-a-url",
		"https://",
	}

	for _, u := range invalidURLs {
		t.Run(u, func(t *testing.T) {
			err := guard.ValidateEndpoint(u)
			if err == nil {
				t.Errorf("ValidateEndpoint(%q) should have returned error for invalid URL", u)
			}
		})
	}
}

// TestOutboundGuardInterface はOutboundGuardがインターフェースを正しく実装していることをテストする。
func TestOutboundGuardInterface(t *testing.T) {
	var _ OutboundGuardService = NewOutboundGuard()
}
