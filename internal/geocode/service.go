package geocode

import (
	"context"
	"log/slog"

	"github.com/hitoshi/carbonreg/internal/model"
)

// Resolver は住所1件の座標解決インターフェース。
// Clientの部分集合として定義する。
type Resolver interface {
	Resolve(ctx context.Context, address string) (*Position, error)
}

// FailureCounter は解決失敗数の計測インターフェース。メトリクス連携用。
type FailureCounter interface {
	IncGeocodeFailure()
}

// Service は複数住所のバッチ解決を提供する。
// APIキー未設定の場合（resolverがnil）はすべての呼び出しが設定エラーで失敗する。
type Service struct {
	resolver Resolver
	failures FailureCounter
}

// NewService はServiceを生成する。
// APIキーが未設定の環境ではresolverにnilを渡す。failuresはnil許容。
func NewService(resolver Resolver, failures FailureCounter) *Service {
	return &Service{
		resolver: resolver,
		failures: failures,
	}
}

// ResolveBatch は複数住所を順に解決し、成功した座標のみを返す。
// 解決に失敗した住所は結果から黙って除外される（エラーにしない）。
// 結果の順序は入力の住所順を保持する。
func (s *Service) ResolveBatch(ctx context.Context, addresses []string) ([]Position, error) {
	if s.resolver == nil {
		return nil, model.NewMisconfiguredError()
	}

	if len(addresses) > maxAddressesPerRequest {
		return nil, model.NewValidationError("住所の件数が上限を超えています")
	}

	positions := make([]Position, 0, len(addresses))
	for _, address := range addresses {
		if address == "" {
			s.countFailure()
			continue
		}

		position, err := s.resolver.Resolve(ctx, address)
		if err != nil || position == nil {
			// 一部の住所が解決できなくても残りの解決は続行する
			if err != nil {
				slog.Warn("geocoding failed, omitting address from results",
					slog.String("error", err.Error()),
				)
			}
			s.countFailure()
			continue
		}

		positions = append(positions, *position)
	}

	return positions, nil
}

func (s *Service) countFailure() {
	if s.failures != nil {
		s.failures.IncGeocodeFailure()
	}
}
