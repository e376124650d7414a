package hyprland

import (
	"context"
	"fmt"
	"os"

	"github.com/mj1618/docklike/internal/logger"
	"github.com/mj1618/docklike/internal/platform"
)

func init() {
	platform.NewProviderFunc = func(log *logger.Logger) (*platform.Provider, error) {
		if os.Getenv(signatureEnv) == "" {
			return nil, fmt.Errorf("%w: %w", platform.ErrUnsupported, ErrNoInstance)
		}
		b, err := New(context.Background(), log)
		if err != nil {
			return nil, err
		}
		return b.Provider(), nil
	}
}
