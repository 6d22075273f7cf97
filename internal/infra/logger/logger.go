package logger

import "go.uber.org/zap"

// New は環境に応じたzapロガーを返す。devは人間向け、それ以外はJSON。
func New(goEnv string) (*zap.Logger, error) {
	if goEnv == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
