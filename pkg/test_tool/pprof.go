package testtool

import (
	"net/http"
	_ "net/http/pprof" // 匯入後會自動註冊 pprof endpoint

	"video_library_service/pkg/config"
	"video_library_service/pkg/logger"

	"go.uber.org/zap"
)

// PprofAddr pprof 只聽本機
const PprofAddr = "127.0.0.1:6060"

// StartPprof production 環境不啟動，其餘環境在 PprofAddr 提供 /debug/pprof/
func StartPprof() {
	if config.IsProduction() {
		logger.Log.Info("Production environment detected, pprof is disabled.")
		return
	}

	go func() {
		logger.Log.Info("Starting pprof server", zap.String("addr", PprofAddr))
		if err := http.ListenAndServe(PprofAddr, nil); err != nil {
			logger.Log.Warn("pprof server failed", zap.Error(err))
		}
	}()
}

// 常用指令:
// 	curl http://localhost:6060/debug/pprof/
// 	go tool pprof http://localhost:6060/debug/pprof/profile?seconds=30
// 	go tool pprof http://localhost:6060/debug/pprof/heap
// 	go tool pprof http://localhost:6060/debug/pprof/goroutine
