package server

import (
	"testing"

	"github.com/Serg2206/ssvnauka-platform/internal/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	m.Run()
}
