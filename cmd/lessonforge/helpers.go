package main

import (
	"github.com/lessonforge/lessonforge/internal/config"
)

func loadConfig() (*config.Config, error) {
	return config.Load(configFile)
}
