package service

import (
	"tabular-bench/internal/config"
)

type ServiceContext struct {
	Config      *config.Config
	BenchRunner *BenchRunner
}

func NewServiceContext(cfg *config.Config) *ServiceContext {
	return &ServiceContext{
		Config:      cfg,
		BenchRunner: NewBenchRunner(),
	}
}
