package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// BenchLogger appends frame render times, one per line in milliseconds, to
// <directory>/<cpu brand>/<scene>.txt so runs on different machines line up.
type BenchLogger struct {
	File *os.File

	mutex sync.Mutex
}

func NewBenchLogger(directory, scene string) (*BenchLogger, error) {
	var path string = filepath.Join(directory, cpuBrand())

	if err := os.MkdirAll(path, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create benchmark directory: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(path, scene+".txt"), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("open benchmark log: %w", err)
	}

	return &BenchLogger{File: file}, nil
}

func cpuBrand() string {
	if cpuid.CPU.BrandName == "" {
		return "unknown"
	}

	return cpuid.CPU.BrandName
}

func (logger *BenchLogger) Log(frame int, elapsed time.Duration) error {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	_, err := fmt.Fprintf(logger.File, "%d %.3f\n", frame, float64(elapsed.Microseconds())/1000)

	return err
}

func (logger *BenchLogger) Close() error {
	return logger.File.Close()
}
