package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Sampler reports the cpu and memory usage of the running process, in percent.
type Sampler interface {
	Sample() (cpu float64, ram float32, err error)
}

// HealthReporter is the part of *health.Server the monitor drives.
type HealthReporter interface {
	SetServingStatus(service string, status healthpb.HealthCheckResponse_ServingStatus)
}

type processSampler struct {
	proc *process.Process
}

func NewProcessSampler() (Sampler, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &processSampler{proc: p}, nil
}

func (s *processSampler) Sample() (float64, float32, error) {
	cpu, err := s.proc.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	ram, err := s.proc.MemoryPercent()
	if err != nil {
		return 0, 0, err
	}
	return cpu, ram, nil
}

// ResourceMonitor samples the process on every tick and reports the service
// as NOT_SERVING while memory usage stays above maxMemoryPercent.
// A zero maxMemoryPercent only logs the samples.
type ResourceMonitor struct {
	log              *slog.Logger
	sampler          Sampler
	health           HealthReporter
	service          string
	interval         time.Duration
	maxMemoryPercent float32
	serving          bool
}

func NewResourceMonitor(log *slog.Logger, sampler Sampler, health HealthReporter, service string,
	interval time.Duration, maxMemoryPercent float32) *ResourceMonitor {
	return &ResourceMonitor{
		log:              log,
		sampler:          sampler,
		health:           health,
		service:          service,
		interval:         interval,
		maxMemoryPercent: maxMemoryPercent,
		serving:          true,
	}
}

func (w *ResourceMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *ResourceMonitor) check() {
	cpu, ram, err := w.sampler.Sample()
	if err != nil {
		w.log.Warn("Unable to sample process usage", "error", err)
		return
	}
	w.log.Debug("Process usage", "cpu", cpu, "ram", ram)
	if w.maxMemoryPercent <= 0 {
		return
	}

	overloaded := ram > w.maxMemoryPercent
	switch {
	case overloaded && w.serving:
		w.log.Warn("Memory usage above threshold, reporting NOT_SERVING", "ram", ram, "max", w.maxMemoryPercent)
		w.health.SetServingStatus(w.service, healthpb.HealthCheckResponse_NOT_SERVING)
		w.serving = false
	case !overloaded && !w.serving:
		w.log.Info("Memory usage back to normal", "ram", ram)
		w.health.SetServingStatus(w.service, healthpb.HealthCheckResponse_SERVING)
		w.serving = true
	}
}
